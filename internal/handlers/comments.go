package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/auth"
	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
	"github.com/xand3reth/vibe-coded-blog-platform/internal/realtime"
)

type CommentsHandler struct {
	store Store
	hub   *realtime.Hub
}

func NewCommentsHandler(store Store, hub *realtime.Hub) *CommentsHandler {
	return &CommentsHandler{store: store, hub: hub}
}

func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	comments, err := h.store.ListComments(r.Context(), postID)
	if err != nil {
		log.Printf("list comments for %s: %v", postID, err)
		respondError(w, http.StatusInternalServerError, "failed to load comments")
		return
	}
	respondJSON(w, http.StatusOK, comments)
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

// Create inserts a comment authored by the session identity and notifies
// live viewers of the post. Whitespace-only content is rejected.
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	postID := chi.URLParam(r, "id")
	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	created, err := h.store.CreateComment(r.Context(), models.Comment{
		PostID:   postID,
		AuthorID: session.ProfileID,
		Content:  content,
	})
	if err != nil {
		log.Printf("create comment on %s: %v", postID, err)
		respondError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}

	h.hub.Publish(realtime.Event{Op: realtime.OpInsert, PostID: postID, CommentID: created.ID})
	respondJSON(w, http.StatusCreated, created)
}

// Events streams comment change notifications for one post as server-sent
// events. The subscription is released when the client disconnects.
func (h *CommentsHandler) Events(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sub := h.hub.Subscribe(postID)
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub.C:
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

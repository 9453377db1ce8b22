package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/auth"
	"github.com/xand3reth/vibe-coded-blog-platform/internal/db"
	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
	"github.com/xand3reth/vibe-coded-blog-platform/internal/realtime"
	"github.com/xand3reth/vibe-coded-blog-platform/internal/slug"
)

// AdminHandler owns the post lifecycle: create, edit, publish, unpublish,
// delete. Routes mounting it must sit behind the whitelist middleware.
type AdminHandler struct {
	store Store
	hub   *realtime.Hub
	now   func() time.Time
}

func NewAdminHandler(store Store, hub *realtime.Hub) *AdminHandler {
	return &AdminHandler{store: store, hub: hub, now: time.Now}
}

func (h *AdminHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page := parsePositiveInt(r.URL.Query().Get("page"), 1)
	limit := parsePositiveInt(r.URL.Query().Get("limit"), 20)
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	posts, total, err := h.store.ListPosts(r.Context(), true, limit, offset)
	if err != nil {
		log.Printf("admin list posts: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}
	respondJSON(w, http.StatusOK, PostsResponse{Data: posts, Page: page, Limit: limit, Total: total})
}

type PostRequest struct {
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Content       string `json:"content"`
	Excerpt       string `json:"excerpt"`
	CoverImageURL string `json:"cover_image_url"`
	Status        string `json:"status"`
}

func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		respondError(w, http.StatusBadRequest, "title and content are required")
		return
	}
	if req.Status != "" && req.Status != models.StatusDraft && req.Status != models.StatusPublished {
		respondError(w, http.StatusBadRequest, "status must be draft or published")
		return
	}
	if req.Slug == "" {
		req.Slug = slug.FromTitle(req.Title)
	}
	if req.Slug == "" {
		respondError(w, http.StatusBadRequest, "slug is required")
		return
	}

	post := models.Post{
		Slug:          req.Slug,
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		CoverImageURL: req.CoverImageURL,
		AuthorID:      session.ProfileID,
		Status:        req.Status,
	}
	if req.Status == models.StatusPublished {
		now := h.now()
		post.PublishedAt = &now
	}

	created, err := h.store.CreatePost(r.Context(), post)
	if err != nil {
		h.respondStoreError(w, "create post", err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		respondError(w, http.StatusBadRequest, "title and content are required")
		return
	}
	if req.Slug == "" {
		respondError(w, http.StatusBadRequest, "slug is required")
		return
	}

	updated, err := h.store.UpdatePost(r.Context(), models.Post{
		ID:            id,
		Slug:          req.Slug,
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		CoverImageURL: req.CoverImageURL,
	})
	if err != nil {
		h.respondStoreError(w, "update post", err)
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// Publish moves a post into the published state. published_at is stamped on
// the first publish only; unpublish/republish cycles keep the original
// timestamp.
func (h *AdminHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.store.GetPostByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, "publish post", err)
		return
	}
	if post == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	var publishedAt *time.Time
	if post.PublishedAt == nil {
		now := h.now()
		publishedAt = &now
	}

	updated, err := h.store.SetPostStatus(r.Context(), id, models.StatusPublished, publishedAt)
	if err != nil {
		h.respondStoreError(w, "publish post", err)
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	updated, err := h.store.SetPostStatus(r.Context(), id, models.StatusDraft, nil)
	if err != nil {
		h.respondStoreError(w, "unpublish post", err)
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.store.DeletePost(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, "delete post", err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	// Comments went with the post; tell anyone still watching them.
	h.hub.Publish(realtime.Event{Op: realtime.OpDelete, PostID: id})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) respondStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, db.ErrDuplicateSlug):
		respondError(w, http.StatusConflict, "a post with this slug already exists")
	case errors.Is(err, db.ErrPermissionDenied):
		respondError(w, http.StatusForbidden, "you do not have permission to do that")
	default:
		log.Printf("%s: %v", op, err)
		respondError(w, http.StatusInternalServerError, "something went wrong")
	}
}

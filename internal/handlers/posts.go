package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type PostsHandler struct {
	store Store
}

func NewPostsHandler(store Store) *PostsHandler {
	return &PostsHandler{store: store}
}

type PostsResponse struct {
	Data  interface{} `json:"data"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total int         `json:"total"`
}

func (h *PostsHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	page := parsePositiveInt(r.URL.Query().Get("page"), 1)
	limit := parsePositiveInt(r.URL.Query().Get("limit"), 10)
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	posts, total, err := h.store.ListPosts(r.Context(), false, limit, offset)
	if err != nil {
		log.Printf("list posts: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}

	respondJSON(w, http.StatusOK, PostsResponse{
		Data:  posts,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *PostsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, "missing search query")
		return
	}

	page := parsePositiveInt(r.URL.Query().Get("page"), 1)
	limit := parsePositiveInt(r.URL.Query().Get("limit"), 10)
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	posts, total, err := h.store.SearchPosts(r.Context(), query, limit, offset)
	if err != nil {
		log.Printf("search posts: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to search posts")
		return
	}

	respondJSON(w, http.StatusOK, PostsResponse{
		Data:  posts,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// Get resolves a post by id when the path segment parses as a UUID, by slug
// otherwise. Slug lookups only see published posts.
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "id")
	if key == "" {
		respondError(w, http.StatusBadRequest, "missing post identifier")
		return
	}

	var err error
	if _, parseErr := uuid.Parse(key); parseErr == nil {
		p, e := h.store.GetPostByID(r.Context(), key)
		if e == nil && p != nil {
			respondJSON(w, http.StatusOK, p)
			return
		}
		err = e
	} else {
		p, e := h.store.GetPostBySlug(r.Context(), key)
		if e == nil && p != nil {
			respondJSON(w, http.StatusOK, p)
			return
		}
		err = e
	}
	if err != nil {
		log.Printf("get post %q: %v", key, err)
		respondError(w, http.StatusInternalServerError, "failed to load post")
		return
	}
	respondError(w, http.StatusNotFound, "not found")
}

type IncrementViewRequest struct {
	PostID string `json:"postId"`
}

// IncrementView is the JSON proxy in front of the view-counter update.
// Responses follow the published contract: 200 on success, 400 when postId
// is missing, 405 on a non-POST, 500 when the update fails.
func (h *PostsHandler) IncrementView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req IncrementViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PostID == "" {
		respondError(w, http.StatusBadRequest, "postId is required")
		return
	}

	if err := h.store.IncrementViewCount(r.Context(), req.PostID); err != nil {
		log.Printf("increment view count for %s: %v", req.PostID, err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
)

// Store is the persistence surface the handlers depend on. *db.Store
// satisfies it; tests substitute a mock.
type Store interface {
	ListPosts(ctx context.Context, includeDrafts bool, limit, offset int) ([]models.PostListItem, int, error)
	SearchPosts(ctx context.Context, query string, limit, offset int) ([]models.PostListItem, int, error)
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	CreatePost(ctx context.Context, post models.Post) (*models.Post, error)
	UpdatePost(ctx context.Context, post models.Post) (*models.Post, error)
	SetPostStatus(ctx context.Context, id, status string, publishedAt *time.Time) (*models.Post, error)
	DeletePost(ctx context.Context, id string) (bool, error)
	IncrementViewCount(ctx context.Context, id string) error
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error)
	UpsertProfile(ctx context.Context, profile models.Profile) (*models.Profile, error)
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	IsWhitelisted(ctx context.Context, email string) (bool, error)
}

func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

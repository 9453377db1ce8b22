// Package client implements the view controllers of the blog apps: the
// paginated home list, the post detail view with its view-count side effect,
// the live comment section, the admin post editor, and the auth gate. They
// hold no rendering concerns; a UI layer observes their state.
package client

import (
	"context"
	"errors"
	"io"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
)

// PostDraft carries the editable fields of a post.
type PostDraft struct {
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	CoverImageURL string
	Status        string
}

// Backend is the service boundary the controllers talk to. HTTPBackend
// implements it against the blog server; tests use an in-memory fake.
type Backend interface {
	// ListPosts returns a page of published posts, newest publish first.
	ListPosts(ctx context.Context, limit, offset int) ([]models.PostListItem, error)
	// GetPost resolves a post by id or slug; (nil, nil) when absent.
	GetPost(ctx context.Context, idOrSlug string) (*models.Post, error)
	IncrementViewCount(ctx context.Context, postID string) error

	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, postID, content string) (*models.Comment, error)
	// SubscribeComments registers onChange to run on any comment change for
	// the post. The returned handle must be closed when the viewer leaves.
	SubscribeComments(postID string, onChange func()) (io.Closer, error)

	ListAllPosts(ctx context.Context, limit, offset int) ([]models.PostListItem, error)
	CreatePost(ctx context.Context, draft PostDraft) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, draft PostDraft) (*models.Post, error)
	PublishPost(ctx context.Context, id string) (*models.Post, error)
	UnpublishPost(ctx context.Context, id string) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error

	// Session returns the signed-in profile; (nil, nil) when logged out.
	Session(ctx context.Context) (*models.Profile, error)
	SignOut(ctx context.Context) error
}

// Errors the controllers and backends trade in. Everything else is treated
// as a generic failure.
var (
	ErrEmptyComment   = errors.New("comment is empty")
	ErrIncompletePost = errors.New("title and content are required")
	ErrDuplicateSlug  = errors.New("slug already in use")
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("not signed in")
)

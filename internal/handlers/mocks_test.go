package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/auth"
	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
	"github.com/xand3reth/vibe-coded-blog-platform/internal/realtime"
)

var errNotStubbed = errors.New("not stubbed")

// mockStore implements Store with overridable func fields.
type mockStore struct {
	ListPostsFunc          func(ctx context.Context, includeDrafts bool, limit, offset int) ([]models.PostListItem, int, error)
	SearchPostsFunc        func(ctx context.Context, query string, limit, offset int) ([]models.PostListItem, int, error)
	GetPostByIDFunc        func(ctx context.Context, id string) (*models.Post, error)
	GetPostBySlugFunc      func(ctx context.Context, slug string) (*models.Post, error)
	CreatePostFunc         func(ctx context.Context, post models.Post) (*models.Post, error)
	UpdatePostFunc         func(ctx context.Context, post models.Post) (*models.Post, error)
	SetPostStatusFunc      func(ctx context.Context, id, status string, publishedAt *time.Time) (*models.Post, error)
	DeletePostFunc         func(ctx context.Context, id string) (bool, error)
	IncrementViewCountFunc func(ctx context.Context, id string) error
	ListCommentsFunc       func(ctx context.Context, postID string) ([]models.Comment, error)
	CreateCommentFunc      func(ctx context.Context, comment models.Comment) (*models.Comment, error)
	UpsertProfileFunc      func(ctx context.Context, profile models.Profile) (*models.Profile, error)
	GetProfileFunc         func(ctx context.Context, id string) (*models.Profile, error)
	IsWhitelistedFunc      func(ctx context.Context, email string) (bool, error)
}

func (m *mockStore) ListPosts(ctx context.Context, includeDrafts bool, limit, offset int) ([]models.PostListItem, int, error) {
	if m.ListPostsFunc != nil {
		return m.ListPostsFunc(ctx, includeDrafts, limit, offset)
	}
	return nil, 0, errNotStubbed
}

func (m *mockStore) SearchPosts(ctx context.Context, query string, limit, offset int) ([]models.PostListItem, int, error) {
	if m.SearchPostsFunc != nil {
		return m.SearchPostsFunc(ctx, query, limit, offset)
	}
	return nil, 0, errNotStubbed
}

func (m *mockStore) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if m.GetPostByIDFunc != nil {
		return m.GetPostByIDFunc(ctx, id)
	}
	return nil, errNotStubbed
}

func (m *mockStore) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	if m.GetPostBySlugFunc != nil {
		return m.GetPostBySlugFunc(ctx, slug)
	}
	return nil, errNotStubbed
}

func (m *mockStore) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	if m.CreatePostFunc != nil {
		return m.CreatePostFunc(ctx, post)
	}
	return nil, errNotStubbed
}

func (m *mockStore) UpdatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	if m.UpdatePostFunc != nil {
		return m.UpdatePostFunc(ctx, post)
	}
	return nil, errNotStubbed
}

func (m *mockStore) SetPostStatus(ctx context.Context, id, status string, publishedAt *time.Time) (*models.Post, error) {
	if m.SetPostStatusFunc != nil {
		return m.SetPostStatusFunc(ctx, id, status, publishedAt)
	}
	return nil, errNotStubbed
}

func (m *mockStore) DeletePost(ctx context.Context, id string) (bool, error) {
	if m.DeletePostFunc != nil {
		return m.DeletePostFunc(ctx, id)
	}
	return false, errNotStubbed
}

func (m *mockStore) IncrementViewCount(ctx context.Context, id string) error {
	if m.IncrementViewCountFunc != nil {
		return m.IncrementViewCountFunc(ctx, id)
	}
	return errNotStubbed
}

func (m *mockStore) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(ctx, postID)
	}
	return nil, errNotStubbed
}

func (m *mockStore) CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error) {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, comment)
	}
	return nil, errNotStubbed
}

func (m *mockStore) UpsertProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	if m.UpsertProfileFunc != nil {
		return m.UpsertProfileFunc(ctx, profile)
	}
	return nil, errNotStubbed
}

func (m *mockStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, id)
	}
	return nil, errNotStubbed
}

func (m *mockStore) IsWhitelisted(ctx context.Context, email string) (bool, error) {
	if m.IsWhitelistedFunc != nil {
		return m.IsWhitelistedFunc(ctx, email)
	}
	return false, errNotStubbed
}

// stubOAuth completes the OAuth flow without leaving the process.
type stubOAuth struct {
	identity *auth.Identity
	err      error
}

func (s *stubOAuth) AuthCodeURL(state string) string {
	return "https://accounts.example.com/consent?state=" + state
}

func (s *stubOAuth) Exchange(_ context.Context, _ string) (*auth.Identity, error) {
	return s.identity, s.err
}

func testRouter(store Store, hub *realtime.Hub, oauth OAuthProvider) (http.Handler, *auth.Manager) {
	if hub == nil {
		hub = realtime.NewHub()
	}
	if oauth == nil {
		oauth = &stubOAuth{}
	}
	sessions := auth.NewManager("test-secret")
	router := NewRouter(RouterConfig{
		Store:              store,
		Hub:                hub,
		Sessions:           sessions,
		OAuth:              oauth,
		CorsAllowedOrigins: []string{"*"},
	})
	return router, sessions
}

func sessionCookie(sessions *auth.Manager, s auth.Session) *http.Cookie {
	token, _ := sessions.Issue(s)
	return &http.Cookie{Name: auth.SessionCookie, Value: token}
}

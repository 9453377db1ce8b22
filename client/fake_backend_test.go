package client

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
)

// fakeBackend is an in-memory Backend with real pagination, publish, and
// subscription semantics, so controller tests exercise full scenarios.
type fakeBackend struct {
	mu       sync.Mutex
	posts    map[string]*models.Post
	comments map[string][]models.Comment
	profile  *models.Profile
	subs     map[string][]func()

	clock time.Time

	listErr    error
	commentErr error

	listCalls      int
	incrementCalls int
	createComments int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		posts:    make(map[string]*models.Post),
		comments: make(map[string][]models.Comment),
		subs:     make(map[string][]func()),
		clock:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeBackend) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

// addPublished seeds a published post; later calls publish later, so they
// sort first in the feed.
func (f *fakeBackend) addPublished(title string) *models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	at := f.tick()
	post := &models.Post{
		ID:          uuid.NewString(),
		Title:       title,
		Slug:        fmt.Sprintf("post-%d", len(f.posts)+1),
		Content:     "content",
		Status:      models.StatusPublished,
		PublishedAt: &at,
	}
	f.posts[post.ID] = post
	return post
}

func (f *fakeBackend) publishedDesc() []*models.Post {
	out := make([]*models.Post, 0, len(f.posts))
	for _, p := range f.posts {
		if p.Status == models.StatusPublished {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PublishedAt.After(*out[j].PublishedAt)
	})
	return out
}

func (f *fakeBackend) ListPosts(_ context.Context, limit, offset int) ([]models.PostListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	published := f.publishedDesc()
	if offset >= len(published) {
		return nil, nil
	}
	end := offset + limit
	if end > len(published) {
		end = len(published)
	}
	items := make([]models.PostListItem, 0, end-offset)
	for _, p := range published[offset:end] {
		items = append(items, models.PostListItem{
			ID:          p.ID,
			Slug:        p.Slug,
			Title:       p.Title,
			Status:      p.Status,
			ViewCount:   p.ViewCount,
			PublishedAt: p.PublishedAt,
		})
	}
	return items, nil
}

func (f *fakeBackend) GetPost(_ context.Context, idOrSlug string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == idOrSlug || p.Slug == idOrSlug {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBackend) IncrementViewCount(_ context.Context, postID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incrementCalls++
	if p, ok := f.posts[postID]; ok {
		p.ViewCount++
	}
	return nil
}

func (f *fakeBackend) ListComments(_ context.Context, postID string) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commentErr != nil {
		return nil, f.commentErr
	}
	out := make([]models.Comment, len(f.comments[postID]))
	copy(out, f.comments[postID])
	return out, nil
}

func (f *fakeBackend) CreateComment(_ context.Context, postID, content string) (*models.Comment, error) {
	f.mu.Lock()
	f.createComments++
	if f.commentErr != nil {
		f.mu.Unlock()
		return nil, f.commentErr
	}
	comment := models.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		Content:   content,
		CreatedAt: f.tick(),
	}
	f.comments[postID] = append(f.comments[postID], comment)
	listeners := append([]func(){}, f.subs[postID]...)
	f.mu.Unlock()

	for _, notify := range listeners {
		notify()
	}
	return &comment, nil
}

type fakeSub struct {
	close func()
}

func (s *fakeSub) Close() error {
	s.close()
	return nil
}

func (f *fakeBackend) SubscribeComments(postID string, onChange func()) (io.Closer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[postID] = append(f.subs[postID], onChange)
	idx := len(f.subs[postID]) - 1
	return &fakeSub{close: func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.subs[postID][idx] = func() {}
	}}, nil
}

func (f *fakeBackend) subscriberCount(postID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[postID])
}

func (f *fakeBackend) ListAllPosts(ctx context.Context, limit, offset int) ([]models.PostListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]models.PostListItem, 0, len(f.posts))
	for _, p := range f.posts {
		items = append(items, models.PostListItem{ID: p.ID, Title: p.Title, Status: p.Status, ViewCount: p.ViewCount})
	}
	return items, nil
}

func (f *fakeBackend) CreatePost(_ context.Context, draft PostDraft) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.Slug == draft.Slug {
			return nil, ErrDuplicateSlug
		}
	}
	post := &models.Post{
		ID:      uuid.NewString(),
		Slug:    draft.Slug,
		Title:   draft.Title,
		Content: draft.Content,
		Status:  models.StatusDraft,
	}
	if draft.Status == models.StatusPublished {
		at := f.tick()
		post.Status = models.StatusPublished
		post.PublishedAt = &at
	}
	f.posts[post.ID] = post
	copied := *post
	return &copied, nil
}

func (f *fakeBackend) UpdatePost(_ context.Context, id string, draft PostDraft) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	post.Title = draft.Title
	post.Slug = draft.Slug
	post.Content = draft.Content
	copied := *post
	return &copied, nil
}

func (f *fakeBackend) PublishPost(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	post.Status = models.StatusPublished
	if post.PublishedAt == nil {
		at := f.tick()
		post.PublishedAt = &at
	}
	copied := *post
	return &copied, nil
}

func (f *fakeBackend) UnpublishPost(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	post.Status = models.StatusDraft
	copied := *post
	return &copied, nil
}

func (f *fakeBackend) DeletePost(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return ErrNotFound
	}
	delete(f.posts, id)
	delete(f.comments, id)
	return nil
}

func (f *fakeBackend) Session(_ context.Context) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profile == nil {
		return nil, nil
	}
	copied := *f.profile
	return &copied, nil
}

func (f *fakeBackend) SignOut(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile = nil
	return nil
}

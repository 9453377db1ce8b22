package client

import (
	"context"
	"sync"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
)

// PageSize is how many posts a single list fetch asks for.
const PageSize = 10

// PostList drives the paginated home feed. A short page marks the end of the
// data; later load-more triggers become no-ops until the next refresh.
type PostList struct {
	backend Backend
	alert   func(error)

	mu       sync.Mutex
	posts    []models.PostListItem
	hasMore  bool
	inFlight bool
}

// NewPostList builds the controller. alert receives fetch failures for a
// generic user-facing notice; pass nil to drop them.
func NewPostList(backend Backend, alert func(error)) *PostList {
	if alert == nil {
		alert = func(error) {}
	}
	return &PostList{backend: backend, alert: alert, hasMore: true}
}

// FetchFirstPage loads the head of the feed, replacing whatever is shown.
// On failure the current list stays untouched. It deliberately does not take
// the in-flight guard: a refresh never waits on a load-more, and whichever
// response lands last wins.
func (l *PostList) FetchFirstPage(ctx context.Context) error {
	posts, err := l.backend.ListPosts(ctx, PageSize, 0)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.alert(err)
		return err
	}
	l.posts = posts
	l.hasMore = len(posts) == PageSize
	return nil
}

// FetchNextPage appends the next page. It is a no-op while a fetch is in
// flight or once the end of the feed was seen.
func (l *PostList) FetchNextPage(ctx context.Context) error {
	l.mu.Lock()
	if l.inFlight || !l.hasMore {
		l.mu.Unlock()
		return nil
	}
	l.inFlight = true
	offset := len(l.posts)
	l.mu.Unlock()

	posts, err := l.backend.ListPosts(ctx, PageSize, offset)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inFlight = false
	if err != nil {
		l.alert(err)
		return err
	}
	l.posts = append(l.posts, posts...)
	l.hasMore = len(posts) == PageSize
	return nil
}

// Refresh re-runs the first-page fetch. No merging against the old list: a
// post published since the last load simply shows up on top.
func (l *PostList) Refresh(ctx context.Context) error {
	return l.FetchFirstPage(ctx)
}

func (l *PostList) Posts() []models.PostListItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.PostListItem, len(l.posts))
	copy(out, l.posts)
	return out
}

func (l *PostList) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

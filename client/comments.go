package client

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
)

// Comments keeps a post's comment list in sync with the backend. Any change
// event triggers a full reload rather than a row patch, so the visible list
// is always a fresh read of ground truth. Submissions are not rendered
// optimistically; the reload triggered by the change event adds them.
type Comments struct {
	backend Backend
	postID  string

	mu       sync.Mutex
	comments []models.Comment
	sub      io.Closer
}

func NewComments(backend Backend, postID string) *Comments {
	return &Comments{backend: backend, postID: postID}
}

// Open loads the comment list and starts the live subscription. Close must
// be called when the viewer leaves the post.
func (c *Comments) Open(ctx context.Context) error {
	if err := c.Reload(ctx); err != nil {
		return err
	}

	sub, err := c.backend.SubscribeComments(c.postID, func() {
		if err := c.Reload(context.Background()); err != nil {
			log.Printf("reload comments for %s: %v", c.postID, err)
		}
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.sub = sub
	c.mu.Unlock()
	return nil
}

// Reload replaces the local list wholesale with a fresh read.
func (c *Comments) Reload(ctx context.Context) error {
	comments, err := c.backend.ListComments(ctx, c.postID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.comments = comments
	c.mu.Unlock()
	return nil
}

// Submit posts a new comment. Empty and whitespace-only content is rejected
// before any network call. The local list is left alone on success; the
// subscription-triggered reload will surface the comment.
func (c *Comments) Submit(ctx context.Context, content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ErrEmptyComment
	}
	_, err := c.backend.CreateComment(ctx, c.postID, trimmed)
	return err
}

// Close releases the live subscription.
func (c *Comments) Close() error {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()
	if sub == nil {
		return nil
	}
	return sub.Close()
}

func (c *Comments) Comments() []models.Comment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Comment, len(c.comments))
	copy(out, c.comments)
	return out
}

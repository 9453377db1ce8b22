package client

import (
	"context"
	"log"
	"sync"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
)

// PostDetail drives a single post view. One controller per mount: the
// view-count increment fires at most once over its lifetime, no matter how
// often Load runs.
type PostDetail struct {
	backend Backend

	incrementOnce sync.Once

	mu       sync.Mutex
	post     *models.Post
	notFound bool
}

func NewPostDetail(backend Backend) *PostDetail {
	return &PostDetail{backend: backend}
}

// Load fetches the post by id or slug. An absent row or a failed query both
// resolve to the not-found state. On the first call it also fires the
// fire-and-forget view-count increment, which never blocks the fetch and
// whose failure is only logged.
func (d *PostDetail) Load(ctx context.Context, idOrSlug string) {
	post, err := d.backend.GetPost(ctx, idOrSlug)

	d.mu.Lock()
	if err != nil || post == nil {
		d.post = nil
		d.notFound = true
	} else {
		d.post = post
		d.notFound = false
	}
	d.mu.Unlock()

	if post != nil {
		postID := post.ID
		d.incrementOnce.Do(func() {
			go func() {
				if err := d.backend.IncrementViewCount(context.Background(), postID); err != nil {
					log.Printf("increment view count for %s: %v", postID, err)
				}
			}()
		})
	}
}

// Post returns the loaded post, or nil before Load / when not found.
func (d *PostDetail) Post() *models.Post {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.post
}

func (d *PostDetail) NotFound() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notFound
}

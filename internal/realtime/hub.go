// Package realtime delivers comment change notifications to live viewers of
// a post. It carries no row data: subscribers are expected to re-read the
// comment list on any event, so an event is just "something changed".
package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Operation kinds carried by an Event.
const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

type Event struct {
	Op        string `json:"op"`
	PostID    string `json:"post_id"`
	CommentID string `json:"comment_id,omitempty"`
}

// Subscription is a scoped handle on a post's change feed. The owner must
// call Close when the viewer leaves the post, or the channel leaks.
type Subscription struct {
	C chan Event

	id     string
	postID string
	hub    *Hub
	once   sync.Once
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s.postID, s.id)
		close(s.C)
	})
}

// Hub fans comment events out to every open subscription on the same post.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[string]*Subscription // postID -> subscription id
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[string]*Subscription)}
}

// Subscribe opens a change feed for one post.
func (h *Hub) Subscribe(postID string) *Subscription {
	sub := &Subscription{
		C:      make(chan Event, 16),
		id:     uuid.NewString(),
		postID: postID,
		hub:    h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[postID] == nil {
		h.subs[postID] = make(map[string]*Subscription)
	}
	h.subs[postID][sub.id] = sub
	return sub
}

// Publish delivers an event to every subscriber of the event's post. A
// subscriber whose buffer is full is skipped rather than blocking the
// publisher; it will catch up on the next event.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs[event.PostID] {
		select {
		case sub.C <- event:
		default:
		}
	}
}

// SubscriberCount reports the open subscriptions for a post.
func (h *Hub) SubscriberCount(postID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[postID])
}

func (h *Hub) remove(postID, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[postID], id)
	if len(h.subs[postID]) == 0 {
		delete(h.subs, postID)
	}
}

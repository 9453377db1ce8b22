package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
)

// HTTPBackend implements Backend against the blog server's JSON API. A
// cookie jar carries the session across calls.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
}

func NewHTTPBackend(baseURL string) (*HTTPBackend, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Jar: jar},
	}, nil
}

type listResponse struct {
	Data []models.PostListItem `json:"data"`
}

func (b *HTTPBackend) ListPosts(ctx context.Context, limit, offset int) ([]models.PostListItem, error) {
	return b.listPosts(ctx, "/api/posts", limit, offset)
}

func (b *HTTPBackend) ListAllPosts(ctx context.Context, limit, offset int) ([]models.PostListItem, error) {
	return b.listPosts(ctx, "/admin/posts", limit, offset)
}

func (b *HTTPBackend) listPosts(ctx context.Context, path string, limit, offset int) ([]models.PostListItem, error) {
	page := offset/limit + 1
	url := fmt.Sprintf("%s%s?page=%d&limit=%d", b.baseURL, path, page, limit)
	var out listResponse
	if err := b.do(ctx, http.MethodGet, url, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (b *HTTPBackend) GetPost(ctx context.Context, idOrSlug string) (*models.Post, error) {
	var post models.Post
	err := b.do(ctx, http.MethodGet, b.baseURL+"/api/posts/"+idOrSlug, nil, &post)
	if err == ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (b *HTTPBackend) IncrementViewCount(ctx context.Context, postID string) error {
	body := map[string]string{"postId": postID}
	return b.do(ctx, http.MethodPost, b.baseURL+"/api/posts/increment-view", body, nil)
}

func (b *HTTPBackend) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var out []models.Comment
	if err := b.do(ctx, http.MethodGet, b.baseURL+"/api/posts/"+postID+"/comments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *HTTPBackend) CreateComment(ctx context.Context, postID, content string) (*models.Comment, error) {
	var out models.Comment
	body := map[string]string{"content": content}
	if err := b.do(ctx, http.MethodPost, b.baseURL+"/api/posts/"+postID+"/comments", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// commentSubscription tails the server-sent event stream for one post.
type commentSubscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *commentSubscription) Close() error {
	s.cancel()
	<-s.done
	return nil
}

func (b *HTTPBackend) SubscribeComments(postID string, onChange func()) (io.Closer, error) {
	ctx, cancel := context.WithCancel(context.Background())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		b.baseURL+"/api/posts/"+postID+"/comments/events", nil)
	if err != nil {
		cancel()
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("subscribe comments: status %d", resp.StatusCode)
	}

	sub := &commentSubscription{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		defer resp.Body.Close()
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if strings.HasPrefix(scanner.Text(), "data:") {
				onChange()
			}
		}
	}()
	return sub, nil
}

func (b *HTTPBackend) CreatePost(ctx context.Context, draft PostDraft) (*models.Post, error) {
	var out models.Post
	if err := b.do(ctx, http.MethodPost, b.baseURL+"/admin/posts", draftBody(draft), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) UpdatePost(ctx context.Context, id string, draft PostDraft) (*models.Post, error) {
	var out models.Post
	if err := b.do(ctx, http.MethodPut, b.baseURL+"/admin/posts/"+id, draftBody(draft), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) PublishPost(ctx context.Context, id string) (*models.Post, error) {
	var out models.Post
	if err := b.do(ctx, http.MethodPost, b.baseURL+"/admin/posts/"+id+"/publish", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) UnpublishPost(ctx context.Context, id string) (*models.Post, error) {
	var out models.Post
	if err := b.do(ctx, http.MethodPost, b.baseURL+"/admin/posts/"+id+"/unpublish", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) DeletePost(ctx context.Context, id string) error {
	return b.do(ctx, http.MethodDelete, b.baseURL+"/admin/posts/"+id, nil, nil)
}

func (b *HTTPBackend) Session(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	err := b.do(ctx, http.MethodGet, b.baseURL+"/auth/session", nil, &profile)
	if err == ErrUnauthorized {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (b *HTTPBackend) SignOut(ctx context.Context) error {
	return b.do(ctx, http.MethodPost, b.baseURL+"/auth/logout", nil, nil)
}

func draftBody(draft PostDraft) map[string]string {
	return map[string]string{
		"title":           draft.Title,
		"slug":            draft.Slug,
		"content":         draft.Content,
		"excerpt":         draft.Excerpt,
		"cover_image_url": draft.CoverImageURL,
		"status":          draft.Status,
	}
}

// do runs one JSON round-trip and maps error statuses onto the package
// sentinels.
func (b *HTTPBackend) do(ctx context.Context, method, url string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return ErrDuplicateSlug
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode >= 400:
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s", method, url, apiErr.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, url, resp.StatusCode)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

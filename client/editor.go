package client

import (
	"context"
	"errors"
	"strings"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
	"github.com/xand3reth/vibe-coded-blog-platform/internal/slug"
)

// Editor is the admin post form. When creating, the slug tracks the title;
// when editing an existing post the slug only changes by hand, so published
// URLs stay stable.
type Editor struct {
	backend Backend

	postID  string
	editing bool
	draft   PostDraft
}

// NewEditor opens a blank form for a new post.
func NewEditor(backend Backend) *Editor {
	return &Editor{backend: backend, draft: PostDraft{Status: models.StatusDraft}}
}

// NewEditorFor opens the form pre-filled with an existing post.
func NewEditorFor(backend Backend, post *models.Post) *Editor {
	return &Editor{
		backend: backend,
		postID:  post.ID,
		editing: true,
		draft: PostDraft{
			Title:         post.Title,
			Slug:          post.Slug,
			Content:       post.Content,
			Excerpt:       post.Excerpt,
			CoverImageURL: post.CoverImageURL,
			Status:        post.Status,
		},
	}
}

// SetTitle updates the title, re-deriving the slug only while creating.
func (e *Editor) SetTitle(title string) {
	e.draft.Title = title
	if !e.editing {
		e.draft.Slug = slug.FromTitle(title)
	}
}

func (e *Editor) SetSlug(s string)          { e.draft.Slug = s }
func (e *Editor) SetContent(c string)       { e.draft.Content = c }
func (e *Editor) SetExcerpt(x string)       { e.draft.Excerpt = x }
func (e *Editor) SetCoverImageURL(u string) { e.draft.CoverImageURL = u }

func (e *Editor) Draft() PostDraft { return e.draft }

// CanSave reports whether the mandatory fields are filled in; save and
// publish actions stay disabled until it returns true.
func (e *Editor) CanSave() bool {
	return strings.TrimSpace(e.draft.Title) != "" && strings.TrimSpace(e.draft.Content) != ""
}

// Save persists the form with the given target status.
func (e *Editor) Save(ctx context.Context, status string) (*models.Post, error) {
	if !e.CanSave() {
		return nil, ErrIncompletePost
	}
	draft := e.draft
	draft.Status = status

	if e.editing {
		updated, err := e.backend.UpdatePost(ctx, e.postID, draft)
		if err != nil {
			return nil, err
		}
		if status == models.StatusPublished && updated.Status != models.StatusPublished {
			return e.backend.PublishPost(ctx, e.postID)
		}
		if status == models.StatusDraft && updated.Status != models.StatusDraft {
			return e.backend.UnpublishPost(ctx, e.postID)
		}
		return updated, nil
	}

	created, err := e.backend.CreatePost(ctx, draft)
	if err != nil {
		return nil, err
	}
	e.postID = created.ID
	e.editing = true
	return created, nil
}

func (e *Editor) Publish(ctx context.Context) (*models.Post, error) {
	return e.backend.PublishPost(ctx, e.postID)
}

func (e *Editor) Unpublish(ctx context.Context) (*models.Post, error) {
	return e.backend.UnpublishPost(ctx, e.postID)
}

func (e *Editor) Delete(ctx context.Context) error {
	return e.backend.DeletePost(ctx, e.postID)
}

// UserMessage maps a save error onto the text shown in the form. Recognized
// backend constraint errors get a specific message, the rest a generic one.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicateSlug):
		return "A post with this slug already exists. Pick another slug."
	case errors.Is(err, ErrIncompletePost):
		return "Title and content are required."
	case errors.Is(err, ErrUnauthorized):
		return "You need to sign in to do that."
	default:
		return "Something went wrong. Please try again."
	}
}

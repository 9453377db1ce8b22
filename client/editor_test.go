package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
)

func TestEditor_SlugTracksTitleWhileCreating(t *testing.T) {
	e := NewEditor(newFakeBackend())

	e.SetTitle("My First Post")
	assert.Equal(t, "my-first-post", e.Draft().Slug)

	e.SetTitle("Hello, World! 2024")
	assert.Equal(t, "hello-world-2024", e.Draft().Slug)
}

func TestEditor_SlugFrozenWhileEditing(t *testing.T) {
	backend := newFakeBackend()
	post := backend.addPublished("Original Title")

	e := NewEditorFor(backend, post)
	e.SetTitle("Completely New Title")
	assert.Equal(t, post.Slug, e.Draft().Slug, "editing must not rewrite the slug")

	// Manual slug edits still work.
	e.SetSlug("hand-picked")
	assert.Equal(t, "hand-picked", e.Draft().Slug)
}

func TestEditor_CanSaveRequiresTitleAndContent(t *testing.T) {
	e := NewEditor(newFakeBackend())
	assert.False(t, e.CanSave())

	e.SetTitle("Title")
	assert.False(t, e.CanSave())

	e.SetContent("   ")
	assert.False(t, e.CanSave())

	e.SetContent("Body")
	assert.True(t, e.CanSave())
}

func TestEditor_SaveIncompleteNeverReachesBackend(t *testing.T) {
	backend := newFakeBackend()
	e := NewEditor(backend)

	_, err := e.Save(context.Background(), models.StatusDraft)
	assert.ErrorIs(t, err, ErrIncompletePost)
	assert.Empty(t, backend.posts)
}

func TestEditor_CreateDraftThenPublishLifecycle(t *testing.T) {
	backend := newFakeBackend()
	ctx := context.Background()

	e := NewEditor(backend)
	e.SetTitle("My First Post")
	e.SetContent("Some body")

	created, err := e.Save(ctx, models.StatusDraft)
	require.NoError(t, err)
	assert.Equal(t, "my-first-post", created.Slug)
	assert.Equal(t, models.StatusDraft, created.Status)
	assert.Zero(t, created.ViewCount)
	assert.Nil(t, created.PublishedAt)

	published, err := e.Publish(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)
}

func TestEditor_PublishedAtSurvivesRepublish(t *testing.T) {
	backend := newFakeBackend()
	ctx := context.Background()

	e := NewEditor(backend)
	e.SetTitle("Evergreen")
	e.SetContent("Body")
	_, err := e.Save(ctx, models.StatusDraft)
	require.NoError(t, err)

	first, err := e.Publish(ctx)
	require.NoError(t, err)
	require.NotNil(t, first.PublishedAt)
	t1 := *first.PublishedAt

	_, err = e.Unpublish(ctx)
	require.NoError(t, err)

	again, err := e.Publish(ctx)
	require.NoError(t, err)
	require.NotNil(t, again.PublishedAt)
	assert.Equal(t, t1, *again.PublishedAt, "republish must keep the first publish time")
}

func TestEditor_DuplicateSlugMessage(t *testing.T) {
	backend := newFakeBackend()
	ctx := context.Background()

	first := NewEditor(backend)
	first.SetTitle("Same Title")
	first.SetContent("Body")
	_, err := first.Save(ctx, models.StatusDraft)
	require.NoError(t, err)

	second := NewEditor(backend)
	second.SetTitle("Same Title")
	second.SetContent("Other body")
	_, err = second.Save(ctx, models.StatusDraft)
	require.ErrorIs(t, err, ErrDuplicateSlug)

	assert.Contains(t, UserMessage(err), "slug already exists")
}

func TestEditor_DeleteRemovesEverywhere(t *testing.T) {
	backend := newFakeBackend()
	ctx := context.Background()

	post := backend.addPublished("Doomed")
	_, err := backend.CreateComment(ctx, post.ID, "so long")
	require.NoError(t, err)

	e := NewEditorFor(backend, post)
	require.NoError(t, e.Delete(ctx))

	// Gone from the public list.
	list := NewPostList(backend, nil)
	require.NoError(t, list.FetchFirstPage(ctx))
	assert.Empty(t, list.Posts())

	// Its former detail URL is a not-found.
	detail := NewPostDetail(backend)
	detail.Load(ctx, post.Slug)
	assert.True(t, detail.NotFound())
}

func TestUserMessage_FallsBackGeneric(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Contains(t, UserMessage(context.DeadlineExceeded), "Something went wrong")
}

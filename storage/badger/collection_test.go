package badger

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCollections(t *testing.T) storage.Collections {
	t.Helper()
	collections, backend, err := NewMemoryCollections()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return collections
}

func TestCollection_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	blogs := setupCollections(t)[core.KindBlog]

	created, err := blogs.Create(ctx, &core.Entry{Title: "Go Generics", Tags: []string{"go"}}, "medium:go-generics")
	require.NoError(t, err)
	assert.Equal(t, "medium:go-generics", created.ID)
	assert.Equal(t, core.KindBlog, created.Kind)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := blogs.Get(ctx, "medium:go-generics")
	require.NoError(t, err)
	assert.Equal(t, "Go Generics", got.Title)
	assert.Equal(t, []string{"go"}, got.Tags)
	assert.Equal(t, core.KindBlog, got.Kind)
}

func TestCollection_CreateGeneratesID(t *testing.T) {
	ctx := context.Background()
	projects := setupCollections(t)[core.KindProject]

	created, err := projects.Create(ctx, &core.Entry{Title: "Untitled"}, "")
	require.NoError(t, err)

	_, err = uuid.Parse(created.ID)
	assert.NoError(t, err)
}

func TestCollection_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	projects := setupCollections(t)[core.KindProject]

	_, err := projects.Create(ctx, &core.Entry{Title: "A"}, "github:a")
	require.NoError(t, err)

	_, err = projects.Create(ctx, &core.Entry{Title: "B"}, "github:a")
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	got, err := projects.Get(ctx, "github:a")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
}

func TestCollection_GetMissing(t *testing.T) {
	_, err := setupCollections(t)[core.KindBlog].Get(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCollection_ListOrderedAndIsolated(t *testing.T) {
	ctx := context.Background()
	collections := setupCollections(t)

	for _, id := range []string{"medium:c", "medium:a", "medium:b"} {
		_, err := collections[core.KindBlog].Create(ctx, &core.Entry{Title: id}, id)
		require.NoError(t, err)
	}
	_, err := collections[core.KindProject].Create(ctx, &core.Entry{Title: "p"}, "github:p")
	require.NoError(t, err)

	blogs, err := collections[core.KindBlog].List(ctx)
	require.NoError(t, err)
	require.Len(t, blogs, 3)
	assert.Equal(t, "medium:a", blogs[0].ID)
	assert.Equal(t, "medium:b", blogs[1].ID)
	assert.Equal(t, "medium:c", blogs[2].ID)

	apps, err := collections[core.KindApplication].List(ctx)
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestCollection_Update(t *testing.T) {
	ctx := context.Background()
	blogs := setupCollections(t)[core.KindBlog]

	created, err := blogs.Create(ctx, &core.Entry{Title: "Post", BodyContent: "body"}, "medium:post")
	require.NoError(t, err)

	updated, err := blogs.Update(ctx, "medium:post", storage.Fields{"ai_summary": "A post."})
	require.NoError(t, err)
	assert.Equal(t, "A post.", updated.AISummary)
	assert.Equal(t, "body", updated.BodyContent)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	got, err := blogs.Get(ctx, "medium:post")
	require.NoError(t, err)
	assert.Equal(t, "A post.", got.AISummary)
}

func TestCollection_UpdateMissing(t *testing.T) {
	_, err := setupCollections(t)[core.KindBlog].Update(context.Background(), "nope", storage.Fields{"title": "x"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCollection_UpdateUnknownField(t *testing.T) {
	ctx := context.Background()
	blogs := setupCollections(t)[core.KindBlog]
	_, err := blogs.Create(ctx, &core.Entry{Title: "Post"}, "medium:post")
	require.NoError(t, err)

	_, err = blogs.Update(ctx, "medium:post", storage.Fields{"vector": []float32{1}})
	assert.ErrorIs(t, err, storage.ErrUnknownField)
}

func TestCollection_Delete(t *testing.T) {
	ctx := context.Background()
	apps := setupCollections(t)[core.KindApplication]

	_, err := apps.Create(ctx, &core.Entry{Title: "App", DemoURL: "https://app.example.com"}, "application:app-example-com")
	require.NoError(t, err)

	deleted, err := apps.Delete(ctx, "application:app-example-com")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = apps.Delete(ctx, "application:app-example-com")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = apps.Get(ctx, "application:app-example-com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCollection_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	_, err = NewCollection(backend, core.KindProject).Create(ctx, &core.Entry{Title: "Kept"}, "github:kept")
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	backend, err = OpenBackend(dir, false)
	require.NoError(t, err)
	defer backend.Close()

	got, err := NewCollection(backend, core.KindProject).Get(ctx, "github:kept")
	require.NoError(t, err)
	assert.Equal(t, "Kept", got.Title)
}

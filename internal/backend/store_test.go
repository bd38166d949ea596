package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/weekplan/internal/items"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "items.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	a, err := store.Create(ctx, items.Draft{Name: "Task A", Date: "01-06-2025"})
	require.NoError(t, err)
	b, err := store.Create(ctx, items.Draft{Name: "Task B", Date: "02-06-2025"})
	require.NoError(t, err)
	assert.Greater(t, b.ID, a.ID)

	got, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	updated, err := store.Update(ctx, a.ID, items.Draft{Name: "Task A2", Date: "03-06-2025"})
	require.NoError(t, err)
	assert.Equal(t, items.Item{ID: a.ID, Name: "Task A2", Date: "03-06-2025"}, updated)

	removed, err := store.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, removed)

	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []items.Item{updated}, list)
}

func TestStore_MissingIDs(t *testing.T) {
	ctx := context.Background()
	store := openTempStore(t)

	_, err := store.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Update(ctx, 99, items.Draft{Name: "x", Date: "01-06-2025"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Delete(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "items.db")

	store, err := Open(path)
	require.NoError(t, err)
	created, err := store.Create(ctx, items.Draft{Name: "kept", Date: "04-06-2025"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestOpen_InMemory(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Create(context.Background(), items.Draft{Name: "m", Date: "05-06-2025"})
	require.NoError(t, err)
	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

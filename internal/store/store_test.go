package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jpl-au/docshell/internal/store"
	"github.com/jpl-au/docshell/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupStore creates a temporary SQLite store for testing.
func setupStore(t *testing.T) *store.SQLiteContents {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Init())

	t.Cleanup(func() { s.Close() })
	return s
}

// --- Document CRUD Tests ---

func TestStore_PutAndGet(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	err := s.Put(ctx, "docs/readme.md", "# README", store.WriteOptions{})
	require.NoError(t, err)

	doc, err := s.Get(ctx, "docs/readme.md", true)
	require.NoError(t, err)
	assert.Equal(t, "docs/readme.md", doc.Path)
	assert.Equal(t, "# README", doc.Content)
	assert.NotZero(t, doc.CreatedAt)
	assert.NotZero(t, doc.UpdatedAt)
}

func TestStore_PutOverwrites(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "notes.md", "v1", store.WriteOptions{}))
	require.NoError(t, s.Put(ctx, "notes.md", "v2", store.WriteOptions{}))

	doc, err := s.Get(ctx, "notes.md", true)
	require.NoError(t, err)
	assert.Equal(t, "v2", doc.Content)
}

func TestStore_GetWithoutContent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "notes.md", "hello", store.WriteOptions{}))

	doc, err := s.Get(ctx, "notes.md", false)
	require.NoError(t, err)
	assert.Empty(t, doc.Content)
	assert.Equal(t, "notes.md", doc.Path)
}

func TestStore_GetNotFound(t *testing.T) {
	s := setupStore(t)

	_, err := s.Get(context.Background(), "missing.md", true)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_PutValidatesLimits(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	err := s.Put(ctx, "notes.md", "too much content", store.WriteOptions{MaxContent: 4})
	assert.ErrorIs(t, err, validate.ErrContentTooLarge)

	err = s.Put(ctx, "a/very/long/path.md", "x", store.WriteOptions{MaxPath: 5})
	assert.ErrorIs(t, err, validate.ErrPathTooLong)

	err = s.Put(ctx, "../escape.md", "x", store.WriteOptions{})
	assert.ErrorIs(t, err, validate.ErrInvalidPath)
}

func TestStore_Exists(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "notes.md")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "notes.md", "x", store.WriteOptions{}))

	ok, err = s.Exists(ctx, "notes.md")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_List(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "docs/b.md", "bb", store.WriteOptions{}))
	require.NoError(t, s.Put(ctx, "docs/a.md", "a", store.WriteOptions{}))
	require.NoError(t, s.Put(ctx, "other.md", "o", store.WriteOptions{}))

	metas, err := s.List(ctx, "docs/")
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "docs/a.md", metas[0].Path)
	assert.Equal(t, "docs/b.md", metas[1].Path)
	assert.Equal(t, int64(2), metas[1].Size)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStore_NewUntitled(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	p1, err := s.NewUntitled(ctx, ".md")
	require.NoError(t, err)
	assert.Equal(t, "untitled.md", p1)

	p2, err := s.NewUntitled(ctx, "md")
	require.NoError(t, err)
	assert.Equal(t, "untitled-1.md", p2)

	p3, err := s.NewUntitled(ctx, ".txt")
	require.NoError(t, err)
	assert.Equal(t, "untitled.txt", p3)

	doc, err := s.Get(ctx, p1, true)
	require.NoError(t, err)
	assert.Empty(t, doc.Content)
}

func TestStore_Rename(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "old.md", "content", store.WriteOptions{}))
	_, err := s.CreateCheckpoint(ctx, "old.md", store.CheckpointOptions{})
	require.NoError(t, err)

	require.NoError(t, s.Rename(ctx, "old.md", "new.md"))

	_, err = s.Get(ctx, "old.md", false)
	assert.ErrorIs(t, err, store.ErrNotFound)

	doc, err := s.Get(ctx, "new.md", true)
	require.NoError(t, err)
	assert.Equal(t, "content", doc.Content)

	// Checkpoints follow the document.
	cps, err := s.Checkpoints(ctx, "new.md", 0)
	require.NoError(t, err)
	assert.Len(t, cps, 1)
}

func TestStore_RenameConflicts(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a.md", "a", store.WriteOptions{}))
	require.NoError(t, s.Put(ctx, "b.md", "b", store.WriteOptions{}))

	assert.ErrorIs(t, s.Rename(ctx, "a.md", "b.md"), store.ErrAlreadyExists)
	assert.ErrorIs(t, s.Rename(ctx, "missing.md", "c.md"), store.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "doomed.md", "x", store.WriteOptions{}))
	_, err := s.CreateCheckpoint(ctx, "doomed.md", store.CheckpointOptions{})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "doomed.md"))

	_, err = s.Get(ctx, "doomed.md", false)
	assert.ErrorIs(t, err, store.ErrNotFound)

	cps, err := s.Checkpoints(ctx, "doomed.md", 0)
	require.NoError(t, err)
	assert.Empty(t, cps, "checkpoints removed with the document")

	assert.ErrorIs(t, s.Delete(ctx, "doomed.md"), store.ErrNotFound)
}

func TestStore_Copy(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "src.md", "payload", store.WriteOptions{}))
	require.NoError(t, s.Copy(ctx, "src.md", "dst.md"))

	doc, err := s.Get(ctx, "dst.md", true)
	require.NoError(t, err)
	assert.Equal(t, "payload", doc.Content)

	assert.ErrorIs(t, s.Copy(ctx, "src.md", "dst.md"), store.ErrAlreadyExists)
	assert.ErrorIs(t, s.Copy(ctx, "missing.md", "other.md"), store.ErrNotFound)
}

// --- Checkpoint Tests ---

func TestStore_CreateCheckpoint(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "notes.md", "snapshot me", store.WriteOptions{}))

	cp, err := s.CreateCheckpoint(ctx, "notes.md", store.CheckpointOptions{Author: "alice", Message: "before edit"})
	require.NoError(t, err)
	assert.Len(t, cp.Key, 8)
	assert.Equal(t, "snapshot me", cp.Content)
	assert.Equal(t, "alice", cp.Author)

	_, err = s.CreateCheckpoint(ctx, "missing.md", store.CheckpointOptions{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_CheckpointsNewestFirst(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "notes.md", "v1", store.WriteOptions{}))
	cp1, err := s.CreateCheckpoint(ctx, "notes.md", store.CheckpointOptions{})
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "notes.md", "v2", store.WriteOptions{}))
	cp2, err := s.CreateCheckpoint(ctx, "notes.md", store.CheckpointOptions{})
	require.NoError(t, err)

	cps, err := s.Checkpoints(ctx, "notes.md", 0)
	require.NoError(t, err)
	require.Len(t, cps, 2)
	assert.Equal(t, cp2.Key, cps[0].Key)
	assert.Equal(t, cp1.Key, cps[1].Key)
	assert.Empty(t, cps[0].Content, "listing omits content")
}

func TestStore_CheckpointPruning(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "notes.md", "x", store.WriteOptions{}))
	for i := 0; i < 5; i++ {
		_, err := s.CreateCheckpoint(ctx, "notes.md", store.CheckpointOptions{Max: 3})
		require.NoError(t, err)
	}

	cps, err := s.Checkpoints(ctx, "notes.md", 0)
	require.NoError(t, err)
	assert.Len(t, cps, 3, "pruned to the cap")
}

func TestStore_CheckpointByKey(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "notes.md", "keyed", store.WriteOptions{}))
	cp, err := s.CreateCheckpoint(ctx, "notes.md", store.CheckpointOptions{})
	require.NoError(t, err)

	got, err := s.CheckpointByKey(ctx, cp.Key)
	require.NoError(t, err)
	assert.Equal(t, "keyed", got.Content)

	_, err = s.CheckpointByKey(ctx, "nosuchkey")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_LastCheckpoint(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "notes.md", "first", store.WriteOptions{}))
	_, err := s.LastCheckpoint(ctx, "notes.md")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.CreateCheckpoint(ctx, "notes.md", store.CheckpointOptions{})
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "notes.md", "second", store.WriteOptions{}))
	cp2, err := s.CreateCheckpoint(ctx, "notes.md", store.CheckpointOptions{})
	require.NoError(t, err)

	last, err := s.LastCheckpoint(ctx, "notes.md")
	require.NoError(t, err)
	assert.Equal(t, cp2.Key, last.Key)
	assert.Equal(t, "second", last.Content)
}

package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jpl-au/docshell/internal/session"
	"github.com/jpl-au/docshell/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeContents is an in-memory contents service for session tests.
type fakeContents struct {
	mu          sync.Mutex
	docs        map[string]string
	checkpoints []store.Checkpoint
	nextKey     int
}

func newFakeContents() *fakeContents {
	return &fakeContents{docs: map[string]string{}}
}

func (f *fakeContents) Get(_ context.Context, path string, withContent bool) (*store.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.docs[path]
	if !ok {
		return nil, store.ErrNotFound
	}
	doc := &store.Document{Path: path}
	if withContent {
		doc.Content = content
	}
	return doc, nil
}

func (f *fakeContents) Put(_ context.Context, path, content string, _ store.WriteOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[path] = content
	return nil
}

func (f *fakeContents) CreateCheckpoint(_ context.Context, path string, opts store.CheckpointOptions) (*store.Checkpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.docs[path]
	if !ok {
		return nil, store.ErrNotFound
	}
	f.nextKey++
	cp := store.Checkpoint{
		Key:       string(rune('a'+f.nextKey-1)) + "0000000",
		Path:      path,
		Content:   content,
		Author:    opts.Author,
		Message:   opts.Message,
		CreatedAt: int64(f.nextKey),
	}
	f.checkpoints = append(f.checkpoints, cp)
	return &cp, nil
}

func (f *fakeContents) CheckpointByKey(_ context.Context, key string) (*store.Checkpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.checkpoints {
		if f.checkpoints[i].Key == key {
			cp := f.checkpoints[i]
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeContents) LastCheckpoint(_ context.Context, path string) (*store.Checkpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.checkpoints) - 1; i >= 0; i-- {
		if f.checkpoints[i].Path == path {
			cp := f.checkpoints[i]
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

// open creates a session for an existing document and waits for readiness.
func open(t *testing.T, contents *fakeContents, path string) *session.Context {
	t.Helper()
	c := session.New(contents, path, session.Options{})
	select {
	case <-c.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("session never became ready")
	}
	return c
}

func TestContext_LoadAndReady(t *testing.T) {
	contents := newFakeContents()
	contents.docs["notes.md"] = "hello"

	c := open(t, contents, "notes.md")

	assert.Equal(t, "hello", c.Model().Content())
	assert.False(t, c.Dirty(), "freshly loaded session is clean")
	assert.Len(t, c.ID(), 8)
}

func TestContext_MissingDocumentNeverReady(t *testing.T) {
	contents := newFakeContents()

	c := session.New(contents, "missing.md", session.Options{})

	select {
	case <-c.Ready():
		t.Fatal("session for missing document must not become ready")
	case <-time.After(50 * time.Millisecond):
	}
	assert.False(t, c.IsReady())

	// Still disposes cleanly.
	c.Dispose()
	assert.True(t, c.IsDisposed())
}

func TestContext_EditMarksDirty(t *testing.T) {
	contents := newFakeContents()
	contents.docs["notes.md"] = "v1"
	c := open(t, contents, "notes.md")

	var transitions []bool
	c.DirtyChanged().Subscribe(func(v bool) { transitions = append(transitions, v) })

	c.Model().SetContent("v2")
	assert.True(t, c.Dirty())

	c.Model().SetContent("v3")

	assert.Equal(t, []bool{true}, transitions, "only the clean-to-dirty transition is emitted")
}

func TestContext_SaveClearsDirty(t *testing.T) {
	contents := newFakeContents()
	contents.docs["notes.md"] = "v1"
	c := open(t, contents, "notes.md")

	c.Model().SetContent("v2")
	require.NoError(t, c.Save(context.Background()))

	assert.False(t, c.Dirty())
	assert.Equal(t, "v2", contents.docs["notes.md"])
}

func TestContext_SaveAsRetargets(t *testing.T) {
	contents := newFakeContents()
	contents.docs["notes.md"] = "v1"
	c := open(t, contents, "notes.md")

	c.Model().SetContent("v2")
	require.NoError(t, c.SaveAs(context.Background(), "copy.md"))

	assert.Equal(t, "copy.md", c.Path())
	assert.False(t, c.Dirty())
	assert.Equal(t, "v2", contents.docs["copy.md"])
	assert.Equal(t, "v1", contents.docs["notes.md"], "original untouched")
}

func TestContext_RevertDiscardsChanges(t *testing.T) {
	contents := newFakeContents()
	contents.docs["notes.md"] = "stored"
	c := open(t, contents, "notes.md")

	var transitions []bool
	c.DirtyChanged().Subscribe(func(v bool) { transitions = append(transitions, v) })

	c.Model().SetContent("scratch")
	require.NoError(t, c.Revert(context.Background()))

	assert.Equal(t, "stored", c.Model().Content())
	assert.False(t, c.Dirty())
	assert.Equal(t, []bool{true, false}, transitions)
}

func TestContext_CheckpointRoundTrip(t *testing.T) {
	contents := newFakeContents()
	contents.docs["notes.md"] = "v1"
	c := open(t, contents, "notes.md")

	cp, err := c.CreateCheckpoint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1", cp.Content)

	// Move the document forward, then restore the snapshot.
	c.Model().SetContent("v2")
	require.NoError(t, c.Save(context.Background()))

	restored, err := c.RestoreCheckpoint(context.Background(), cp.Key)
	require.NoError(t, err)
	assert.Equal(t, cp.Key, restored.Key)
	assert.Equal(t, "v1", c.Model().Content())
	assert.True(t, c.Dirty(), "restore is unsaved until the user saves")
}

func TestContext_RestoreLatestCheckpoint(t *testing.T) {
	contents := newFakeContents()
	contents.docs["notes.md"] = "v1"
	c := open(t, contents, "notes.md")

	_, err := c.CreateCheckpoint(context.Background())
	require.NoError(t, err)

	c.Model().SetContent("v2")
	require.NoError(t, c.Save(context.Background()))
	cp2, err := c.CreateCheckpoint(context.Background())
	require.NoError(t, err)

	restored, err := c.RestoreCheckpoint(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, cp2.Key, restored.Key)
}

func TestContext_RestoreRefusesForeignKey(t *testing.T) {
	contents := newFakeContents()
	contents.docs["a.md"] = "a content"
	contents.docs["b.md"] = "b content"

	other := open(t, contents, "b.md")
	cp, err := other.CreateCheckpoint(context.Background())
	require.NoError(t, err)

	c := open(t, contents, "a.md")
	_, err = c.RestoreCheckpoint(context.Background(), cp.Key)

	assert.ErrorIs(t, err, store.ErrCheckpointMismatch)
	assert.Equal(t, "a content", c.Model().Content(), "foreign checkpoint must not touch the working copy")
	assert.False(t, c.Dirty())
}

func TestContext_DisposeIsTerminal(t *testing.T) {
	contents := newFakeContents()
	contents.docs["notes.md"] = "v1"
	c := open(t, contents, "notes.md")

	fired := 0
	c.Disposed().Subscribe(func(struct{}) { fired++ })

	c.Dispose()
	c.Dispose()

	assert.Equal(t, 1, fired, "disposal fires exactly once")
	assert.ErrorIs(t, c.Save(context.Background()), session.ErrDisposed)
	assert.ErrorIs(t, c.Revert(context.Background()), session.ErrDisposed)

	_, err := c.CreateCheckpoint(context.Background())
	assert.ErrorIs(t, err, session.ErrDisposed)
}

func TestContext_RetargetKeepsState(t *testing.T) {
	contents := newFakeContents()
	contents.docs["old.md"] = "v1"
	c := open(t, contents, "old.md")

	c.Model().SetContent("edited")
	c.Retarget("new.md")

	assert.Equal(t, "new.md", c.Path())
	assert.True(t, c.Dirty(), "rename preserves unsaved changes")
	assert.Equal(t, "edited", c.Model().Content())
}

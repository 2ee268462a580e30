// Package session implements the document context: one open document's
// in-memory model, its lifecycle signals, and its save/revert/checkpoint
// operations against the contents service.
//
// Lifecycle: a context is created closed over its path, loads content
// asynchronously, and resolves its readiness signal once the model is valid
// to read. Disposal is terminal and idempotent; a context that failed to
// load never becomes ready but still disposes cleanly.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jpl-au/docshell/internal/store"
	"github.com/jpl-au/docshell/internal/stream"
)

// ErrDisposed is returned by operations on a disposed context.
var ErrDisposed = errors.New("session disposed")

// Contents is the slice of the contents service a session needs.
type Contents interface {
	Get(ctx context.Context, path string, withContent bool) (*store.Document, error)
	Put(ctx context.Context, path, content string, opts store.WriteOptions) error
	CreateCheckpoint(ctx context.Context, path string, opts store.CheckpointOptions) (*store.Checkpoint, error)
	CheckpointByKey(ctx context.Context, key string) (*store.Checkpoint, error)
	LastCheckpoint(ctx context.Context, path string) (*store.Checkpoint, error)
}

// Options configures session behaviour.
type Options struct {
	Write          store.WriteOptions      // validation limits for saves
	CheckpointOpts store.CheckpointOptions // defaults for created checkpoints
}

// Context is one open document session.
type Context struct {
	id       string
	contents Contents
	opts     Options

	model    *Model
	ready    *stream.Signal
	disposed *stream.Stream[struct{}]

	mu          sync.Mutex
	path        string
	isDispose   bool
	dirtyStream *stream.Stream[bool]
}

// New creates a session for path and starts loading its content. The
// returned context is not ready until the load completes; callers that need
// the model wait on Ready. A failed load leaves the context permanently
// unready (it still disposes cleanly).
func New(contents Contents, path string, opts Options) *Context {
	c := &Context{
		id:       newSessionID(),
		contents: contents,
		opts:     opts,
		path:     path,
		model:    NewModel(),
		ready:    stream.NewSignal(),
		disposed: stream.New[struct{}](),
	}

	go c.load()
	return c
}

// load fetches initial content and resolves readiness on success.
func (c *Context) load() {
	doc, err := c.contents.Get(context.Background(), c.Path(), true)
	if err != nil {
		return // never ready; the session stays inert
	}

	c.mu.Lock()
	if c.isDispose {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.model.load(doc.Content)
	c.ready.Resolve()
}

// ID returns the session's stable identifier. IDs are unique per session,
// not per path: reopening a deleted-then-recreated document gets a fresh
// session with a fresh ID.
func (c *Context) ID() string { return c.id }

// Path returns the document path this session currently targets.
func (c *Context) Path() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.path
}

// Model returns the session's document model.
func (c *Context) Model() *Model { return c.model }

// Ready is closed once the initial content load has completed.
func (c *Context) Ready() <-chan struct{} { return c.ready.Done() }

// IsReady reports whether the initial load has completed.
func (c *Context) IsReady() bool { return c.ready.Resolved() }

// Disposed fires exactly once when the session is torn down.
func (c *Context) Disposed() *stream.Stream[struct{}] { return c.disposed }

// IsDisposed reports whether Dispose has been called.
func (c *Context) IsDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isDispose
}

// Dirty reports whether the session has unsaved changes.
func (c *Context) Dirty() bool { return c.model.Dirty() }

// DirtyChanged adapts the model's state-change stream to dirty transitions
// only. The returned stream is owned by the session and shared between
// callers.
func (c *Context) DirtyChanged() *stream.Stream[bool] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dirtyStream == nil {
		c.dirtyStream = stream.New[bool]()
		c.model.Changed.Subscribe(func(sc StateChange) {
			if sc.Name != PropDirty {
				return
			}
			if v, ok := sc.NewValue.(bool); ok {
				c.dirtyStream.Emit(v)
			}
		})
	}
	return c.dirtyStream
}

// Save writes the working copy to the store and clears the dirty flag.
func (c *Context) Save(ctx context.Context) error {
	if c.IsDisposed() {
		return ErrDisposed
	}
	if err := c.contents.Put(ctx, c.Path(), c.model.Content(), c.opts.Write); err != nil {
		return err
	}
	c.model.markClean()
	return nil
}

// SaveAs writes the working copy to a new path and retargets the session.
// The original stored document is left untouched.
func (c *Context) SaveAs(ctx context.Context, newPath string) error {
	if c.IsDisposed() {
		return ErrDisposed
	}
	if err := c.contents.Put(ctx, newPath, c.model.Content(), c.opts.Write); err != nil {
		return err
	}
	c.setPath(newPath)
	c.model.markClean()
	return nil
}

// Revert discards unsaved changes by reloading stored content.
func (c *Context) Revert(ctx context.Context) error {
	if c.IsDisposed() {
		return ErrDisposed
	}
	doc, err := c.contents.Get(ctx, c.Path(), true)
	if err != nil {
		return err
	}
	c.model.load(doc.Content)
	return nil
}

// CreateCheckpoint snapshots the stored document. The working copy is not
// saved first; checkpoints capture the last saved state.
func (c *Context) CreateCheckpoint(ctx context.Context) (*store.Checkpoint, error) {
	if c.IsDisposed() {
		return nil, ErrDisposed
	}
	return c.contents.CreateCheckpoint(ctx, c.Path(), c.opts.CheckpointOpts)
}

// RestoreCheckpoint loads checkpoint content into the working copy: by key
// when given, otherwise the most recent checkpoint. The model becomes dirty
// until saved, so a restore can still be abandoned with Revert.
func (c *Context) RestoreCheckpoint(ctx context.Context, key string) (*store.Checkpoint, error) {
	if c.IsDisposed() {
		return nil, ErrDisposed
	}

	var cp *store.Checkpoint
	var err error
	if key != "" {
		cp, err = c.contents.CheckpointByKey(ctx, key)
		if err == nil && cp.Path != c.Path() {
			return nil, fmt.Errorf("%w: %s belongs to %s", store.ErrCheckpointMismatch, key, cp.Path)
		}
	} else {
		cp, err = c.contents.LastCheckpoint(ctx, c.Path())
	}
	if err != nil {
		return nil, err
	}

	c.model.SetContent(cp.Content)
	return cp, nil
}

// setPath retargets the session; used by SaveAs and by the manager on rename.
func (c *Context) setPath(p string) {
	c.mu.Lock()
	c.path = p
	c.mu.Unlock()
}

// Retarget points the session at a new path after the stored document moved.
// The working copy and dirty state are unaffected.
func (c *Context) Retarget(newPath string) {
	c.setPath(newPath)
}

// Dispose tears the session down and fires the disposal notification.
// Idempotent; only the first call emits.
func (c *Context) Dispose() {
	c.mu.Lock()
	if c.isDispose {
		c.mu.Unlock()
		return
	}
	c.isDispose = true
	c.mu.Unlock()

	c.disposed.Emit(struct{}{})
}

// newSessionID generates a stable 8-char session identifier.
func newSessionID() string {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		panic("session id: " + err.Error())
	}
	return strings.ToLower(base32.StdEncoding.EncodeToString(b))
}

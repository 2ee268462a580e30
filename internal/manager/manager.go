// Package manager implements the document manager: it owns the contents
// service, the table of open sessions, and the dirty tracker. Every session
// it opens is handed to the tracker, so the host's dirty indicator always
// reflects the union of unsaved changes across open documents.
//
// File-operation commands are thin delegations into this package; the
// manager holds the policy (reveal-don't-reopen, refuse to close dirty
// sessions without force, dispose before delete).
package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jpl-au/docshell/internal/dirty"
	"github.com/jpl-au/docshell/internal/path"
	"github.com/jpl-au/docshell/internal/session"
	"github.com/jpl-au/docshell/internal/store"
	"github.com/jpl-au/docshell/internal/stream"
)

// ErrUnsavedChanges is returned when closing a dirty session without force.
var ErrUnsavedChanges = errors.New("unsaved changes")

// EventKind identifies a document lifecycle event.
type EventKind string

const (
	EventOpened  EventKind = "opened"
	EventClosed  EventKind = "closed"
	EventSaved   EventKind = "saved"
	EventDeleted EventKind = "deleted"
	EventRenamed EventKind = "renamed"
	EventCloned  EventKind = "cloned"
)

// Event is a fire-and-forget notification of a document operation.
// Observers cannot veto operations; they see them after the fact.
type Event struct {
	Kind EventKind
	Path string
	To   string // destination path for renamed/cloned
}

// Options configures a manager.
type Options struct {
	Write      store.WriteOptions      // validation limits for saves
	Checkpoint store.CheckpointOptions // defaults for created checkpoints
}

// Manager coordinates the contents service, open sessions, and dirty tracking.
type Manager struct {
	contents  store.Contents
	indicator dirty.Indicator
	tracker   *dirty.Tracker
	opts      Options
	events    *stream.Stream[Event]

	mu   sync.Mutex
	open map[string]*session.Context // keyed by current path
}

// New creates a manager over the given contents service and dirty indicator.
func New(contents store.Contents, indicator dirty.Indicator, opts Options) *Manager {
	return &Manager{
		contents:  contents,
		indicator: indicator,
		tracker:   dirty.NewTracker(indicator),
		opts:      opts,
		events:    stream.New[Event](),
	}
}

// Contents returns the underlying contents service.
func (m *Manager) Contents() store.Contents { return m.contents }

// Tracker returns the dirty tracker for inspection (status surfaces).
func (m *Manager) Tracker() *dirty.Tracker { return m.tracker }

// Events returns the manager's lifecycle event stream.
func (m *Manager) Events() *stream.Stream[Event] { return m.events }

// OpenOrReveal returns the live session for path, opening one if needed.
// Opening a document that is already open reveals the existing session
// rather than creating a second one; a path has at most one live session.
func (m *Manager) OpenOrReveal(ctx context.Context, p string) (*session.Context, error) {
	norm, err := path.Normalise(p)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if sess, ok := m.open[norm]; ok {
		m.mu.Unlock()
		return sess, nil
	}
	m.mu.Unlock()

	ok, err := m.contents.Exists(ctx, norm)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, store.ErrNotFound
	}

	return m.openSession(norm), nil
}

// NewUntitled creates an empty untitled document and opens a session on it.
func (m *Manager) NewUntitled(ctx context.Context, ext string) (*session.Context, error) {
	p, err := m.contents.NewUntitled(ctx, ext)
	if err != nil {
		return nil, err
	}
	return m.openSession(p), nil
}

// openSession creates, registers, and tracks a session. The disposal hook
// is installed before tracking so the open table and the tracker observe
// the same lifecycle.
func (m *Manager) openSession(norm string) *session.Context {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-check under the lock: a concurrent open may have won.
	if sess, ok := m.open[norm]; ok {
		return sess
	}

	sess := session.New(m.contents, norm, session.Options{
		Write:          m.opts.Write,
		CheckpointOpts: m.opts.Checkpoint,
	})
	if m.open == nil {
		m.open = make(map[string]*session.Context)
	}
	m.open[norm] = sess

	sess.Disposed().Subscribe(func(struct{}) {
		m.forget(sess)
	})
	m.tracker.Track(sess)

	m.events.Emit(Event{Kind: EventOpened, Path: norm})
	return sess
}

// forget removes a disposed session from the open table. Keyed by session
// identity rather than path so a rename between dispose and forget cannot
// remove the wrong entry.
func (m *Manager) forget(sess *session.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for p, candidate := range m.open {
		if candidate.ID() == sess.ID() {
			delete(m.open, p)
			return
		}
	}
}

// ContextFor returns the live session for a path, or nil.
func (m *Manager) ContextFor(p string) *session.Context {
	norm, err := path.Normalise(p)
	if err != nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open[norm]
}

// Sessions returns all live sessions.
func (m *Manager) Sessions() []*session.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*session.Context, 0, len(m.open))
	for _, sess := range m.open {
		out = append(out, sess)
	}
	return out
}

// SaveContent writes content to a path. When the path has a live session,
// the edit flows through its model so dirty tracking stays coherent;
// otherwise it is a direct store write.
func (m *Manager) SaveContent(ctx context.Context, p, content string) error {
	if sess := m.ContextFor(p); sess != nil {
		sess.Model().SetContent(content)
		return sess.Save(ctx)
	}

	norm, err := path.Normalise(p)
	if err != nil {
		return err
	}
	if err := m.contents.Put(ctx, norm, content, m.opts.Write); err != nil {
		return err
	}
	m.events.Emit(Event{Kind: EventSaved, Path: norm})
	return nil
}

// SaveAs writes a live session's working copy under a new path and retargets
// the session. The original stored document is left untouched. The open-table
// key follows the session so later lookups by the new path find it.
func (m *Manager) SaveAs(ctx context.Context, p, to string) error {
	sess := m.ContextFor(p)
	if sess == nil {
		return store.ErrNotFound
	}

	toNorm, err := path.Normalise(to)
	if err != nil {
		return err
	}
	from := sess.Path()
	if err := sess.SaveAs(ctx, toNorm); err != nil {
		return err
	}

	m.mu.Lock()
	if m.open[from] == sess {
		delete(m.open, from)
		m.open[toNorm] = sess
	}
	m.mu.Unlock()

	m.events.Emit(Event{Kind: EventSaved, Path: toNorm})
	return nil
}

// Close disposes the session for path. A dirty session is refused unless
// force is set; force discards the unsaved changes.
func (m *Manager) Close(p string, force bool) error {
	sess := m.ContextFor(p)
	if sess == nil {
		return store.ErrNotFound
	}
	if sess.Dirty() && !force {
		return fmt.Errorf("%w: %s", ErrUnsavedChanges, sess.Path())
	}

	sess.Dispose()
	m.events.Emit(Event{Kind: EventClosed, Path: sess.Path()})
	return nil
}

// CloseAll disposes every live session, refusing if any is dirty and force
// is not set. The dirty check runs first so a refused CloseAll disposes
// nothing.
func (m *Manager) CloseAll(force bool) error {
	sessions := m.Sessions()

	if !force {
		for _, sess := range sessions {
			if sess.Dirty() {
				return fmt.Errorf("%w: %s", ErrUnsavedChanges, sess.Path())
			}
		}
	}

	for _, sess := range sessions {
		sess.Dispose()
		m.events.Emit(Event{Kind: EventClosed, Path: sess.Path()})
	}
	return nil
}

// DeleteFile removes a document from the store. Any live session is
// disposed first (its token is released by the tracker), so a dirty session
// cannot outlive its document.
func (m *Manager) DeleteFile(ctx context.Context, p string) error {
	if sess := m.ContextFor(p); sess != nil {
		sess.Dispose()
	}

	norm, err := path.Normalise(p)
	if err != nil {
		return err
	}
	if err := m.contents.Delete(ctx, norm); err != nil {
		return err
	}
	m.events.Emit(Event{Kind: EventDeleted, Path: norm})
	return nil
}

// Rename moves a document. A live session follows the rename, keeping its
// model, dirty state, and held token; the tracked-set key is the session ID,
// not the path, so tracking is unaffected.
func (m *Manager) Rename(ctx context.Context, from, to string) error {
	fromNorm, err := path.Normalise(from)
	if err != nil {
		return err
	}
	toNorm, err := path.Normalise(to)
	if err != nil {
		return err
	}

	if err := m.contents.Rename(ctx, fromNorm, toNorm); err != nil {
		return err
	}

	m.mu.Lock()
	if sess, ok := m.open[fromNorm]; ok {
		delete(m.open, fromNorm)
		sess.Retarget(toNorm)
		m.open[toNorm] = sess
	}
	m.mu.Unlock()

	m.events.Emit(Event{Kind: EventRenamed, Path: fromNorm, To: toNorm})
	return nil
}

// CloneDocument copies a document's stored content to a derived name
// (base-copy.ext, base-copy2.ext, ...) and returns the new path.
// The clone is not opened.
func (m *Manager) CloneDocument(ctx context.Context, p string) (string, error) {
	norm, err := path.Normalise(p)
	if err != nil {
		return "", err
	}

	stem, ext := path.Split(norm)
	for n := 1; ; n++ {
		candidate := stem + "-copy" + ext
		if n > 1 {
			candidate = fmt.Sprintf("%s-copy%d%s", stem, n, ext)
		}

		err := m.contents.Copy(ctx, norm, candidate)
		if errors.Is(err, store.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return "", err
		}

		m.events.Emit(Event{Kind: EventCloned, Path: norm, To: candidate})
		return candidate, nil
	}
}

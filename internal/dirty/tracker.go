// Package dirty aggregates per-session unsaved-changes state into a single
// host-wide indicator. Each tracked session holds at most one indicator
// token at a time: acquired when the session turns dirty, released when it
// turns clean again or is disposed. The host is dirty while any token is
// outstanding.
//
// The tracker is deliberately tolerant at its edges: tracking an already
// tracked session is a no-op, disposal always releases whatever was held,
// and a session that never becomes ready is simply never bound - its
// disposal cleanup still runs.
package dirty

import (
	"sync"

	"github.com/jpl-au/docshell/internal/stream"
)

// Token is one held unit of "the host has unsaved work". Release returns
// it; the tracker releases each token exactly once.
type Token interface {
	Release()
}

// Indicator is the host's dirty-state sink. Acquire is called when a
// tracked session transitions clean to dirty, Release on the way back.
type Indicator interface {
	Acquire() Token
}

// Context is the view of a document session the tracker needs. Sessions
// are keyed by ID, a stable identifier independent of object identity or
// current path.
type Context interface {
	// ID returns a stable identifier, unique among live sessions.
	ID() string

	// Ready is closed once the session has finished initialising and its
	// dirty state is valid to read. A session that fails to initialise
	// never closes this channel.
	Ready() <-chan struct{}

	// Dirty reports whether the session currently has unsaved changes.
	// Only valid to read after Ready.
	Dirty() bool

	// DirtyChanged emits the new dirty value on every transition.
	DirtyChanged() *stream.Stream[bool]

	// Disposed fires exactly once when the session is torn down.
	Disposed() *stream.Stream[struct{}]
}

// entry is the tracker's per-session state.
type entry struct {
	ctx     Context
	token   Token
	dirtSub *stream.Subscription[bool]
	dispSub *stream.Subscription[struct{}]
	stop    chan struct{} // closed on disposal to abandon the readiness wait
}

// Tracker observes document sessions and drives the indicator.
type Tracker struct {
	indicator Indicator

	mu       sync.Mutex
	tracked  map[string]*entry
	disposed map[string]struct{} // disposal is terminal: IDs here are never re-tracked
}

// NewTracker creates a tracker bound to the given indicator.
func NewTracker(indicator Indicator) *Tracker {
	return &Tracker{
		indicator: indicator,
		tracked:   make(map[string]*entry),
		disposed:  make(map[string]struct{}),
	}
}

// Track begins observing ctx. It reports false without side effects when
// ctx is already tracked or was previously disposed.
//
// The disposal handler is installed before the readiness wait starts, so a
// session disposed before it ever becomes ready is still cleaned up. The
// wait itself is asynchronous; other sessions proceed independently.
func (t *Tracker) Track(ctx Context) bool {
	id := ctx.ID()

	t.mu.Lock()
	if _, ok := t.tracked[id]; ok {
		t.mu.Unlock()
		return false
	}
	if _, ok := t.disposed[id]; ok {
		t.mu.Unlock()
		return false
	}
	e := &entry{ctx: ctx, stop: make(chan struct{})}
	t.tracked[id] = e
	t.mu.Unlock()

	dispSub := ctx.Disposed().Subscribe(func(struct{}) {
		t.dispose(id)
	})

	// Disposal may fire from another goroutine the instant the
	// subscription exists, so the handle is stored under the lock. If
	// disposal already won, the entry is gone and the subscription must
	// be cancelled here instead.
	t.mu.Lock()
	if _, ok := t.tracked[id]; !ok {
		t.mu.Unlock()
		dispSub.Cancel()
		return true
	}
	e.dispSub = dispSub
	t.mu.Unlock()

	go func() {
		select {
		case <-ctx.Ready():
			t.bind(id)
		case <-e.stop:
		}
	}()

	return true
}

// bind subscribes to dirty transitions and reconciles the initial state.
// The session may have turned dirty while it was still initialising, in
// which case no transition will ever be delivered for it; the synchronous
// re-check after subscribing closes that gap.
func (t *Tracker) bind(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.tracked[id]
	if !ok {
		return // disposed while waiting for readiness
	}

	e.dirtSub = e.ctx.DirtyChanged().Subscribe(func(dirty bool) {
		t.onDirty(id, dirty)
	})

	if e.ctx.Dirty() && e.token == nil {
		e.token = t.indicator.Acquire()
	}
}

// onDirty handles one dirty transition. Notifications for sessions no
// longer tracked are ignored.
func (t *Tracker) onDirty(id string, dirty bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.tracked[id]
	if !ok {
		return
	}

	switch {
	case dirty && e.token == nil:
		e.token = t.indicator.Acquire()
	case !dirty && e.token != nil:
		e.token.Release()
		e.token = nil
	}
}

// dispose releases whatever the session holds and forgets it for good.
// Runs unconditionally on the session's disposal notification, whatever
// its last known dirty value was.
func (t *Tracker) dispose(id string) {
	t.mu.Lock()
	e, ok := t.tracked[id]
	if !ok {
		t.mu.Unlock()
		return
	}
	delete(t.tracked, id)
	t.disposed[id] = struct{}{}
	close(e.stop)

	token := e.token
	e.token = nil
	dirtSub, dispSub := e.dirtSub, e.dispSub
	t.mu.Unlock()

	if token != nil {
		token.Release()
	}
	if dirtSub != nil {
		dirtSub.Cancel()
	}
	if dispSub != nil {
		dispSub.Cancel()
	}
}

// Tracked reports whether the session with the given ID is currently
// observed.
func (t *Tracker) Tracked(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.tracked[id]
	return ok
}

// Holding reports whether the session with the given ID currently holds an
// indicator token.
func (t *Tracker) Holding(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.tracked[id]
	return ok && e.token != nil
}

// Size returns the number of tracked sessions.
func (t *Tracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tracked)
}

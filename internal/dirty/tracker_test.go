package dirty_test

import (
	"sync"
	"testing"
	"time"

	"github.com/jpl-au/docshell/internal/dirty"
	"github.com/jpl-au/docshell/internal/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIndicator records acquire/release calls for assertions.
type fakeIndicator struct {
	mu       sync.Mutex
	acquires int
	releases int
}

type fakeToken struct {
	ind *fakeIndicator
}

func (f *fakeIndicator) Acquire() dirty.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acquires++
	return &fakeToken{ind: f}
}

func (tok *fakeToken) Release() {
	tok.ind.mu.Lock()
	defer tok.ind.mu.Unlock()
	tok.ind.releases++
}

func (f *fakeIndicator) counts() (acquires, releases int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acquires, f.releases
}

// held returns the number of outstanding tokens.
func (f *fakeIndicator) held() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acquires - f.releases
}

// fakeContext is a controllable session for driving the tracker.
type fakeContext struct {
	id       string
	ready    *stream.Signal
	disposed *stream.Stream[struct{}]
	changed  *stream.Stream[bool]

	mu    sync.Mutex
	dirty bool
}

func newFakeContext(id string) *fakeContext {
	return &fakeContext{
		id:       id,
		ready:    stream.NewSignal(),
		disposed: stream.New[struct{}](),
		changed:  stream.New[bool](),
	}
}

func (c *fakeContext) ID() string                         { return c.id }
func (c *fakeContext) Ready() <-chan struct{}             { return c.ready.Done() }
func (c *fakeContext) DirtyChanged() *stream.Stream[bool] { return c.changed }
func (c *fakeContext) Disposed() *stream.Stream[struct{}] { return c.disposed }

func (c *fakeContext) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// setDirty records the value and emits a transition notification.
func (c *fakeContext) setDirty(v bool) {
	c.mu.Lock()
	c.dirty = v
	c.mu.Unlock()
	c.changed.Emit(v)
}

func (c *fakeContext) dispose() {
	c.disposed.Emit(struct{}{})
}

// awaitBound waits until the tracker has installed the dirty subscription
// for a context (readiness binding happens on a separate goroutine).
func awaitBound(t *testing.T, c *fakeContext) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for c.changed.Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("tracker never subscribed to dirty changes")
		case <-time.After(time.Millisecond):
		}
	}
}

// track readies a context and waits until the tracker has bound it.
func track(t *testing.T, tr *dirty.Tracker, c *fakeContext) {
	t.Helper()
	require.True(t, tr.Track(c))
	c.ready.Resolve()
	awaitBound(t, c)
}

func TestTracker_NoHoldWithoutDirt(t *testing.T) {
	ind := &fakeIndicator{}
	tr := dirty.NewTracker(ind)
	c := newFakeContext("a")

	track(t, tr, c)
	assert.Equal(t, 0, ind.held(), "clean session must hold nothing")

	c.setDirty(true)
	assert.Equal(t, 1, ind.held())
	assert.True(t, tr.Holding("a"))

	c.setDirty(false)
	assert.Equal(t, 0, ind.held())
	assert.False(t, tr.Holding("a"))
}

func TestTracker_IdempotentAcquire(t *testing.T) {
	ind := &fakeIndicator{}
	tr := dirty.NewTracker(ind)
	c := newFakeContext("a")
	track(t, tr, c)

	// Two consecutive dirty=true notifications with no intervening false.
	c.setDirty(true)
	c.setDirty(true)

	acquires, releases := ind.counts()
	assert.Equal(t, 1, acquires, "second dirty=true must be a no-op")
	assert.Equal(t, 0, releases)
}

func TestTracker_RaceReconciliation(t *testing.T) {
	ind := &fakeIndicator{}
	tr := dirty.NewTracker(ind)
	c := newFakeContext("a")

	// The session turns dirty during its own initialisation, before the
	// tracker could subscribe. No transition notification will be emitted
	// after readiness; the post-subscribe re-check must pick it up.
	c.mu.Lock()
	c.dirty = true
	c.mu.Unlock()

	track(t, tr, c)

	assert.Equal(t, 1, ind.held(), "already-dirty session must end up holding a token")
	assert.True(t, tr.Holding("a"))
}

func TestTracker_DisposalReleases(t *testing.T) {
	ind := &fakeIndicator{}
	tr := dirty.NewTracker(ind)
	c := newFakeContext("a")
	track(t, tr, c)

	c.setDirty(true)
	require.Equal(t, 1, ind.held())

	c.dispose()

	acquires, releases := ind.counts()
	assert.Equal(t, 1, acquires)
	assert.Equal(t, 1, releases)
	assert.False(t, tr.Tracked("a"))

	// Late notifications after disposal must be ignored.
	c.setDirty(true)
	assert.Equal(t, 0, ind.held())
}

func TestTracker_DisposalOfCleanSessionIsHarmless(t *testing.T) {
	ind := &fakeIndicator{}
	tr := dirty.NewTracker(ind)
	c := newFakeContext("a")
	track(t, tr, c)

	c.dispose()

	acquires, releases := ind.counts()
	assert.Equal(t, 0, acquires)
	assert.Equal(t, 0, releases)
	assert.False(t, tr.Tracked("a"))
}

func TestTracker_Independence(t *testing.T) {
	ind := &fakeIndicator{}
	tr := dirty.NewTracker(ind)
	a := newFakeContext("a")
	b := newFakeContext("b")
	track(t, tr, a)
	track(t, tr, b)

	a.setDirty(true)
	assert.Equal(t, 1, ind.held(), "one dirty session, one token")

	a.setDirty(false)
	assert.Equal(t, 0, ind.held())
	assert.True(t, tr.Tracked("b"), "untouched session stays tracked")
}

func TestTracker_NoDoubleRelease(t *testing.T) {
	ind := &fakeIndicator{}
	tr := dirty.NewTracker(ind)
	c := newFakeContext("a")
	track(t, tr, c)

	// Rapid toggling must produce matched acquire/release pairs.
	for i := 0; i < 4; i++ {
		c.setDirty(true)
		c.setDirty(false)
	}

	acquires, releases := ind.counts()
	assert.Equal(t, 4, acquires)
	assert.Equal(t, 4, releases)
	assert.Equal(t, 0, ind.held())
}

func TestTracker_TrackIsIdempotent(t *testing.T) {
	ind := &fakeIndicator{}
	tr := dirty.NewTracker(ind)
	c := newFakeContext("a")

	require.True(t, tr.Track(c))
	assert.False(t, tr.Track(c), "re-tracking a live session is refused")
	assert.Equal(t, 1, tr.Size())
}

func TestTracker_DisposedSessionIsNeverReTracked(t *testing.T) {
	ind := &fakeIndicator{}
	tr := dirty.NewTracker(ind)
	c := newFakeContext("a")
	track(t, tr, c)

	c.dispose()
	require.False(t, tr.Tracked("a"))

	assert.False(t, tr.Track(c), "disposal is terminal")
	assert.Equal(t, 0, tr.Size())
}

func TestTracker_DisposalBeforeReadiness(t *testing.T) {
	ind := &fakeIndicator{}
	tr := dirty.NewTracker(ind)
	c := newFakeContext("a")

	require.True(t, tr.Track(c))

	// Disposed before it ever became ready: cleanup must still run,
	// and resolving readiness afterwards must not bind anything.
	c.dispose()
	assert.False(t, tr.Tracked("a"))

	c.ready.Resolve()
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 0, c.changed.Len(), "no subscription after disposal")
	acquires, _ := ind.counts()
	assert.Equal(t, 0, acquires)
}

// Disposal can arrive from another goroutine while Track is still wiring
// the session up, e.g. one MCP tool call closing a session another call is
// opening. Run under -race: the teardown must be fully synchronised and
// must never leak the disposal subscription or a token.
func TestTracker_ConcurrentTrackAndDisposal(t *testing.T) {
	for i := 0; i < 200; i++ {
		ind := &fakeIndicator{}
		tr := dirty.NewTracker(ind)
		c := newFakeContext("a")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			tr.Track(c)
		}()
		go func() {
			defer wg.Done()
			c.dispose()
		}()
		wg.Wait()

		// The first disposal may have fired before the tracker
		// subscribed; a second one must complete the teardown.
		c.dispose()

		assert.False(t, tr.Tracked("a"))
		assert.Equal(t, 0, ind.held())
		assert.Equal(t, 0, c.disposed.Len(), "disposal subscription leaked")
	}
}

func TestTracker_NeverReadySessionIsInert(t *testing.T) {
	ind := &fakeIndicator{}
	tr := dirty.NewTracker(ind)
	c := newFakeContext("a")

	require.True(t, tr.Track(c))

	// Readiness never resolves: no subscription, no tokens, no error.
	c.setDirty(true)
	time.Sleep(10 * time.Millisecond)

	acquires, _ := ind.counts()
	assert.Equal(t, 0, acquires)
	assert.True(t, tr.Tracked("a"), "still tracked, awaiting readiness")
}

// Example scenario from the dirty-tracking contract: ready and clean, then
// dirty, dirty again, clean, disposed.
func TestTracker_Scenario(t *testing.T) {
	ind := &fakeIndicator{}
	tr := dirty.NewTracker(ind)
	c := newFakeContext("a")
	track(t, tr, c)
	require.Equal(t, 0, ind.held())

	c.setDirty(true)
	assert.Equal(t, 1, ind.held())

	c.setDirty(true)
	assert.Equal(t, 1, ind.held())

	c.setDirty(false)
	assert.Equal(t, 0, ind.held())

	c.dispose()
	assert.Equal(t, 0, ind.held())

	acquires, releases := ind.counts()
	assert.Equal(t, 1, acquires)
	assert.Equal(t, 1, releases)
}

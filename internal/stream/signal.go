// signal.go implements the one-shot readiness signal.
//
// Separated from stream.go because a Signal has different semantics: it
// fires at most once, latches permanently, and late waiters observe the
// resolved state immediately. A Signal that is never resolved never fires;
// waiters on it simply never proceed.

package stream

import "sync"

// Signal is a one-shot latch. Resolve fires it; once fired it stays fired.
type Signal struct {
	once sync.Once
	done chan struct{}
}

// NewSignal creates an unresolved signal.
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Resolve fires the signal. Only the first call has any effect.
func (s *Signal) Resolve() {
	s.once.Do(func() { close(s.done) })
}

// Done returns a channel that is closed once the signal resolves.
// Waiters that start after resolution observe the closed channel at once.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Resolved reports whether the signal has fired.
func (s *Signal) Resolved() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

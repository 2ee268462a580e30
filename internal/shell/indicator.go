// Package shell provides the host-side dirty indicator: a counting
// implementation of dirty.Indicator. The host is dirty while at least one
// token is outstanding. Long-running surfaces (the MCP server) consult it
// before shutdown to warn about unsaved work.
package shell

import (
	"sync"

	"github.com/jpl-au/docshell/internal/dirty"
)

// Indicator counts outstanding dirty tokens.
type Indicator struct {
	mu    sync.Mutex
	holds int
}

var _ dirty.Indicator = (*Indicator)(nil)

// NewIndicator creates a clean indicator.
func NewIndicator() *Indicator {
	return &Indicator{}
}

// Acquire takes one hold on the indicator and returns its token.
func (i *Indicator) Acquire() dirty.Token {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.holds++
	return &token{ind: i}
}

// Dirty reports whether any token is outstanding.
func (i *Indicator) Dirty() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.holds > 0
}

// Holds returns the number of outstanding tokens.
func (i *Indicator) Holds() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.holds
}

// token is a one-shot hold. The release guard is internal safety; callers
// are expected to release at most once.
type token struct {
	ind      *Indicator
	released bool
}

// Release returns the hold. Subsequent calls are no-ops.
func (t *token) Release() {
	t.ind.mu.Lock()
	defer t.ind.mu.Unlock()
	if t.released {
		return
	}
	t.released = true
	t.ind.holds--
}

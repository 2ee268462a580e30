// model.go implements the in-memory document model held by a session.
//
// Separated from the session context to isolate state-change bookkeeping.
// The model owns two pieces of state (content and the dirty flag) and emits
// a StateChange on the Changed stream for every property transition.
// Consumers that only care about dirtiness filter on the property name.

package session

import (
	"sync"

	"github.com/jpl-au/docshell/internal/stream"
)

// Property names carried by StateChange notifications.
const (
	PropContent = "content"
	PropDirty   = "dirty"
)

// StateChange describes one model property transition.
type StateChange struct {
	Name     string // property that changed
	NewValue any    // its new value
}

// Model holds a session's working copy of a document.
type Model struct {
	mu      sync.Mutex
	content string
	dirty   bool

	// Changed emits a StateChange for every property transition.
	Changed *stream.Stream[StateChange]
}

// NewModel creates an empty, clean model.
func NewModel() *Model {
	return &Model{Changed: stream.New[StateChange]()}
}

// Content returns the working copy.
func (m *Model) Content() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.content
}

// Dirty reports whether the working copy differs from the last load or save.
func (m *Model) Dirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty
}

// SetContent replaces the working copy and marks the model dirty.
// Setting identical content is still an edit gesture and marks dirty.
func (m *Model) SetContent(content string) {
	m.mu.Lock()
	m.content = content
	wasDirty := m.dirty
	m.dirty = true
	m.mu.Unlock()

	m.Changed.Emit(StateChange{Name: PropContent, NewValue: content})
	if !wasDirty {
		m.Changed.Emit(StateChange{Name: PropDirty, NewValue: true})
	}
}

// load installs content without marking dirty. Used for the initial load
// and for revert, where the working copy is reset to stored state.
func (m *Model) load(content string) {
	m.mu.Lock()
	m.content = content
	wasDirty := m.dirty
	m.dirty = false
	m.mu.Unlock()

	m.Changed.Emit(StateChange{Name: PropContent, NewValue: content})
	if wasDirty {
		m.Changed.Emit(StateChange{Name: PropDirty, NewValue: false})
	}
}

// markClean clears the dirty flag after a successful save.
func (m *Model) markClean() {
	m.mu.Lock()
	wasDirty := m.dirty
	m.dirty = false
	m.mu.Unlock()

	if wasDirty {
		m.Changed.Emit(StateChange{Name: PropDirty, NewValue: false})
	}
}

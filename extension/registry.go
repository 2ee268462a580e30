// registry.go holds the global extension registry.
//
// Extensions self-register from their init() functions, which run before
// main(). The registry therefore only ever grows during program start; by
// the time commands execute it is effectively read-only.
//
// Design: duplicate registration panics, matching database/sql.Register.
// A duplicate name is a programming error baked into the binary, so failing
// at init beats surfacing it as a runtime error nobody handles. The
// registration order is recorded so command listings stay deterministic.

package extension

import "sync"

var (
	mu       sync.RWMutex
	registry = make(map[string]Extension)
	order    []string
)

// Register adds an extension to the registry. Call it from init().
// It panics if an extension with the same name is already registered.
func Register(e Extension) {
	mu.Lock()
	defer mu.Unlock()

	name := e.Name()
	if _, exists := registry[name]; exists {
		panic("extension already registered: " + name)
	}

	registry[name] = e
	order = append(order, name)
}

// All returns every registered extension in registration order.
func All() []Extension {
	mu.RLock()
	defer mu.RUnlock()

	exts := make([]Extension, 0, len(order))
	for _, name := range order {
		exts = append(exts, registry[name])
	}
	return exts
}

// Names returns the registered extension names in registration order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, len(order))
	copy(names, order)
	return names
}

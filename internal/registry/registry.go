// Package registry provides name-keyed lookup tables for loaded entities.
// One Registry exists per entity kind; entries are inserted as entities are
// constructed and looked up when other entities refer to them by name.
package registry

import (
	"sort"
	"sync"

	"github.com/leapstack-labs/firefly/pkg/core"
)

// Registry maps names to objects of a single kind.
// Note: registering a name twice replaces the earlier entry (last write wins).
type Registry[T any] struct {
	mu    sync.RWMutex
	kind  string
	items map[string]T
}

// New creates an empty registry for the given entity kind.
// The kind is reported in NotFoundError.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:  kind,
		items: make(map[string]T),
	}
}

// Kind returns the entity kind this registry holds.
func (r *Registry[T]) Kind() string {
	return r.kind
}

// Register inserts obj under name, overwriting any previous entry.
func (r *Registry[T]) Register(name string, obj T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[name] = obj
}

// Lookup returns the object registered under name.
// Returns *core.NotFoundError if the name is not registered.
func (r *Registry[T]) Lookup(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	obj, ok := r.items[name]
	if !ok {
		var zero T
		return zero, &core.NotFoundError{Kind: r.kind, Name: name}
	}
	return obj, nil
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[name]
	return ok
}

// Names returns all registered names (sorted).
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered names.
func (r *Registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Snapshot returns a copy of the current entries.
func (r *Registry[T]) Snapshot() map[string]T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := make(map[string]T, len(r.items))
	for name, obj := range r.items {
		snap[name] = obj
	}
	return snap
}

// Restore replaces all entries with those of a snapshot.
func (r *Registry[T]) Restore(snap map[string]T) {
	items := make(map[string]T, len(snap))
	for name, obj := range snap {
		items[name] = obj
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = items
}

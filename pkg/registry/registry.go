// Package registry provides the name-keyed registry that driver backends and
// step handlers fill from init().
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps names to values of one kind
type Registry[T any] struct {
	kind  string
	mu    sync.RWMutex
	items map[string]T
}

// New creates an empty registry. kind names the registered values in errors.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:  kind,
		items: make(map[string]T),
	}
}

// Register adds item under name
func (r *Registry[T]) Register(name string, item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; exists {
		return fmt.Errorf("%s '%s' is already registered", r.kind, name)
	}

	r.items[name] = item
	return nil
}

// MustRegister adds item under name, panicking if it fails
func (r *Registry[T]) MustRegister(name string, item T) {
	if err := r.Register(name, item); err != nil {
		panic(err)
	}
}

// Get retrieves the item registered under name
func (r *Registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[name]
	if !exists {
		var zero T
		return zero, fmt.Errorf("no %s registered with name '%s'", r.kind, name)
	}
	return item, nil
}

// Names lists the registered names in sorted order
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

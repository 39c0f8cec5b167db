package provider

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Registry holds the backend factories of one pipeline stage, keyed by the
// name used in the stage's "provider" config field.
type Registry[T Provider] struct {
	stage string

	mu     sync.RWMutex
	byName map[string]Factory[T]
}

// NewRegistry returns an empty registry for the named stage.
func NewRegistry[T Provider](stage string) *Registry[T] {
	return &Registry[T]{stage: stage, byName: map[string]Factory[T]{}}
}

// Register adds a factory. Registering a name twice keeps the last one.
func (r *Registry[T]) Register(name string, f Factory[T]) {
	r.mu.Lock()
	r.byName[name] = f
	r.mu.Unlock()
}

// Create builds the backend registered under name from its options.
func (r *Registry[T]) Create(name string, opts map[string]any) (T, error) {
	r.mu.RLock()
	f := r.byName[name]
	r.mu.RUnlock()
	if f == nil {
		var zero T
		return zero, fmt.Errorf("%s: unknown provider %q, choose one of [%s]",
			r.stage, name, strings.Join(r.Names(), " "))
	}
	backend, err := f(opts)
	if err != nil {
		return backend, fmt.Errorf("%s %s: %w", r.stage, name, err)
	}
	return backend, nil
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name] != nil
}

// Names lists the registered provider names in order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.byName))
}

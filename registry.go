package asyncfilters

import (
	"context"
	"sync"

	"golang.org/x/exp/slices"
)

// FilterFunc is a filter implementation. It is written once against RenderContext.Iterate and
// therefore runs unchanged in both render modes.
type FilterFunc func(ctx context.Context, rc *RenderContext, value any, args Args) (any, error)

// TestFunc is a named test, as used by select and reject.
type TestFunc func(value any, args ...any) (bool, error)

// Args holds the already-evaluated arguments of a filter call.
type Args struct {
	Positional []any
	Keyword    map[string]any
}

// Registry maps names to filter or test implementations.
// It is safe for concurrent use, so one registry can serve many renders.
type Registry[F any] struct {
	mu      sync.RWMutex
	kind    string
	entries map[string]F
}

// NewRegistry returns an empty registry. kind names the entries in lookup errors.
func NewRegistry[F any](kind string) *Registry[F] {
	return &Registry[F]{
		kind:    kind,
		entries: map[string]F{},
	}
}

// DefaultFilters returns a registry holding the built-in filters.
func DefaultFilters() *Registry[FilterFunc] {
	reg := NewRegistry[FilterFunc]("filter")

	for name, fn := range builtinFilters() {
		reg.Register(name, fn)
	}

	return reg
}

// DefaultTests returns a registry holding the built-in tests.
func DefaultTests() *Registry[TestFunc] {
	reg := NewRegistry[TestFunc]("test")

	for name, fn := range builtinTests() {
		reg.Register(name, fn)
	}

	return reg
}

// Register adds fn under name, replacing any previous entry.
func (r *Registry[F]) Register(name string, fn F) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[name] = fn
}

// Lookup returns the entry registered under name, or a LookupError.
func (r *Registry[F]) Lookup(name string) (F, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.entries[name]
	if !ok {
		var zero F
		return zero, &LookupError{Kind: r.kind, Name: name}
	}

	return fn, nil
}

// Names returns the registered names in sorted order.
func (r *Registry[F]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Get returns the argument at position pos, or the keyword argument name.
func (a Args) Get(pos int, name string) (any, bool) {
	if pos >= 0 && pos < len(a.Positional) {
		return a.Positional[pos], true
	}

	if name != "" {
		v, ok := a.Keyword[name]
		return v, ok
	}

	return nil, false
}

// Rest returns the positional arguments from pos on.
func (a Args) Rest(pos int) []any {
	if pos >= len(a.Positional) {
		return nil
	}

	return a.Positional[pos:]
}

package openapi

import (
	"bytes"
	"fmt"
	"sync"
)

// Binder commits named fragments into a Registry. Conversion code receives
// a Binder rather than the Registry itself: the registry lock is taken once
// at the outermost Bind and held across the whole recursive build, so the
// read-check-insert sequence stays atomic even under concurrent callers.
type Binder interface {
	// Bind registers build's fragment under name. Binding an existing name
	// with an identical fragment is a no-op; a different fragment is
	// recorded as a conflict. Binding a name that is currently being built
	// returns immediately so the caller can emit a forward reference.
	Bind(name string, build BuildFunc)
}

// BuildFunc produces the fragment for one name. Nested named references are
// bound through the supplied Binder.
type BuildFunc func(Binder) *Schema

// Registry is the append-only mapping from canonical name to committed
// fragment. Names are unique for the lifetime of the hosting service;
// insertion order is retained for document output.
type Registry struct {
	mu        sync.Mutex
	schemas   map[string]*Schema
	order     []string
	resolving map[string]bool
	conflict  error
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas:   map[string]*Schema{},
		resolving: map[string]bool{},
	}
}

// Bind registers build's fragment under name and reports the first
// conflicting registration seen so far, if any.
func (r *Registry) Bind(name string, build BuildFunc) error {
	return r.With(func(b Binder) {
		b.Bind(name, build)
	})
}

// With runs fn with the registry lock held, for callers that need to bind
// several fragments as one atomic section.
func (r *Registry) With(fn func(Binder)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(binder{r})
	return r.conflict
}

// Err returns the first conflicting registration, or nil.
func (r *Registry) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conflict
}

// Schema returns the fragment committed under name.
func (r *Registry) Schema(name string) (*Schema, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the committed names in insertion order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Components returns a snapshot of the registry for document output.
func (r *Registry) Components() Components {
	r.mu.Lock()
	defer r.mu.Unlock()
	named := make([]namedSchema, 0, len(r.order))
	for _, name := range r.order {
		named = append(named, namedSchema{name, r.schemas[name]})
	}
	return Components{Schemas: named}
}

// binder operates with the registry lock held.
type binder struct {
	r *Registry
}

func (b binder) Bind(name string, build BuildFunc) {
	r := b.r
	if r.resolving[name] {
		return
	}
	if existing, ok := r.schemas[name]; ok {
		// Idempotent re-registration. Rebuild and compare so that a second
		// registration with a different shape surfaces instead of being
		// silently ignored.
		r.resolving[name] = true
		candidate := build(b)
		delete(r.resolving, name)
		if r.conflict == nil && !sameSchema(existing, candidate) {
			r.conflict = fmt.Errorf("openapi: schema %q registered twice with different shapes", name)
		}
		return
	}
	r.resolving[name] = true
	s := build(b)
	delete(r.resolving, name)
	if s == nil {
		s = &Schema{Type: "object"}
	}
	r.schemas[name] = s
	r.order = append(r.order, name)
}

func sameSchema(a, b *Schema) bool {
	if a == nil || b == nil {
		return a == b
	}
	ab, err := a.MarshalJSON()
	if err != nil {
		return false
	}
	bb, err := b.MarshalJSON()
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

package schema

import (
	"fmt"
	"slices"
)

// Registry maps record kinds to their field sets. It is populated once by
// NewRegistry and read only afterwards.
type Registry struct {
	sets map[string]FieldSet
}

// NewRegistry builds a registry from the given field sets. Registering the same
// kind twice panics.
func NewRegistry(sets ...FieldSet) *Registry {
	r := &Registry{sets: make(map[string]FieldSet, len(sets))}
	for _, s := range sets {
		if _, dup := r.sets[s.Kind()]; dup {
			panic(fmt.Sprintf("schema: kind %s registered twice", s.Kind()))
		}
		r.sets[s.Kind()] = s
	}
	return r
}

// Fields returns the field set registered for kind.
func (r *Registry) Fields(kind string) (FieldSet, bool) {
	s, ok := r.sets[kind]
	return s, ok
}

// MustFields is Fields for kinds known to be registered at startup.
func (r *Registry) MustFields(kind string) FieldSet {
	s, ok := r.sets[kind]
	if !ok {
		panic(fmt.Sprintf("schema: kind %s is not registered", kind))
	}
	return s
}

// Kinds lists the registered kinds in lexical order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.sets))
	for k := range r.sets {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

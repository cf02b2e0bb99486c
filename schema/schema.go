package schema

import (
	"fmt"
	"slices"
)

// FieldSet is the read only view of a schema used for membership tests.
type FieldSet interface {
	Kind() string
	Has(name string) bool
	Names() []string
}

// Option configures a Schema at construction time.
type Option func(*options)

type options struct {
	search   string
	tieBreak string
}

// SearchOn designates the field that substring filters are applied to.
func SearchOn(name string) Option {
	return func(o *options) { o.search = name }
}

// TieBreaker designates the field used, ascending, to order records whose sort
// field values are equal. Without it page boundaries over equal values are not
// stable between queries.
func TieBreaker(name string) Option {
	return func(o *options) { o.tieBreak = name }
}

// Schema is the immutable field table of one record type.
type Schema[T any] struct {
	kind     string
	fields   []Field[T]
	index    map[string]int
	names    []string
	search   int
	tieBreak int
}

var _ FieldSet = (*Schema[any])(nil)

// New builds a schema for kind from the given fields. It panics when the
// declaration is inconsistent: schemas are built during startup and a bad
// declaration is a programming error.
func New[T any](kind string, fields []Field[T], opts ...Option) *Schema[T] {
	if kind == "" {
		panic("schema: kind is required")
	}
	if len(fields) == 0 {
		panic(fmt.Sprintf("schema %s: at least one field is required", kind))
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Schema[T]{
		kind:     kind,
		fields:   make([]Field[T], len(fields)),
		index:    make(map[string]int, len(fields)),
		names:    make([]string, 0, len(fields)),
		search:   -1,
		tieBreak: -1,
	}

	for i, f := range fields {
		if f.Name == "" {
			panic(fmt.Sprintf("schema %s: field %d has no name", kind, i))
		}
		if f.Compare == nil {
			panic(fmt.Sprintf("schema %s: field %s has no comparator", kind, f.Name))
		}
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("schema %s: duplicate field %s", kind, f.Name))
		}
		if f.Column == "" {
			f.Column = toSnake(f.Name)
		}
		s.fields[i] = f
		s.index[f.Name] = i
		s.names = append(s.names, f.Name)
	}
	slices.Sort(s.names)

	if o.search != "" {
		i, ok := s.index[o.search]
		if !ok {
			panic(fmt.Sprintf("schema %s: search field %s is not declared", kind, o.search))
		}
		if !s.fields[i].Searchable() {
			panic(fmt.Sprintf("schema %s: search field %s is not a text field", kind, o.search))
		}
		s.search = i
	}

	if o.tieBreak != "" {
		i, ok := s.index[o.tieBreak]
		if !ok {
			panic(fmt.Sprintf("schema %s: tie breaker %s is not declared", kind, o.tieBreak))
		}
		s.tieBreak = i
	}

	return s
}

// Kind returns the logical record kind, e.g. "forms".
func (s *Schema[T]) Kind() string {
	return s.kind
}

// Has reports whether name is a declared field. Matching is exact.
func (s *Schema[T]) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Names returns the declared field names in lexical order.
func (s *Schema[T]) Names() []string {
	return slices.Clone(s.names)
}

// Field returns the accessor declared for name.
func (s *Schema[T]) Field(name string) (Field[T], bool) {
	i, ok := s.index[name]
	if !ok {
		return Field[T]{}, false
	}
	return s.fields[i], true
}

// SearchField returns the field substring filters apply to.
func (s *Schema[T]) SearchField() (Field[T], bool) {
	if s.search < 0 {
		return Field[T]{}, false
	}
	return s.fields[s.search], true
}

// TieBreakField returns the secondary order key.
func (s *Schema[T]) TieBreakField() (Field[T], bool) {
	if s.tieBreak < 0 {
		return Field[T]{}, false
	}
	return s.fields[s.tieBreak], true
}

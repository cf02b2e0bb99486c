package schema

import (
	"cmp"
	"strings"
	"time"
)

// Field is one entry of a schema's accessor table.
type Field[T any] struct {
	// Name is the public name clients use as a sort column.
	Name string
	// Column is the storage column the name maps to.
	Column string
	// Compare orders two records by this field: negative, zero or positive.
	Compare func(a, b T) int
	// Text returns the searchable text of the field. Nil for non text fields.
	Text func(T) string
}

// Searchable reports whether the field can back a substring filter.
func (f Field[T]) Searchable() bool {
	return f.Text != nil
}

// String declares a text field. Text fields are ordered by byte-wise comparison
// and can be used as the searchable field of a schema.
func String[T any](name, column string, get func(T) string) Field[T] {
	return Field[T]{
		Name:   name,
		Column: column,
		Compare: func(a, b T) int {
			return strings.Compare(get(a), get(b))
		},
		Text: get,
	}
}

// Int declares an integer field.
func Int[T any](name, column string, get func(T) int) Field[T] {
	return Ordered(name, column, get)
}

// Time declares a timestamp field.
func Time[T any](name, column string, get func(T) time.Time) Field[T] {
	return Field[T]{
		Name:   name,
		Column: column,
		Compare: func(a, b T) int {
			return get(a).Compare(get(b))
		},
	}
}

// Ordered declares a field over any ordered value type.
func Ordered[T any, V cmp.Ordered](name, column string, get func(T) V) Field[T] {
	return Field[T]{
		Name:   name,
		Column: column,
		Compare: func(a, b T) int {
			return cmp.Compare(get(a), get(b))
		},
	}
}

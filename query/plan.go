package query

import (
	"context"
	"strings"

	"github.com/goliatone/go-listing-cache/schema"
)

// Filter restricts a source to records whose searchable field contains a
// substring.
type Filter[T any] struct {
	Field    schema.Field[T]
	Contains string
}

// Active reports whether the filter restricts anything.
func (f Filter[T]) Active() bool {
	return f.Contains != ""
}

// Match applies the filter to one record.
func (f Filter[T]) Match(record T) bool {
	if !f.Active() {
		return true
	}
	return strings.Contains(f.Field.Text(record), f.Contains)
}

// Plan is a fully resolved query. Every field and column it references comes
// from a schema declaration.
type Plan[T any] struct {
	Filter     Filter[T]
	Sort       schema.Field[T]
	Descending bool
	// TieBreak orders records with equal sort values, always ascending.
	TieBreak    schema.Field[T]
	HasTieBreak bool
	Skip        int
	Take        int
}

// Direction returns the SQL keyword for the plan's sort direction.
func (p Plan[T]) Direction() string {
	if p.Descending {
		return "DESC"
	}
	return "ASC"
}

// Compare orders two records according to the plan.
func (p Plan[T]) Compare(a, b T) int {
	c := p.Sort.Compare(a, b)
	if p.Descending {
		c = -c
	}
	if c == 0 && p.HasTieBreak {
		c = p.TieBreak.Compare(a, b)
	}
	return c
}

// Source is a read only record collection the Builder can query.
type Source[T any] interface {
	// Count returns the number of records matching filter.
	Count(ctx context.Context, filter Filter[T]) (int, error)
	// Find returns at most plan.Take records matching plan.Filter, ordered and
	// offset as the plan describes.
	Find(ctx context.Context, plan Plan[T]) ([]T, error)
}

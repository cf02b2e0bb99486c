package query

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/goliatone/go-listing-cache/listing"
	"github.com/goliatone/go-listing-cache/schema"
)

var (
	// ErrUnsupportedSortColumn means a sort column reached the builder without
	// being validated against the schema.
	ErrUnsupportedSortColumn = errors.New("query: unsupported sort column")
	// ErrNotSearchable means a filter was requested on a schema without a
	// search field.
	ErrNotSearchable = errors.New("query: schema has no searchable field")
)

// Builder plans and runs list queries for one record type.
type Builder[T any] struct {
	schema *schema.Schema[T]
}

// NewBuilder returns a builder over s.
func NewBuilder[T any](s *schema.Schema[T]) *Builder[T] {
	return &Builder[T]{schema: s}
}

// Plan resolves req against the schema.
func (b *Builder[T]) Plan(req listing.Request) (Plan[T], error) {
	sort, ok := b.schema.Field(req.SortColumn)
	if !ok {
		return Plan[T]{}, fmt.Errorf("%w: %s.%q", ErrUnsupportedSortColumn, b.schema.Kind(), req.SortColumn)
	}

	plan := Plan[T]{
		Sort:       sort,
		Descending: req.Descending(),
		Skip:       skip(req),
		Take:       req.PageSize,
	}

	if tie, ok := b.schema.TieBreakField(); ok && tie.Name != sort.Name {
		plan.TieBreak = tie
		plan.HasTieBreak = true
	}

	if req.FilterQuery != "" {
		search, ok := b.schema.SearchField()
		if !ok {
			return Plan[T]{}, fmt.Errorf("%w: %s", ErrNotSearchable, b.schema.Kind())
		}
		plan.Filter = Filter[T]{Field: search, Contains: req.FilterQuery}
	}

	return plan, nil
}

// Build runs req against src and returns the requested page and the number of
// records matching the filter, independent of paging.
func (b *Builder[T]) Build(ctx context.Context, src Source[T], req listing.Request) ([]T, int, error) {
	plan, err := b.Plan(req)
	if err != nil {
		return nil, 0, err
	}

	total, err := src.Count(ctx, plan.Filter)
	if err != nil {
		return nil, 0, fmt.Errorf("query %s: count: %w", b.schema.Kind(), err)
	}

	if plan.Take <= 0 || plan.Skip >= total {
		return []T{}, total, nil
	}

	records, err := src.Find(ctx, plan)
	if err != nil {
		return nil, 0, fmt.Errorf("query %s: find: %w", b.schema.Kind(), err)
	}
	if len(records) > plan.Take {
		records = records[:plan.Take]
	}
	if records == nil {
		records = []T{}
	}

	return records, total, nil
}

// skip saturates instead of overflowing for very large page indexes.
func skip(req listing.Request) int {
	if req.PageSize > 0 && req.PageIndex > math.MaxInt/req.PageSize {
		return math.MaxInt
	}
	return req.Skip()
}

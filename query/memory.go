package query

import (
	"context"
	"slices"
	"sync"
)

// MemorySource serves records from an in-process slice. Writers replace the
// backing slice wholesale, so readers always work on a consistent snapshot.
type MemorySource[T any] struct {
	mu      sync.RWMutex
	records []T
}

var _ Source[any] = (*MemorySource[any])(nil)

// NewMemorySource returns a source holding a copy of records.
func NewMemorySource[T any](records []T) *MemorySource[T] {
	return &MemorySource[T]{records: slices.Clone(records)}
}

// Replace swaps the full record set.
func (m *MemorySource[T]) Replace(records []T) {
	next := slices.Clone(records)
	m.mu.Lock()
	m.records = next
	m.mu.Unlock()
}

// Add appends records.
func (m *MemorySource[T]) Add(records ...T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := make([]T, 0, len(m.records)+len(records))
	next = append(next, m.records...)
	m.records = append(next, records...)
}

// Len returns the number of records held.
func (m *MemorySource[T]) Len() int {
	return len(m.snapshot())
}

func (m *MemorySource[T]) snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records
}

// Count implements Source.
func (m *MemorySource[T]) Count(ctx context.Context, filter Filter[T]) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	records := m.snapshot()
	if !filter.Active() {
		return len(records), nil
	}

	n := 0
	for _, r := range records {
		if filter.Match(r) {
			n++
		}
	}
	return n, nil
}

// Find implements Source.
func (m *MemorySource[T]) Find(ctx context.Context, plan Plan[T]) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := m.snapshot()
	matched := make([]T, 0, len(records))
	for _, r := range records {
		if plan.Filter.Match(r) {
			matched = append(matched, r)
		}
	}

	slices.SortStableFunc(matched, plan.Compare)

	if plan.Skip >= len(matched) || plan.Skip < 0 {
		return []T{}, nil
	}
	end := len(matched)
	if plan.Take < end-plan.Skip {
		end = plan.Skip + plan.Take
	}
	return slices.Clone(matched[plan.Skip:end]), nil
}

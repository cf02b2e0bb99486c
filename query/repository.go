package query

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositorySource adapts a go-repository-bun repository. Only the read
// methods Count and List are used.
type RepositorySource[T any] struct {
	repo repository.Repository[T]
}

var _ Source[any] = (*RepositorySource[any])(nil)

// NewRepositorySource wraps repo.
func NewRepositorySource[T any](repo repository.Repository[T]) *RepositorySource[T] {
	return &RepositorySource[T]{repo: repo}
}

// Count implements Source.
func (s *RepositorySource[T]) Count(ctx context.Context, filter Filter[T]) (int, error) {
	return s.repo.Count(ctx, filterCriteria(filter)...)
}

// Find implements Source.
func (s *RepositorySource[T]) Find(ctx context.Context, plan Plan[T]) ([]T, error) {
	criteria := []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			return applyPlan(q, plan)
		},
	}
	records, _, err := s.repo.List(ctx, criteria...)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func filterCriteria[T any](filter Filter[T]) []repository.SelectCriteria {
	if !filter.Active() {
		return nil
	}
	return []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			return applyFilter(q, filter)
		},
	}
}

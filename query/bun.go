package query

import (
	"context"

	"github.com/goliatone/go-listing-cache/schema"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// BunSource queries a bun model table. T must be a bun model struct whose
// columns match the schema's declared columns.
type BunSource[T any] struct {
	db bun.IDB
}

var _ Source[struct{}] = (*BunSource[struct{}])(nil)

// NewBunSource returns a source reading T rows through db.
func NewBunSource[T any](db bun.IDB) *BunSource[T] {
	return &BunSource[T]{db: db}
}

// Count implements Source.
func (s *BunSource[T]) Count(ctx context.Context, filter Filter[T]) (int, error) {
	q := s.db.NewSelect().Model((*T)(nil))
	q = applyFilter(q, filter)
	return q.Count(ctx)
}

// Find implements Source.
func (s *BunSource[T]) Find(ctx context.Context, plan Plan[T]) ([]T, error) {
	var rows []T
	q := s.db.NewSelect().Model(&rows)
	q = applyPlan(q, plan)
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

// applyFilter restricts q with a case-sensitive containment test. instr and
// strpos compare bytes, unlike LIKE which folds ASCII case on SQLite.
func applyFilter[T any](q *bun.SelectQuery, filter Filter[T]) *bun.SelectQuery {
	if !filter.Active() {
		return q
	}
	expr := "instr(?, ?) > 0"
	if q.DB().Dialect().Name() == dialect.PG {
		expr = "strpos(?, ?) > 0"
	}
	return q.Where(expr, bun.Ident(filter.Field.Column), filter.Contains)
}

// applyPlan adds filter, ordering and paging. Columns come from the schema and
// the direction keyword from Plan.Direction, never from request text.
func applyPlan[T any](q *bun.SelectQuery, plan Plan[T]) *bun.SelectQuery {
	q = applyFilter(q, plan.Filter)
	q = q.OrderExpr(orderTerm(q, plan.Sort)+" "+plan.Direction(), bun.Ident(plan.Sort.Column))
	if plan.HasTieBreak {
		q = q.OrderExpr(orderTerm(q, plan.TieBreak)+" ASC", bun.Ident(plan.TieBreak.Column))
	}
	return q.Limit(plan.Take).Offset(plan.Skip)
}

// orderTerm returns the placeholder for ordering by field. Text columns on
// Postgres use the "C" collation so rows order byte-wise, as they do on
// SQLite and in memory, instead of by the database locale.
func orderTerm[T any](q *bun.SelectQuery, field schema.Field[T]) string {
	if field.Searchable() && q.DB().Dialect().Name() == dialect.PG {
		return `? COLLATE "C"`
	}
	return "?"
}

package query

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-listing-cache/listing"
	"github.com/goliatone/go-listing-cache/schema"
)

type form struct {
	ID         int
	FormNumber string
	FormOwner  string
}

var formSchema = schema.New("forms", []schema.Field[form]{
	schema.Int("Id", "", func(f form) int { return f.ID }),
	schema.String("FormNumber", "", func(f form) string { return f.FormNumber }),
	schema.String("FormOwner", "", func(f form) string { return f.FormOwner }),
}, schema.SearchOn("FormNumber"), schema.TieBreaker("Id"))

// seedForms returns 25 forms; ids 4, 11 and 19 carry "AB" in their number.
func seedForms() []form {
	owners := []string{"ops", "hr", "finance"}
	forms := make([]form, 0, 25)
	for i := 25; i >= 1; i-- {
		prefix := "XY"
		if i == 4 || i == 11 || i == 19 {
			prefix = "AB"
		}
		forms = append(forms, form{
			ID:         i,
			FormNumber: fmt.Sprintf("%s-%03d", prefix, i),
			FormOwner:  owners[i%len(owners)],
		})
	}
	return forms
}

// countingSource records how often the wrapped source is hit.
type countingSource[T any] struct {
	Source[T]
	counts atomic.Int64
	finds  atomic.Int64
}

func (c *countingSource[T]) Count(ctx context.Context, f Filter[T]) (int, error) {
	c.counts.Add(1)
	return c.Source.Count(ctx, f)
}

func (c *countingSource[T]) Find(ctx context.Context, p Plan[T]) ([]T, error) {
	c.finds.Add(1)
	return c.Source.Find(ctx, p)
}

func request(mods ...func(*listing.Request)) listing.Request {
	req := listing.Request{PageIndex: 0, PageSize: 10, SortColumn: "FormNumber", SortOrder: listing.SortAscending}
	for _, m := range mods {
		m(&req)
	}
	return req
}

func ids(forms []form) []int {
	out := make([]int, len(forms))
	for i, f := range forms {
		out[i] = f.ID
	}
	return out
}

func TestBuilder_FirstPageAscending(t *testing.T) {
	b := NewBuilder(formSchema)
	src := NewMemorySource(seedForms())

	records, total, err := b.Build(context.Background(), src, request())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}
	if len(records) != 10 {
		t.Fatalf("len(records) = %d, want 10", len(records))
	}
	if !slices.IsSortedFunc(records, func(a, b form) int { return cmpString(a.FormNumber, b.FormNumber) }) {
		t.Errorf("records not sorted by FormNumber: %v", records)
	}
	want := []int{4, 11, 19, 1, 2, 3, 5, 6, 7, 8}
	if got := ids(records); !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestBuilder_FilterCountsBeforePaging(t *testing.T) {
	b := NewBuilder(formSchema)
	src := NewMemorySource(seedForms())

	for _, size := range []int{1, 2, 3, 10} {
		for index := 0; index < 4; index++ {
			req := request(func(r *listing.Request) {
				r.FilterQuery = "AB"
				r.PageSize = size
				r.PageIndex = index
			})
			records, total, err := b.Build(context.Background(), src, req)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if total != 3 {
				t.Errorf("size=%d index=%d: total = %d, want 3", size, index, total)
			}
			want := min(size, max(0, total-index*size))
			if len(records) != want {
				t.Errorf("size=%d index=%d: len = %d, want %d", size, index, len(records), want)
			}
		}
	}
}

func TestBuilder_FilterIsCaseSensitive(t *testing.T) {
	b := NewBuilder(formSchema)
	src := NewMemorySource(seedForms())

	_, total, err := b.Build(context.Background(), src, request(func(r *listing.Request) { r.FilterQuery = "ab" }))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0 for lower case filter", total)
	}
}

func TestBuilder_DescendingWithTieBreak(t *testing.T) {
	b := NewBuilder(formSchema)
	src := NewMemorySource(seedForms())

	req := request(func(r *listing.Request) {
		r.SortColumn = "FormOwner"
		r.SortOrder = listing.SortDescending
		r.PageSize = 25
	})
	records, _, err := b.Build(context.Background(), src, req)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		if prev.FormOwner < cur.FormOwner {
			t.Fatalf("owners not descending at %d: %q < %q", i, prev.FormOwner, cur.FormOwner)
		}
		if prev.FormOwner == cur.FormOwner && prev.ID > cur.ID {
			t.Fatalf("tie not broken by ascending id at %d: %d > %d", i, prev.ID, cur.ID)
		}
	}
}

func TestBuilder_PagesPartitionResult(t *testing.T) {
	b := NewBuilder(formSchema)
	src := NewMemorySource(seedForms())

	var seen []int
	for index := 0; index < 5; index++ {
		req := request(func(r *listing.Request) {
			r.SortColumn = "FormOwner"
			r.PageSize = 7
			r.PageIndex = index
		})
		records, total, err := b.Build(context.Background(), src, req)
		if err != nil {
			t.Fatalf("Build() error = %v", err)
		}
		if total != 25 {
			t.Errorf("total = %d on page %d", total, index)
		}
		if len(records) > 7 {
			t.Errorf("page %d has %d records", index, len(records))
		}
		seen = append(seen, ids(records)...)
	}

	slices.Sort(seen)
	if len(seen) != 25 || slices.Compact(seen)[24] != 25 {
		t.Errorf("pages should cover every record exactly once, got %v", seen)
	}
}

func TestBuilder_BeyondLastPage(t *testing.T) {
	b := NewBuilder(formSchema)
	src := &countingSource[form]{Source: NewMemorySource(seedForms())}

	records, total, err := b.Build(context.Background(), src, request(func(r *listing.Request) { r.PageIndex = 3 }))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if total != 25 || len(records) != 0 || records == nil {
		t.Errorf("records = %v, total = %d; want empty non-nil page and 25", records, total)
	}
	if src.finds.Load() != 0 {
		t.Errorf("Find should not run for a page past the end")
	}

	huge := request(func(r *listing.Request) { r.PageIndex = math.MaxInt / 2; r.PageSize = 1 << 10 })
	records, _, err = b.Build(context.Background(), src, huge)
	if err != nil || len(records) != 0 {
		t.Errorf("overflowing skip: records = %v, err = %v", records, err)
	}
}

func TestBuilder_Idempotent(t *testing.T) {
	b := NewBuilder(formSchema)
	src := NewMemorySource(seedForms())
	req := request(func(r *listing.Request) { r.SortColumn = "FormOwner"; r.PageIndex = 1; r.PageSize = 6 })

	first, totalA, errA := b.Build(context.Background(), src, req)
	second, totalB, errB := b.Build(context.Background(), src, req)
	if errA != nil || errB != nil {
		t.Fatalf("errors = %v, %v", errA, errB)
	}
	if totalA != totalB || !slices.Equal(first, second) {
		t.Errorf("Build() not idempotent: %v/%d vs %v/%d", first, totalA, second, totalB)
	}
}

func TestBuilder_UnsupportedSortColumn(t *testing.T) {
	b := NewBuilder(formSchema)
	src := &countingSource[form]{Source: NewMemorySource(seedForms())}

	_, _, err := b.Build(context.Background(), src, request(func(r *listing.Request) { r.SortColumn = "Nonexistent" }))
	if !errors.Is(err, ErrUnsupportedSortColumn) {
		t.Fatalf("error = %v, want ErrUnsupportedSortColumn", err)
	}
	if src.counts.Load() != 0 || src.finds.Load() != 0 {
		t.Errorf("source must not be queried for an unsupported column")
	}
}

func TestBuilder_FilterWithoutSearchField(t *testing.T) {
	plain := schema.New("plain", []schema.Field[form]{
		schema.Int("Id", "", func(f form) int { return f.ID }),
	})
	b := NewBuilder(plain)
	req := listing.Request{PageSize: 10, SortColumn: "Id", SortOrder: "ASC", FilterQuery: "x"}

	if _, err := b.Plan(req); !errors.Is(err, ErrNotSearchable) {
		t.Errorf("Plan() error = %v, want ErrNotSearchable", err)
	}
}

func TestBuilder_PropagatesSourceErrors(t *testing.T) {
	b := NewBuilder(formSchema)
	src := NewMemorySource(seedForms())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := b.Build(ctx, src, request())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

func TestPlan_TieBreakSkippedWhenSortingByIt(t *testing.T) {
	b := NewBuilder(formSchema)
	plan, err := b.Plan(request(func(r *listing.Request) { r.SortColumn = "Id"; r.SortOrder = "DESC" }))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if plan.HasTieBreak {
		t.Errorf("tie breaker should be skipped when it is the sort field")
	}
	if plan.Direction() != "DESC" {
		t.Errorf("Direction() = %q", plan.Direction())
	}
}

func TestMemorySource_ReplaceIsIsolated(t *testing.T) {
	records := seedForms()
	src := NewMemorySource(records)
	records[0].FormNumber = "mutated"

	b := NewBuilder(formSchema)
	got, _, _ := b.Build(context.Background(), src, request(func(r *listing.Request) { r.FilterQuery = "mutated" }))
	if len(got) != 0 {
		t.Errorf("source should hold its own copy")
	}

	src.Replace(records[:5])
	if src.Len() != 5 {
		t.Errorf("Len() = %d after Replace", src.Len())
	}
	src.Add(form{ID: 99, FormNumber: "ZZ-099"})
	if src.Len() != 6 {
		t.Errorf("Len() = %d after Add", src.Len())
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

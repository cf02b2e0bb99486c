package forms

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-listing-cache/listing"
	"github.com/goliatone/go-listing-cache/query"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	store := NewStore(db, WithClock(func() time.Time { return fixedNow }))
	if err := store.CreateTable(context.Background()); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	return store
}

func validInput() Input {
	return Input{
		FormNumber:        "AB-100",
		FormTitle:         "Travel request",
		FormOwnerDivision: "Finance",
		FormOwner:         "M. Chen",
		Version:           "1.0",
		ConfigurationPath: "/config/forms/ab-100.json",
	}
}

func TestInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Input)
		wantKey string
	}{
		{name: "valid", mutate: func(*Input) {}},
		{name: "missing number", mutate: func(in *Input) { in.FormNumber = "" }, wantKey: "formNumber"},
		{name: "number too long", mutate: func(in *Input) { in.FormNumber = "ABCDEFGHIJK" }, wantKey: "formNumber"},
		{name: "missing title", mutate: func(in *Input) { in.FormTitle = "" }, wantKey: "formTitle"},
		{name: "missing owner", mutate: func(in *Input) { in.FormOwner = "" }, wantKey: "formOwner"},
		{name: "missing version", mutate: func(in *Input) { in.Version = "" }, wantKey: "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			err := in.Validate()
			if tt.wantKey == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var errs validation.Errors
			if !errors.As(err, &errs) {
				t.Fatalf("expected validation.Errors, got %v", err)
			}
			if _, ok := errs[tt.wantKey]; !ok {
				t.Errorf("expected error for %s, got %v", tt.wantKey, errs)
			}
		})
	}
}

func TestPatch_Apply(t *testing.T) {
	revised := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	f := Form{ID: 1, FormNumber: "OLD", FormTitle: "Old", Version: "1"}

	columns := Patch{ID: 1, FormTitle: "New", RevisedDate: &revised}.Apply(&f)

	if f.FormNumber != "OLD" || f.FormTitle != "New" || f.Version != "1" || !f.RevisedDate.Equal(revised) {
		t.Errorf("unexpected form after patch: %+v", f)
	}
	if len(columns) != 2 || columns[0] != "form_title" || columns[1] != "revised_date" {
		t.Errorf("columns = %v", columns)
	}
}

func TestStore_CreateGetUpdateDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected generated id")
	}
	if !created.CreatedDate.Equal(fixedNow) || !created.RevisedDate.Equal(fixedNow) {
		t.Errorf("dates not stamped: %v %v", created.CreatedDate, created.RevisedDate)
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FormNumber != "AB-100" || got.ConfigurationPath != "/config/forms/ab-100.json" {
		t.Errorf("unexpected stored form: %+v", got)
	}

	updated, err := store.Update(ctx, Patch{ID: created.ID, Version: "2.0"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Version != "2.0" || updated.FormTitle != "Travel request" {
		t.Errorf("partial update changed the wrong fields: %+v", updated)
	}

	got, _ = store.Get(ctx, created.ID)
	if got.Version != "2.0" {
		t.Errorf("update not persisted: %+v", got)
	}

	deleted, err := store.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.ID != created.ID {
		t.Errorf("Delete returned %+v", deleted)
	}
	if _, err := store.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
	if _, err := store.Update(ctx, Patch{ID: 42, Version: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update: expected ErrNotFound, got %v", err)
	}
	if _, err := store.Delete(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestStore_CreateRejectsInvalidInput(t *testing.T) {
	store := newTestStore(t)

	in := validInput()
	in.FormNumber = "TOO-LONG-NUMBER"
	if _, err := store.Create(context.Background(), in); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSchema_ColumnsExist(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Insert(ctx, SampleForms(12, fixedNow)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	builder := query.NewBuilder(Schema)
	sqlSource := store.Source()

	for _, name := range Schema.Names() {
		for _, order := range listing.SortOrders {
			req := listing.Request{PageIndex: 1, PageSize: 5, SortColumn: name, SortOrder: order, FilterQuery: "FRM-000"}
			records, total, err := builder.Build(ctx, sqlSource, req)
			if err != nil {
				t.Fatalf("Build(%s %s): %v", name, order, err)
			}
			if total != 9 {
				t.Errorf("%s %s: total = %d, want 9", name, order, total)
			}
			if len(records) != 4 {
				t.Errorf("%s %s: len = %d, want 4", name, order, len(records))
			}
		}
	}
}

func TestSampleForms(t *testing.T) {
	forms := SampleForms(30, fixedNow)
	if len(forms) != 30 {
		t.Fatalf("expected 30 forms, got %d", len(forms))
	}
	for i, f := range forms {
		if f.ID != i+1 {
			t.Errorf("form %d has id %d", i, f.ID)
		}
		in := Input{
			FormNumber:        f.FormNumber,
			FormTitle:         f.FormTitle,
			FormOwnerDivision: f.FormOwnerDivision,
			FormOwner:         f.FormOwner,
			Version:           f.Version,
		}
		if err := in.Validate(); err != nil {
			t.Errorf("sample form %d is not valid input: %v", f.ID, err)
		}
	}
	if !forms[0].CreatedDate.Before(forms[29].CreatedDate) {
		t.Error("expected created dates to increase with id")
	}
}

func TestStore_Seed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inserted, err := store.Seed(ctx, 7)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if inserted != 7 {
		t.Errorf("inserted = %d, want 7", inserted)
	}

	inserted, err = store.Seed(ctx, 7)
	if err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if inserted != 0 {
		t.Errorf("second Seed inserted %d into a populated table", inserted)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 7 {
		t.Errorf("Count = %d, want 7", n)
	}

	f, err := store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if f.FormNumber != "FRM-0007" {
		t.Errorf("FormNumber = %s", f.FormNumber)
	}
}

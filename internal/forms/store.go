package forms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-listing-cache/query"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when no form has the requested id.
var ErrNotFound = errors.New("form not found")

// Store persists forms. Writes go straight to the database and do not touch
// any cached list page.
type Store struct {
	db  *bun.DB
	now func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock sets the time source used for created and revised dates.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore returns a store over db.
func NewStore(db *bun.DB, opts ...StoreOption) *Store {
	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Source returns the read side used by the list pipeline.
func (s *Store) Source() query.Source[Form] {
	return query.NewBunSource[Form](s.db)
}

// CreateTable creates the forms table if it does not exist.
func (s *Store) CreateTable(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*Form)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create forms table: %w", err)
	}
	return nil
}

// Count returns the number of stored forms.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*Form)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count forms: %w", err)
	}
	return n, nil
}

// Get returns the form with id.
func (s *Store) Get(ctx context.Context, id int) (Form, error) {
	var f Form
	err := s.db.NewSelect().Model(&f).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return Form{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Form{}, fmt.Errorf("get form %d: %w", id, err)
	}
	return f, nil
}

// Create validates in and inserts a new form.
func (s *Store) Create(ctx context.Context, in Input) (Form, error) {
	if err := in.Validate(); err != nil {
		return Form{}, err
	}

	now := s.now().UTC()
	f := Form{
		FormNumber:        in.FormNumber,
		FormTitle:         in.FormTitle,
		FormOwnerDivision: in.FormOwnerDivision,
		FormOwner:         in.FormOwner,
		Version:           in.Version,
		CreatedDate:       now,
		RevisedDate:       now,
		ConfigurationPath: in.ConfigurationPath,
	}

	if _, err := s.db.NewInsert().Model(&f).Exec(ctx); err != nil {
		return Form{}, fmt.Errorf("create form: %w", err)
	}
	return f, nil
}

// Insert stores complete records as given, ids included. It is used for
// seeding.
func (s *Store) Insert(ctx context.Context, records []Form) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := s.db.NewInsert().Model(&records).Exec(ctx); err != nil {
		return fmt.Errorf("insert forms: %w", err)
	}
	return nil
}

// Seed inserts n sample forms when the table is empty and reports how many
// were inserted.
func (s *Store) Seed(ctx context.Context, n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	existing, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}
	if err := s.Insert(ctx, SampleForms(n, s.now())); err != nil {
		return 0, err
	}
	return n, nil
}

// Update applies the set fields of p to the stored form.
func (s *Store) Update(ctx context.Context, p Patch) (Form, error) {
	if err := p.Validate(); err != nil {
		return Form{}, err
	}

	var updated Form
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var f Form
		err := tx.NewSelect().Model(&f).Where("id = ?", p.ID).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %d", ErrNotFound, p.ID)
		}
		if err != nil {
			return err
		}

		columns := p.Apply(&f)
		if len(columns) > 0 {
			if _, err := tx.NewUpdate().Model(&f).Column(columns...).WherePK().Exec(ctx); err != nil {
				return err
			}
		}
		updated = f
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Form{}, err
		}
		return Form{}, fmt.Errorf("update form %d: %w", p.ID, err)
	}
	return updated, nil
}

// Delete removes the form with id and returns it.
func (s *Store) Delete(ctx context.Context, id int) (Form, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return Form{}, err
	}
	if _, err := s.db.NewDelete().Model(&f).WherePK().Exec(ctx); err != nil {
		return Form{}, fmt.Errorf("delete form %d: %w", id, err)
	}
	return f, nil
}

// Package forms is the record type served by the listing API: the form
// catalogue entry, its list schema and its bun backed store.
package forms

import (
	"time"

	"github.com/goliatone/go-listing-cache/schema"
	"github.com/uptrace/bun"
)

// Kind names the form collection in cache keys and the schema registry.
const Kind = "forms"

// MaxFormNumberLength bounds Form.FormNumber.
const MaxFormNumberLength = 10

// Form is a catalogue entry.
type Form struct {
	bun.BaseModel `bun:"table:forms,alias:f"`

	ID                int       `bun:"id,pk,autoincrement" json:"id"`
	FormNumber        string    `bun:"form_number,notnull" json:"formNumber"`
	FormTitle         string    `bun:"form_title,notnull" json:"formTitle"`
	FormOwnerDivision string    `bun:"form_owner_division,notnull" json:"formOwnerDivision"`
	FormOwner         string    `bun:"form_owner,notnull" json:"formOwner"`
	Version           string    `bun:"version,notnull" json:"version"`
	CreatedDate       time.Time `bun:"created_date,notnull" json:"createdDate"`
	RevisedDate       time.Time `bun:"revised_date,notnull" json:"revisedDate"`
	ConfigurationPath string    `bun:"configuration_path,nullzero" json:"configurationPath"`
}

// Schema declares the sortable fields of Form. FormNumber is the filter
// target and Id breaks ties between equal sort values.
var Schema = schema.New(Kind, []schema.Field[Form]{
	schema.Int("Id", "id", func(f Form) int { return f.ID }),
	schema.String("FormNumber", "", func(f Form) string { return f.FormNumber }),
	schema.String("FormTitle", "", func(f Form) string { return f.FormTitle }),
	schema.String("FormOwnerDivision", "", func(f Form) string { return f.FormOwnerDivision }),
	schema.String("FormOwner", "", func(f Form) string { return f.FormOwner }),
	schema.String("Version", "", func(f Form) string { return f.Version }),
	schema.Time("CreatedDate", "", func(f Form) time.Time { return f.CreatedDate }),
	schema.Time("RevisedDate", "", func(f Form) time.Time { return f.RevisedDate }),
	schema.String("ConfigurationPath", "", func(f Form) string { return f.ConfigurationPath }),
}, schema.SearchOn("FormNumber"), schema.TieBreaker("Id"))

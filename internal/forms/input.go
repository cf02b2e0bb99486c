package forms

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Input is the payload of a create request.
type Input struct {
	FormNumber        string `json:"formNumber"`
	FormTitle         string `json:"formTitle"`
	FormOwnerDivision string `json:"formOwnerDivision"`
	FormOwner         string `json:"formOwner"`
	Version           string `json:"version"`
	ConfigurationPath string `json:"configurationPath"`
}

// Validate implements validation.Validatable.
func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FormNumber, validation.Required, validation.RuneLength(1, MaxFormNumberLength)),
		validation.Field(&in.FormTitle, validation.Required),
		validation.Field(&in.FormOwnerDivision, validation.Required),
		validation.Field(&in.FormOwner, validation.Required),
		validation.Field(&in.Version, validation.Required),
	)
}

// Patch is the payload of an update request. Empty strings and a nil
// RevisedDate leave the stored value unchanged.
type Patch struct {
	ID                int        `json:"id"`
	FormNumber        string     `json:"formNumber"`
	FormTitle         string     `json:"formTitle"`
	FormOwnerDivision string     `json:"formOwnerDivision"`
	FormOwner         string     `json:"formOwner"`
	Version           string     `json:"version"`
	RevisedDate       *time.Time `json:"revisedDate"`
	ConfigurationPath string     `json:"configurationPath"`
}

// Validate implements validation.Validatable.
func (p Patch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required, validation.Min(1)),
		validation.Field(&p.FormNumber, validation.RuneLength(0, MaxFormNumberLength)),
	)
}

// Apply copies the set fields of p onto f and returns the names of the
// columns that changed.
func (p Patch) Apply(f *Form) []string {
	var columns []string
	set := func(dst *string, v, column string) {
		if v == "" {
			return
		}
		*dst = v
		columns = append(columns, column)
	}

	set(&f.FormNumber, p.FormNumber, "form_number")
	set(&f.FormTitle, p.FormTitle, "form_title")
	set(&f.FormOwnerDivision, p.FormOwnerDivision, "form_owner_division")
	set(&f.FormOwner, p.FormOwner, "form_owner")
	set(&f.Version, p.Version, "version")
	set(&f.ConfigurationPath, p.ConfigurationPath, "configuration_path")

	if p.RevisedDate != nil {
		f.RevisedDate = p.RevisedDate.UTC()
		columns = append(columns, "revised_date")
	}
	return columns
}

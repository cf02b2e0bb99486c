package forms

import (
	"fmt"
	"time"
)

var (
	sampleDivisions = []string{"Finance", "Operations", "Human Resources", "Legal"}
	sampleOwners    = []string{"J. Alvarez", "M. Chen", "R. Okafor", "S. Novak", "T. Lindqvist"}
)

// SampleForms returns n deterministic forms with ids 1..n, dated backwards
// from now one day apart.
func SampleForms(n int, now time.Time) []Form {
	now = now.UTC().Truncate(time.Second)
	out := make([]Form, n)
	for i := range out {
		id := i + 1
		created := now.AddDate(0, 0, -n+i)
		out[i] = Form{
			ID:                id,
			FormNumber:        fmt.Sprintf("FRM-%04d", id),
			FormTitle:         fmt.Sprintf("Form %d", id),
			FormOwnerDivision: sampleDivisions[i%len(sampleDivisions)],
			FormOwner:         sampleOwners[i%len(sampleOwners)],
			Version:           fmt.Sprintf("%d.%d", 1+i%3, i%10),
			CreatedDate:       created,
			RevisedDate:       created.Add(time.Duration(i%24) * time.Hour),
			ConfigurationPath: fmt.Sprintf("/config/forms/%04d.json", id),
		}
	}
	return out
}

// Package schema declares the sortable and searchable fields of a record type.
//
// A Schema is built once, at configuration time, from an explicit list of typed
// field accessors. It is never mutated afterwards and is safe for concurrent use.
// Listing code uses it two ways:
//
//   - as a set of public field names, to check a client supplied sort column
//   - as a closed table of comparators and storage columns, so a validated name
//     selects an accessor instead of being spliced into a query expression
//
// # Declaring a schema
//
//	var Forms = schema.New("forms",
//		[]schema.Field[Form]{
//			schema.Int("Id", "", func(f Form) int { return f.ID }),
//			schema.String("FormNumber", "", func(f Form) string { return f.FormNumber }),
//			schema.Time("CreatedDate", "", func(f Form) time.Time { return f.CreatedDate }),
//		},
//		schema.SearchOn("FormNumber"),
//		schema.TieBreaker("Id"),
//	)
//
// An empty column argument derives the storage column from the field name in
// snake_case ("FormNumber" becomes "form_number").
//
// Field names are matched exactly; "formnumber" is not "FormNumber".
//
// # Registry
//
// A Registry maps a kind ("forms") to its field set for code that only needs
// membership tests and does not know the record type.
package schema

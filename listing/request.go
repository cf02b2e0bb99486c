package listing

import (
	"net/url"
	"strconv"
)

// Sort orders accepted by Validate. Matching is case-sensitive.
const (
	SortAscending  = "ASC"
	SortDescending = "DESC"
)

// SortOrders lists the accepted sort orders.
var SortOrders = []string{SortAscending, SortDescending}

// Query parameter names read by QueryFromValues.
const (
	ParamPageIndex   = "pageIndex"
	ParamPageSize    = "pageSize"
	ParamSortColumn  = "sortColumn"
	ParamSortOrder   = "sortOrder"
	ParamFilterQuery = "filterQuery"
)

// Param is a raw request parameter. Set distinguishes an absent parameter,
// which takes the default, from an empty one.
type Param struct {
	Value string
	Set   bool
}

// Value returns a present parameter.
func Value(v string) Param {
	return Param{Value: v, Set: true}
}

// Query is an unvalidated list request as received from a client.
type Query struct {
	PageIndex   Param
	PageSize    Param
	SortColumn  Param
	SortOrder   Param
	FilterQuery Param
}

// QueryFromValues reads a Query from URL query parameters. Only the first value
// of a repeated parameter is used.
func QueryFromValues(values url.Values) Query {
	get := func(name string) Param {
		v, ok := values[name]
		if !ok || len(v) == 0 {
			return Param{}
		}
		return Value(v[0])
	}

	return Query{
		PageIndex:   get(ParamPageIndex),
		PageSize:    get(ParamPageSize),
		SortColumn:  get(ParamSortColumn),
		SortOrder:   get(ParamSortOrder),
		FilterQuery: get(ParamFilterQuery),
	}
}

// Request is a normalized list request: defaults applied and every constraint
// checked against the target schema.
type Request struct {
	PageIndex   int    `json:"pageIndex"`
	PageSize    int    `json:"pageSize"`
	SortColumn  string `json:"sortColumn"`
	SortOrder   string `json:"sortOrder"`
	FilterQuery string `json:"filterQuery"`
}

// Descending reports whether the request sorts in descending order.
func (r Request) Descending() bool {
	return r.SortOrder == SortDescending
}

// Skip is the number of matching records before the requested page.
func (r Request) Skip() int {
	return r.PageIndex * r.PageSize
}

// Values encodes the request back into query parameters.
func (r Request) Values() url.Values {
	v := url.Values{}
	v.Set(ParamPageIndex, strconv.Itoa(r.PageIndex))
	v.Set(ParamPageSize, strconv.Itoa(r.PageSize))
	v.Set(ParamSortColumn, r.SortColumn)
	v.Set(ParamSortOrder, r.SortOrder)
	if r.FilterQuery != "" {
		v.Set(ParamFilterQuery, r.FilterQuery)
	}
	return v
}

// Defaults holds the values used for absent parameters and the optional page
// size ceiling.
type Defaults struct {
	PageIndex  int
	PageSize   int
	SortColumn string
	SortOrder  string
	// MaxPageSize caps the page size when greater than zero.
	MaxPageSize int
}

// DefaultDefaults returns the reference defaults: first page of ten records
// sorted ascending by FormNumber.
func DefaultDefaults() Defaults {
	return Defaults{
		PageIndex:  0,
		PageSize:   10,
		SortColumn: "FormNumber",
		SortOrder:  SortAscending,
	}
}

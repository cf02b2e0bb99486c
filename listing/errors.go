package listing

import (
	"fmt"
	"slices"
	"strings"
)

// Kind classifies a validation failure so callers can choose a response per
// class.
type Kind string

const (
	// KindPaging covers malformed or out of range page index and page size.
	KindPaging Kind = "paging"
	// KindSortColumn is a sort column that is not part of the schema.
	KindSortColumn Kind = "sort_column"
	// KindSortOrder is a sort order outside SortOrders.
	KindSortOrder Kind = "sort_order"
)

// precedence orders kinds when several parameters fail at once.
var precedence = []Kind{KindPaging, KindSortColumn, KindSortOrder}

var paramKinds = map[string]Kind{
	ParamPageIndex:  KindPaging,
	ParamPageSize:   KindPaging,
	ParamSortColumn: KindSortColumn,
	ParamSortOrder:  KindSortOrder,
}

// ValidationError reports why a list request was rejected.
type ValidationError struct {
	// Kind is the class of the most significant failure.
	Kind Kind
	// Fields maps each failing parameter to its message.
	Fields map[string]string
	// Allowed lists the accepted values for sort column and sort order
	// failures, keyed by parameter name.
	Allowed map[string][]string
}

func (e *ValidationError) Error() string {
	params := make([]string, 0, len(e.Fields))
	for p := range e.Fields {
		params = append(params, p)
	}
	slices.Sort(params)

	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p + ": " + e.Fields[p]
	}
	return fmt.Sprintf("invalid list request (%s): %s", e.Kind, strings.Join(parts, "; "))
}

// Is lets errors.Is match on a bare *ValidationError of the same kind, e.g.
// errors.Is(err, &ValidationError{Kind: KindPaging}).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Kind == "" || t.Kind == e.Kind
}

func (e *ValidationError) add(param, message string, allowed []string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[param]; !exists {
		e.Fields[param] = message
	}
	if allowed != nil {
		if e.Allowed == nil {
			e.Allowed = map[string][]string{}
		}
		e.Allowed[param] = slices.Clone(allowed)
	}
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) classify() {
	for _, k := range precedence {
		for p := range e.Fields {
			if paramKinds[p] == k {
				e.Kind = k
				return
			}
		}
	}
}

package listing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-listing-cache/schema"
)

// Validate turns a raw query into a normalized Request. Absent parameters take
// their value from d. The result is a pure function of its inputs.
//
// On failure the error is a *ValidationError; no partially normalized request
// is returned.
func Validate(q Query, fields schema.FieldSet, d Defaults) (Request, error) {
	verr := &ValidationError{}
	req := Request{
		PageIndex:  d.PageIndex,
		PageSize:   d.PageSize,
		SortColumn: d.SortColumn,
		SortOrder:  d.SortOrder,
	}

	if q.PageIndex.Set {
		if n, ok := parseInt(q.PageIndex.Value); ok {
			req.PageIndex = n
		} else {
			verr.add(ParamPageIndex, fmt.Sprintf("the value '%s' is not a valid integer", q.PageIndex.Value), nil)
		}
	}
	if q.PageSize.Set {
		if n, ok := parseInt(q.PageSize.Value); ok {
			req.PageSize = n
		} else {
			verr.add(ParamPageSize, fmt.Sprintf("the value '%s' is not a valid integer", q.PageSize.Value), nil)
		}
	}
	if q.SortColumn.Set {
		req.SortColumn = q.SortColumn.Value
	}
	if q.SortOrder.Set {
		req.SortOrder = q.SortOrder.Value
	}
	if q.FilterQuery.Set {
		req.FilterQuery = q.FilterQuery.Value
	}

	if err := req.Validate(fields, d.MaxPageSize); err != nil {
		var rerr *ValidationError
		if !errors.As(err, &rerr) {
			return Request{}, err
		}
		for p, msg := range rerr.Fields {
			verr.add(p, msg, rerr.Allowed[p])
		}
	}

	if !verr.empty() {
		verr.classify()
		return Request{}, verr
	}
	return req, nil
}

// Validate checks an already built request against fields. maxPageSize caps
// the page size when greater than zero.
func (r Request) Validate(fields schema.FieldSet, maxPageSize int) error {
	columns := fields.Names()
	columnMsg := "must be a valid column name, one of: " + strings.Join(columns, ", ")
	orderMsg := "must be one of the following: " + strings.Join(SortOrders, ", ")

	pageSize := []validation.Rule{
		validation.Required.Error("must be greater than zero"),
		validation.Min(1).Error("must be greater than zero"),
	}
	if maxPageSize > 0 {
		pageSize = append(pageSize, validation.Max(maxPageSize).Error(fmt.Sprintf("must be no greater than %d", maxPageSize)))
	}

	err := validation.ValidateStruct(&r,
		validation.Field(&r.PageIndex, validation.Min(0).Error("must be zero or greater")),
		validation.Field(&r.PageSize, pageSize...),
		validation.Field(&r.SortColumn,
			validation.Required.Error(columnMsg),
			validation.In(toAny(columns)...).Error(columnMsg),
		),
		validation.Field(&r.SortOrder,
			validation.Required.Error(orderMsg),
			validation.In(toAny(SortOrders)...).Error(orderMsg),
		),
	)
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return fmt.Errorf("listing: validate request: %w", err)
	}

	verr := &ValidationError{}
	for param, fieldErr := range errs {
		var allowed []string
		switch param {
		case ParamSortColumn:
			allowed = columns
		case ParamSortOrder:
			allowed = SortOrders
		}
		verr.add(param, fieldErr.Error(), allowed)
	}
	verr.classify()
	return verr
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

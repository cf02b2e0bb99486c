// Package envelope shapes a computed page into the response returned to
// clients.
package envelope

import (
	"slices"

	"github.com/goliatone/go-listing-cache/listing"
)

const (
	RelSelf   = "self"
	MethodGet = "GET"
)

// Link is a hypermedia reference attached to a page.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// Page is the response body of a list request.
type Page[T any] struct {
	Data        []T    `json:"data"`
	PageIndex   int    `json:"pageIndex"`
	PageSize    int    `json:"pageSize"`
	RecordCount int    `json:"recordCount"`
	Links       []Link `json:"links"`
}

// LinkBuilder renders the address of the page at pageIndex/pageSize.
type LinkBuilder func(pageIndex, pageSize int) string

// Assemble wraps records in a Page. The records slice is copied, so callers
// may hand in a slice that is shared through the cache. A nil self builder
// yields a page without links.
func Assemble[T any](records []T, req listing.Request, total int, self LinkBuilder) Page[T] {
	data := slices.Clone(records)
	if data == nil {
		data = []T{}
	}

	links := []Link{}
	if self != nil {
		links = append(links, Link{
			Href:   self(req.PageIndex, req.PageSize),
			Rel:    RelSelf,
			Method: MethodGet,
		})
	}

	return Page[T]{
		Data:        data,
		PageIndex:   req.PageIndex,
		PageSize:    req.PageSize,
		RecordCount: total,
		Links:       links,
	}
}

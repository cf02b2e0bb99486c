package envelope

import (
	"net/url"
	"strconv"

	"github.com/goliatone/go-listing-cache/listing"
)

// QueryLink returns a LinkBuilder that points at base with the request's
// parameters, pageIndex and pageSize replaced by the builder arguments.
func QueryLink(base string, req listing.Request) LinkBuilder {
	return func(pageIndex, pageSize int) string {
		values := req.Values()
		values.Set(listing.ParamPageIndex, strconv.Itoa(pageIndex))
		values.Set(listing.ParamPageSize, strconv.Itoa(pageSize))

		u, err := url.Parse(base)
		if err != nil {
			return base + "?" + values.Encode()
		}
		u.RawQuery = values.Encode()
		return u.String()
	}
}

// URLLink returns a LinkBuilder that keeps every parameter of u and replaces
// pageIndex and pageSize.
func URLLink(u *url.URL) LinkBuilder {
	return func(pageIndex, pageSize int) string {
		ref := *u
		values := ref.Query()
		values.Set(listing.ParamPageIndex, strconv.Itoa(pageIndex))
		values.Set(listing.ParamPageSize, strconv.Itoa(pageSize))
		ref.RawQuery = values.Encode()
		return ref.String()
	}
}

package envelope

// Resource is the response body of a single record operation.
type Resource[T any] struct {
	Data  T      `json:"data"`
	Links []Link `json:"links"`
}

// Single wraps one record with a link to it using method.
func Single[T any](data T, href, method string) Resource[T] {
	return Resource[T]{
		Data:  data,
		Links: []Link{{Href: href, Rel: RelSelf, Method: method}},
	}
}

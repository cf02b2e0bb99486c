package repositorycache

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-listing-cache/cache"
	"github.com/goliatone/go-listing-cache/envelope"
	"github.com/goliatone/go-listing-cache/listing"
	"github.com/goliatone/go-listing-cache/query"
	"github.com/goliatone/go-listing-cache/schema"
	"github.com/rs/zerolog"
)

// listResult is the cached value of one list request. It is never mutated
// after it is stored.
type listResult[T any] struct {
	Records []T `json:"records"`
	Total   int `json:"total"`
}

// Option configures a CachedLister.
type Option func(*options)

type options struct {
	logger   zerolog.Logger
	defaults listing.Defaults
}

// WithLogger sets the logger used for cache misses and fetch failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDefaults overrides the values used for absent request parameters.
func WithDefaults(d listing.Defaults) Option {
	return func(o *options) {
		o.defaults = d
	}
}

// CachedLister answers list requests for one record type: it validates the
// request, serves the page from cache when a live entry exists and otherwise
// builds it against the source.
type CachedLister[T any] struct {
	schema        *schema.Schema[T]
	builder       *query.Builder[T]
	source        query.Source[T]
	cache         cache.CacheService
	keySerializer cache.KeySerializer
	defaults      listing.Defaults
	logger        zerolog.Logger
}

// New creates a CachedLister over source. The cache service is shared and
// owned by the caller.
func New[T any](s *schema.Schema[T], source query.Source[T], cacheService cache.CacheService, keySerializer cache.KeySerializer, opts ...Option) *CachedLister[T] {
	o := options{
		logger:   zerolog.Nop(),
		defaults: listing.DefaultDefaults(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &CachedLister[T]{
		schema:        s,
		builder:       query.NewBuilder(s),
		source:        source,
		cache:         cacheService,
		keySerializer: keySerializer,
		defaults:      o.defaults,
		logger:        o.logger.With().Str("kind", s.Kind()).Logger(),
	}
}

// Schema returns the schema the lister validates against.
func (c *CachedLister[T]) Schema() *schema.Schema[T] {
	return c.schema
}

// Defaults returns the values applied to absent parameters.
func (c *CachedLister[T]) Defaults() listing.Defaults {
	return c.defaults
}

// List validates q and returns the requested page. A validation failure is a
// *listing.ValidationError and leaves both cache and source untouched.
func (c *CachedLister[T]) List(ctx context.Context, q listing.Query, self envelope.LinkBuilder) (envelope.Page[T], error) {
	req, err := listing.Validate(q, c.schema, c.defaults)
	if err != nil {
		return envelope.Page[T]{}, err
	}
	return c.list(ctx, req, self)
}

// ListRequest serves an already built request. The request is checked again
// since it did not come through Validate.
func (c *CachedLister[T]) ListRequest(ctx context.Context, req listing.Request, self envelope.LinkBuilder) (envelope.Page[T], error) {
	if err := req.Validate(c.schema, c.defaults.MaxPageSize); err != nil {
		return envelope.Page[T]{}, err
	}
	return c.list(ctx, req, self)
}

func (c *CachedLister[T]) list(ctx context.Context, req listing.Request, self envelope.LinkBuilder) (envelope.Page[T], error) {
	key := c.keySerializer.SerializeKey(c.keyPrefix(), req)

	res, err := cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (listResult[T], error) {
		c.logger.Debug().Str("key", key).Msg("cache miss")

		records, total, err := c.builder.Build(ctx, c.source, req)
		if err != nil {
			return listResult[T]{}, err
		}
		return listResult[T]{Records: records, Total: total}, nil
	})
	if err != nil {
		c.logFetchError(key, err)
		return envelope.Page[T]{}, fmt.Errorf("list %s: %w", c.schema.Kind(), err)
	}

	return envelope.Assemble(res.Records, req, res.Total, self), nil
}

// Purge drops every page this lister has cached.
func (c *CachedLister[T]) Purge(ctx context.Context) error {
	return c.cache.DeleteByPrefix(ctx, c.keyPrefix()+cache.KeySeparator)
}

// CachedPages reports how many pages of this lister the cache currently
// holds. Expired pages count until the cache sweeps them.
func (c *CachedLister[T]) CachedPages(ctx context.Context) (int, error) {
	return c.cache.CountByPrefix(ctx, c.keyPrefix()+cache.KeySeparator)
}

func (c *CachedLister[T]) keyPrefix() string {
	return c.schema.Kind() + cache.KeySeparator + "List"
}

func (c *CachedLister[T]) logFetchError(key string, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		c.logger.Debug().Str("key", key).Err(err).Msg("list fetch abandoned")
		return
	}
	c.logger.Error().Str("key", key).Err(err).Msg("list fetch failed")
}

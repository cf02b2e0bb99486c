package di

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-listing-cache/cache"
	"github.com/goliatone/go-listing-cache/listing"
	"github.com/goliatone/go-listing-cache/query"
	"github.com/goliatone/go-listing-cache/repositorycache"
	"github.com/goliatone/go-listing-cache/schema"
	"github.com/rs/zerolog"
)

// ErrDuplicateKind is returned when two listers are registered for the same
// record kind.
var ErrDuplicateKind = errors.New("di: kind already registered")

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger handed to every lister.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// WithDefaults sets the list defaults handed to every lister.
func WithDefaults(d listing.Defaults) Option {
	return func(c *Container) {
		c.defaults = d
	}
}

// WithKeySerializer replaces the default key serializer.
func WithKeySerializer(s cache.KeySerializer) Option {
	return func(c *Container) {
		c.keySerializer = s
	}
}

// Container owns the process cache and builds listers that share it.
// It is created at service start and closed at shutdown.
type Container struct {
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	config        cache.Config
	logger        zerolog.Logger
	defaults      listing.Defaults

	mu   sync.Mutex
	sets []schema.FieldSet
}

// NewContainer validates config and creates the cache service.
func NewContainer(config cache.Config, opts ...Option) (*Container, error) {
	cacheService, err := cache.NewCacheService(config)
	if err != nil {
		return nil, err
	}

	c := &Container{
		cacheService:  cacheService,
		keySerializer: cache.NewDefaultKeySerializer(),
		config:        config,
		logger:        zerolog.Nop(),
		defaults:      listing.DefaultDefaults(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewContainerWithDefaults creates a container using cache.DefaultConfig.
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), opts...)
}

// CacheService returns the shared cache service.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the shared key serializer.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Config returns the cache configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}

// Defaults returns the list defaults handed to listers.
func (c *Container) Defaults() listing.Defaults {
	return c.defaults
}

// Registry returns the field sets of every registered kind.
func (c *Container) Registry() *schema.Registry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return schema.NewRegistry(c.sets...)
}

// Close releases the cache. Listers created by the container fail afterwards.
func (c *Container) Close() error {
	return c.cacheService.Close()
}

func (c *Container) register(set schema.FieldSet) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.sets {
		if existing.Kind() == set.Kind() {
			return fmt.Errorf("%w: %s", ErrDuplicateKind, set.Kind())
		}
	}
	c.sets = append(c.sets, set)
	return nil
}

// NewCachedLister registers s and returns a lister over source backed by the
// container's cache.
//
// Since Go methods cannot have type parameters, this is provided as a package-level function.
func NewCachedLister[T any](c *Container, s *schema.Schema[T], source query.Source[T]) (*repositorycache.CachedLister[T], error) {
	if err := c.register(s); err != nil {
		return nil, err
	}
	return repositorycache.New(s, source, c.cacheService, c.keySerializer,
		repositorycache.WithLogger(c.logger),
		repositorycache.WithDefaults(c.defaults),
	), nil
}

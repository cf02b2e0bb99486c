package cacheinfra

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/viccon/sturdyc"
)

// ErrClosed is returned by every operation on a service after Close.
var ErrClosed = errors.New("cache service closed")

// Config holds the configuration for the sturdyc cache adapter. Entries
// expire on TTL only: no background refreshes and no negative caching.
type Config struct {
	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0 and at least NumShards.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Must be greater than 0. Default: 16
	NumShards int

	// TTL is how long a computed page is served before it is recomputed.
	// Must be greater than 0. Default: 30s
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when a shard reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the sturdyc default.
	EvictionInterval time.Duration

	// Clock overrides the time source. Tests use sturdyc.NewTestClock.
	Clock sturdyc.Clock
}

// DefaultConfig returns the configuration used by the listing service:
// a 30 second staleness window.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          16,
		TTL:                30 * time.Second,
		EvictionPercentage: 10,
	}
}

// ToSturdycOptions converts the optional parts of Config to sturdyc options.
// Capacity, NumShards, TTL and EvictionPercentage are constructor arguments.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	if c.Clock != nil {
		options = append(options, sturdyc.WithClock(c.Clock))
	}

	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.Capacity < c.NumShards {
		return &ConfigError{Field: "NumShards", Message: "must not exceed Capacity"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// SturdycService wraps a sturdyc client. Concurrent GetOrFetch calls for the
// same key share one fetch, and a fetch that fails is not stored.
type SturdycService struct {
	client *sturdyc.Client[any]
	closed atomic.Bool
}

// NewSturdycService validates cfg and creates the sturdyc client.
func NewSturdycService(cfg Config) (*SturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		storedTTL(cfg.TTL),
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &SturdycService{client: client}, nil
}

// storedTTL converts ttl into the lifetime handed to sturdyc. sturdyc keeps
// serving an entry while now <= expiresAt; one clock tick less makes an entry
// live only while now < written + ttl.
func storedTTL(ttl time.Duration) time.Duration {
	if ttl > time.Nanosecond {
		return ttl - time.Nanosecond
	}
	return ttl
}

// GetOrFetch returns the live entry for key or runs fetchFn and stores its
// result.
func (s *SturdycService) GetOrFetch(ctx context.Context, key string, fetchFn func(context.Context) (any, error)) (any, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.client.GetOrFetch(ctx, key, sturdyc.FetchFn[any](fetchFn))
}

// Delete removes a single entry.
func (s *SturdycService) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.client.Delete(key)
	return nil
}

// DeleteByPrefix removes every entry whose key starts with prefix.
func (s *SturdycService) DeleteByPrefix(ctx context.Context, prefix string) error {
	if s.closed.Load() {
		return ErrClosed
	}

	for _, key := range s.client.ScanKeys() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}

	return nil
}

// CountByPrefix reports how many stored entries have a key starting with
// prefix.
func (s *SturdycService) CountByPrefix(ctx context.Context, prefix string) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}

	n := 0
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n, ctx.Err()
}

// Size reports the number of stored entries, expired ones included until
// the next eviction pass.
func (s *SturdycService) Size() int {
	return s.client.Size()
}

// Close drops every entry and rejects further use. It is safe to call more
// than once.
func (s *SturdycService) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	for _, key := range s.client.ScanKeys() {
		s.client.Delete(key)
	}
	return nil
}

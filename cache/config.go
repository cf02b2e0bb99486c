package cache

import (
	"time"

	"github.com/goliatone/go-listing-cache/internal/cacheinfra"
	"github.com/viccon/sturdyc"
)

// ErrClosed is returned by a CacheService created with NewCacheService once
// it has been closed.
var ErrClosed = cacheinfra.ErrClosed

// DefaultTTL is the staleness window of a cached page.
const DefaultTTL = 30 * time.Second

// Config describes how a CacheService is configured. Entries expire on TTL
// only and are live while now < written + TTL.
type Config struct {
	// Capacity bounds the number of stored pages across all shards.
	Capacity  int
	NumShards int
	TTL       time.Duration
	// EvictionPercentage is the share of a full shard dropped to make room.
	EvictionPercentage int
	// EvictionInterval is how often expired entries are swept; zero keeps
	// the sturdyc default.
	EvictionInterval time.Duration

	// Clock replaces the wall clock, mainly for TTL tests.
	Clock sturdyc.Clock
}

// DefaultConfig returns the settings the listing service runs with.
func DefaultConfig() Config {
	d := cacheinfra.DefaultConfig()
	return Config{
		Capacity:           d.Capacity,
		NumShards:          d.NumShards,
		TTL:                DefaultTTL,
		EvictionPercentage: d.EvictionPercentage,
	}
}

// Validate reports the first invalid setting as a *cacheinfra.ConfigError.
func (c Config) Validate() error {
	return c.adapterConfig().Validate()
}

// NewCacheService creates the sturdyc backed CacheService.
func NewCacheService(cfg Config) (CacheService, error) {
	svc, err := cacheinfra.NewSturdycService(cfg.adapterConfig())
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (c Config) adapterConfig() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
		Clock:              c.Clock,
	}
}

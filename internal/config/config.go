// Package config loads the service configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-listing-cache/cache"
	"github.com/goliatone/go-listing-cache/listing"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// LISTING_CACHE_TTL=45s.
const EnvPrefix = "LISTING"

// Database drivers accepted in database.driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type AppConfig struct {
	Env             string        `mapstructure:"env" json:"env"`
	Addr            string        `mapstructure:"addr" json:"addr"`
	BaseURL         string        `mapstructure:"base_url" json:"base_url"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" json:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" json:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver         string        `mapstructure:"driver" json:"driver"`
	DSN            string        `mapstructure:"dsn" json:"dsn"`
	MaxOpenConns   int           `mapstructure:"max_open_conns" json:"max_open_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" json:"connect_timeout"`
	// Seed inserts that many sample forms into an empty table at startup.
	Seed int `mapstructure:"seed" json:"seed"`
}

type CacheConfig struct {
	TTL                time.Duration `mapstructure:"ttl" json:"ttl"`
	Capacity           int           `mapstructure:"capacity" json:"capacity"`
	Shards             int           `mapstructure:"shards" json:"shards"`
	EvictionPercentage int           `mapstructure:"eviction_percentage" json:"eviction_percentage"`
	EvictionInterval   time.Duration `mapstructure:"eviction_interval" json:"eviction_interval"`
}

type ListingConfig struct {
	DefaultPageSize   int    `mapstructure:"default_page_size" json:"default_page_size"`
	MaxPageSize       int    `mapstructure:"max_page_size" json:"max_page_size"`
	DefaultSortColumn string `mapstructure:"default_sort_column" json:"default_sort_column"`
	DefaultSortOrder  string `mapstructure:"default_sort_order" json:"default_sort_order"`
	// LegacyPagingStatus answers malformed paging with 501 instead of 400.
	LegacyPagingStatus bool `mapstructure:"legacy_paging_status" json:"legacy_paging_status"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

// Config is the service configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app" json:"app"`
	Database DatabaseConfig `mapstructure:"database" json:"database"`
	Cache    CacheConfig    `mapstructure:"cache" json:"cache"`
	Listing  ListingConfig  `mapstructure:"listing" json:"listing"`
	Log      LogConfig      `mapstructure:"log" json:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.addr", ":8080")
	v.SetDefault("app.base_url", "")
	v.SetDefault("app.read_timeout", 15*time.Second)
	v.SetDefault("app.write_timeout", 30*time.Second)
	v.SetDefault("app.idle_timeout", 60*time.Second)
	v.SetDefault("app.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "file:forms.db?cache=shared")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.connect_timeout", 30*time.Second)
	v.SetDefault("database.seed", 0)

	def := cache.DefaultConfig()
	v.SetDefault("cache.ttl", def.TTL)
	v.SetDefault("cache.capacity", def.Capacity)
	v.SetDefault("cache.shards", def.NumShards)
	v.SetDefault("cache.eviction_percentage", def.EvictionPercentage)
	v.SetDefault("cache.eviction_interval", time.Duration(0))

	ld := listing.DefaultDefaults()
	v.SetDefault("listing.default_page_size", ld.PageSize)
	v.SetDefault("listing.max_page_size", 0)
	v.SetDefault("listing.default_sort_column", ld.SortColumn)
	v.SetDefault("listing.default_sort_order", ld.SortOrder)
	v.SetDefault("listing.legacy_paging_status", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads configuration from defaults, the optional YAML file at path and
// LISTING_ prefixed environment variables, in increasing precedence. Each
// envFile is loaded into the process environment first; with no envFiles an
// optional .env in the working directory is used.
func Load(path string, envFiles ...string) (Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// Validate implements validation.Validatable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.App),
		validation.Field(&c.Database),
		validation.Field(&c.Cache),
		validation.Field(&c.Listing),
		validation.Field(&c.Log),
	)
}

func (c AppConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.ShutdownTimeout, validation.Required),
	)
}

func (c DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DSN, validation.Required),
		validation.Field(&c.MaxOpenConns, validation.Min(0)),
		validation.Field(&c.Seed, validation.Min(0)),
	)
}

func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.Shards, validation.Required, validation.Min(1), validation.Max(c.Capacity)),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
	)
}

func (c ListingConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DefaultPageSize, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxPageSize, validation.Min(0), validation.When(c.MaxPageSize > 0, validation.Min(c.DefaultPageSize))),
		validation.Field(&c.DefaultSortColumn, validation.Required),
		validation.Field(&c.DefaultSortOrder, validation.Required, validation.In(listing.SortAscending, listing.SortDescending)),
	)
}

func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required, validation.In("trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled")),
		validation.Field(&c.Format, validation.Required, validation.In("console", "json")),
	)
}

// CacheService converts the cache section to a cache.Config.
func (c CacheConfig) CacheService() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.TTL = c.TTL
	cfg.Capacity = c.Capacity
	cfg.NumShards = c.Shards
	cfg.EvictionPercentage = c.EvictionPercentage
	cfg.EvictionInterval = c.EvictionInterval
	return cfg
}

// Defaults converts the listing section to list defaults.
func (c ListingConfig) Defaults() listing.Defaults {
	return listing.Defaults{
		PageIndex:   0,
		PageSize:    c.DefaultPageSize,
		SortColumn:  c.DefaultSortColumn,
		SortOrder:   c.DefaultSortOrder,
		MaxPageSize: c.MaxPageSize,
	}
}

// Development reports whether the service runs in a development environment.
func (c AppConfig) Development() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "local"
}

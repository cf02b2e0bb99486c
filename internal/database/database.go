// Package database opens the bun handle used by the forms store.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goliatone/go-listing-cache/internal/config"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

// Open connects to the configured database and waits for it to answer a
// ping, retrying with exponential backoff for up to cfg.ConnectTimeout.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*bun.DB, error) {
	driver, dialect, err := driverFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	sqldb, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	db := bun.NewDB(sqldb, dialect)
	if err := ping(ctx, db, cfg.ConnectTimeout, logger); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func driverFor(name string) (string, schema.Dialect, error) {
	switch name {
	case config.DriverSQLite:
		return "sqlite3", sqlitedialect.New(), nil
	case config.DriverPostgres:
		return "postgres", pgdialect.New(), nil
	default:
		return "", nil, fmt.Errorf("unsupported database driver %q", name)
	}
}

func ping(ctx context.Context, db *bun.DB, timeout time.Duration, logger zerolog.Logger) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = timeout

	attempt := 0
	op := func() error {
		attempt++
		return db.PingContext(ctx)
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", wait).Msg("database not ready")
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return fmt.Errorf("ping database after %d attempts: %w", attempt, err)
	}
	return nil
}

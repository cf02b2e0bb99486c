// Command formsapi serves the forms catalogue with cached, validated listing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/goliatone/go-listing-cache/internal/config"
	"github.com/goliatone/go-listing-cache/internal/database"
	"github.com/goliatone/go-listing-cache/internal/forms"
	"github.com/goliatone/go-listing-cache/internal/httpapi"
	"github.com/goliatone/go-listing-cache/internal/logging"
	"github.com/goliatone/go-listing-cache/pkg/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("formsapi stopped")
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("formsapi", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	envFile := fs.String("env-file", "", "path to a .env file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(*configPath, envFiles...)
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	store := forms.NewStore(db)
	if err := store.CreateTable(ctx); err != nil {
		return err
	}
	seeded, err := store.Seed(ctx, cfg.Database.Seed)
	if err != nil {
		return err
	}
	if seeded > 0 {
		logger.Info().Int("count", seeded).Msg("seeded sample forms")
	}

	container, err := di.NewContainer(cfg.Cache.CacheService(),
		di.WithLogger(logger),
		di.WithDefaults(cfg.Listing.Defaults()),
	)
	if err != nil {
		return err
	}
	defer container.Close()

	lister, err := di.NewCachedLister(container, forms.Schema, store.Source())
	if err != nil {
		return err
	}

	router, err := httpapi.NewRouter(httpapi.RouterDependencies{
		Lister:             lister,
		Store:              store,
		Registry:           container.Registry(),
		Logger:             logger,
		BaseURL:            cfg.App.BaseURL,
		LegacyPagingStatus: cfg.Listing.LegacyPagingStatus,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.App.Addr,
		Handler:      router,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.App.Addr).Dur("cache_ttl", cfg.Cache.TTL).Msg("forms API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/Veraticus/four-pillars/internal/config"
	"github.com/Veraticus/four-pillars/internal/engine"
	"github.com/Veraticus/four-pillars/internal/geocode"
	"github.com/Veraticus/four-pillars/internal/service"
	"github.com/Veraticus/four-pillars/internal/storage"
)

// initStorage opens the database at the configured path and migrates it.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newGeocoder composes the place lookup chain backed by the persistent cache.
func newGeocoder(cfg *config.Config, cache service.PlaceCache) (*geocode.Service, error) {
	gazetteer, err := geocode.NewGazetteer()
	if err != nil {
		return nil, err
	}

	var remote service.Geocoder
	if !cfg.Offline {
		remote = geocode.NewNominatimClient(cfg.GeocoderURL, cfg.GeocoderAgent, cfg.GeocoderTimeout,
			geocode.WithRetryOptions(service.RetryOptions{MaxAttempts: cfg.GeocoderRetries}))
	}
	return geocode.NewService(cache, gazetteer, remote, cfg.Offline), nil
}

// app bundles what the classifying commands need.
type app struct {
	cfg    *config.Config
	store  *storage.SQLiteStorage
	engine *engine.ClassificationEngine
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	geocoder, err := newGeocoder(cfg, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &app{
		cfg:    cfg,
		store:  store,
		engine: engine.New(geocoder, engine.WithHistory(store)),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
}

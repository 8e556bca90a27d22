package main

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/dictionary-api/internal/cache"
	"github.com/at-ishikawa/dictionary-api/internal/config"
	"github.com/at-ishikawa/dictionary-api/internal/database"
	"github.com/at-ishikawa/dictionary-api/internal/dictionary"
	"github.com/at-ishikawa/dictionary-api/internal/dictionary/rapidapi"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cacheBackend != "" {
		cfg.Cache.Backend = cacheBackend.String()
	}
	return cfg, nil
}

func openDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	return db, nil
}

// newLookupCache wires the provider client to the configured cache store.
// The caller closes the returned store.
func newLookupCache(cfg *config.Config, opts ...dictionary.LookupOption) (*dictionary.LookupCache, cache.Store, error) {
	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("cache.NewStore() > %w", err)
	}
	logger := slog.Default()
	client := rapidapi.NewClient(cfg.Dictionaries.RapidAPI, rapidapi.WithLogger(logger))
	memoizer := cache.NewMemoizer(store, cache.WithLogger(logger))
	lookups := dictionary.NewLookupCache(client, memoizer, dictionary.LookupConfig{
		KeyPrefix: cfg.Cache.KeyPrefix,
		TTL:       cfg.Cache.LookupTTL,
	}, append([]dictionary.LookupOption{dictionary.WithLookupLogger(logger)}, opts...)...)
	return lookups, store, nil
}

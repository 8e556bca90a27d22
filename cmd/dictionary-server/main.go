package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/dictionary-api/internal/auth"
	"github.com/at-ishikawa/dictionary-api/internal/bootstrap"
	"github.com/at-ishikawa/dictionary-api/internal/cache"
	"github.com/at-ishikawa/dictionary-api/internal/config"
	"github.com/at-ishikawa/dictionary-api/internal/database"
	"github.com/at-ishikawa/dictionary-api/internal/dictionary"
	"github.com/at-ishikawa/dictionary-api/internal/dictionary/rapidapi"
	"github.com/at-ishikawa/dictionary-api/internal/logging"
	"github.com/at-ishikawa/dictionary-api/internal/metrics"
	"github.com/at-ishikawa/dictionary-api/internal/recorder"
	"github.com/at-ishikawa/dictionary-api/internal/server"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:           "dictionary-server",
		Short:         "Serve the dictionary API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", os.Getenv("DICTIONARY_CONFIG"), "config file path")
	return cmd
}

func loadConfig(configFile string) (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

func run(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logging.New() > %w", err)
	}
	slog.SetDefault(logger)

	app := bootstrap.New(bootstrap.WithLogger(logger), bootstrap.WithShutdownTimeout(cfg.Server.ShutdownTimeout))

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("database.Open() > %w", err)
	}
	app.AddCloser("database", db)

	store, err := cache.OpenStore(cfg.Cache, logger)
	if err != nil {
		_ = app.Shutdown()
		return fmt.Errorf("cache.OpenStore() > %w", err)
	}
	app.AddCloser("cache", store)

	recorderMetrics := metrics.NewRecorder(prometheus.NewRegistry())
	memoizer := cache.NewMemoizer(store,
		cache.WithLogger(logger),
		cache.WithObserver(recorderMetrics),
	)
	client := rapidapi.NewClient(cfg.Dictionaries.RapidAPI,
		rapidapi.WithLogger(logger),
		rapidapi.WithObserver(recorderMetrics),
	)

	words := dictionary.NewDBWordRepository(db)
	listings := dictionary.NewListingCache(words, memoizer, dictionary.ListingConfig{
		KeyPrefix: cfg.Cache.KeyPrefix,
		TTL:       cfg.Cache.ListingTTL,
		Languages: cfg.Dictionaries.Languages,
	}, logger)
	lookups := dictionary.NewLookupCache(client, memoizer, dictionary.LookupConfig{
		KeyPrefix: cfg.Cache.KeyPrefix,
		TTL:       cfg.Cache.LookupTTL,
	},
		dictionary.WithArchive(dictionary.NewDBDocumentArchive(db)),
		dictionary.WithLookupLogger(logger),
	)

	handler := server.NewHandler(cfg.Server, server.Dependencies{
		Listings: listings,
		Lookups:  lookups,
		Recorder: recorder.New(db, words),
		Users:    auth.NewDBUserRepository(db),
		DB:       db,
		Metrics:  recorderMetrics,
		Logger:   logger,
	})
	srv := server.NewServer(cfg.Server, handler)
	app.AddShutdownHook("http server", srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		logger.Info("starting server",
			slog.String("addr", srv.Addr),
			slog.String("cache_backend", cfg.Cache.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe() > %w", err)
		}
		return nil
	})
}

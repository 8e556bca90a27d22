// Package server exposes the dictionary API over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/dictionary-api/internal/auth"
	"github.com/at-ishikawa/dictionary-api/internal/cache"
	"github.com/at-ishikawa/dictionary-api/internal/config"
	"github.com/at-ishikawa/dictionary-api/internal/dictionary"
	"github.com/at-ishikawa/dictionary-api/internal/metrics"
	"github.com/at-ishikawa/dictionary-api/internal/recorder"
)

type Listings interface {
	Supports(lang string) bool
	List(ctx context.Context, q dictionary.ListingQuery) (dictionary.ListingResult, cache.Decoration, error)
}

type Lookups interface {
	Lookup(ctx context.Context, word string) (json.RawMessage, cache.Decoration, error)
}

type Recorder interface {
	Favorite(ctx context.Context, userID int64, lang, word string) error
	Unfavorite(ctx context.Context, userID int64, lang, word string) error
	Favorites(ctx context.Context, userID int64) ([]recorder.Entry, error)
	RecordLookup(ctx context.Context, userID int64, word string) error
	History(ctx context.Context, userID int64) ([]recorder.Entry, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Dependencies are the collaborators the handlers call into. Metrics and
// Logger may be nil.
type Dependencies struct {
	Listings Listings
	Lookups  Lookups
	Recorder Recorder
	Users    auth.UserRepository
	DB       Pinger
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
}

type handler struct {
	listings Listings
	lookups  Lookups
	recorder Recorder
	db       Pinger
	logger   *slog.Logger
}

// NewHandler builds the chi router serving every route of the API.
func NewHandler(cfg config.ServerConfig, deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{
		listings: deps.Listings,
		lookups:  deps.Lookups,
		recorder: deps.Recorder,
		db:       deps.DB,
		logger:   logger,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(logger))
	router.Use(instrument(deps.Metrics))
	if len(cfg.CORS.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Cache", "X-Response-Time", "X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.Get("/", h.root)
	router.Get("/healthz", h.health)
	router.Handle("/metrics", deps.Metrics.Handler())

	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(deps.Users, logger))

		r.Route("/user/me", func(r chi.Router) {
			r.Get("/", h.me)
			r.Get("/favorites", h.favorites)
			r.Get("/history", h.history)
		})
		r.Route("/entries/{lang}", func(r chi.Router) {
			r.Get("/", h.listEntries)
			r.Get("/{word}", h.wordDetail)
			r.Post("/{word}/favorite", h.favorite)
			r.Delete("/{word}/favorite", h.unfavorite)
		})
	})
	return router
}

// NewServer wraps handler so that HTTP/2 cleartext clients are served too.
func NewServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h2c.NewHandler(handler, &http2.Server{}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.InfoContext(r.Context(), "HTTP request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// instrument records request metrics labelled by the matched route pattern,
// so that path parameters do not blow up label cardinality.
func instrument(rec *metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			rec.ObserveHTTP(route, r.Method, status, time.Since(start))
		})
	}
}

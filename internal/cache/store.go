// Package cache implements the response caching layer: a key/value Store with
// per-entry expiration, deterministic fingerprints, and a Memoizer that gives
// every cached call the same hit/miss/latency contract.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/dictionary-api/internal/config"
)

// ErrInvalidTTL is returned by Put when the ttl is not positive.
var ErrInvalidTTL = errors.New("cache: ttl must be positive")

// Store is a key/value store with per-entry expiration.
//
// Expiration is checked lazily on Get: an expired entry behaves as absent.
// Put on an existing key replaces both the value and the expiration.
// Implementations are safe for concurrent use and never return a partially
// written value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory     Backend = "memory"
	BackendRedis      Backend = "redis"
	BackendValkey     Backend = "valkey"
	BackendFileSystem Backend = "filesystem"
)

// Backends lists every supported backend.
var Backends = []Backend{BackendMemory, BackendRedis, BackendValkey, BackendFileSystem}

func (b *Backend) Set(val string) error {
	for _, backend := range Backends {
		if val == string(backend) {
			*b = backend
			return nil
		}
	}
	return fmt.Errorf("invalid cache backend: %s", val)
}

func (b Backend) String() string {
	return string(b)
}

func (b *Backend) Type() string {
	return "backend"
}

// NewStore builds the Store selected by cfg.Backend.
func NewStore(cfg config.CacheConfig) (Store, error) {
	switch Backend(cfg.Backend) {
	case BackendMemory, "":
		return NewMemoryStore(cfg.MaxEntries), nil
	case BackendRedis:
		client, err := NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("NewRedisClient() > %w", err)
		}
		return NewRedisStore(client), nil
	case BackendValkey:
		store, err := NewValkeyStore(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("NewValkeyStore() > %w", err)
		}
		return store, nil
	case BackendFileSystem:
		return NewFileSystemStore(cfg.Directory), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// OpenStore is NewStore for long-running processes. When a redis or valkey
// server is unreachable and cfg.FallbackToMemory is set, the failure is
// logged and a memory store is returned instead.
func OpenStore(cfg config.CacheConfig, logger *slog.Logger) (Store, error) {
	store, err := NewStore(cfg)
	if err == nil {
		return store, nil
	}
	switch Backend(cfg.Backend) {
	case BackendRedis, BackendValkey:
		if !cfg.FallbackToMemory {
			return nil, err
		}
	default:
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("cache backend unreachable, falling back to memory",
		slog.String("backend", cfg.Backend),
		slog.Any("error", err),
	)
	return NewMemoryStore(cfg.MaxEntries), nil
}

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Observer receives one sample per cache operation. operation is one of
// "get", "put" or "load"; result is "hit", "miss", "ok" or "error".
type Observer interface {
	ObserveCacheOperation(purpose, operation, result string, d time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveCacheOperation(string, string, string, time.Duration) {}

// LoadFunc computes a value on a miss. Its error is returned to the caller
// and nothing is stored.
type LoadFunc func(ctx context.Context) ([]byte, error)

// Result is the outcome of Memoizer.Fetch. Value may be shared between
// concurrent callers and must not be modified.
type Result struct {
	Value  []byte
	Status Status
	Shared bool
}

// Memoizer serves values from a Store and loads them on a miss. Concurrent
// misses for one key share a single load.
type Memoizer struct {
	store    Store
	logger   *slog.Logger
	observer Observer
	group    singleflight.Group
}

type MemoizerOption func(*Memoizer)

func WithLogger(logger *slog.Logger) MemoizerOption {
	return func(m *Memoizer) {
		m.logger = logger
	}
}

func WithObserver(observer Observer) MemoizerOption {
	return func(m *Memoizer) {
		if observer != nil {
			m.observer = observer
		}
	}
}

func NewMemoizer(store Store, opts ...MemoizerOption) *Memoizer {
	m := &Memoizer{
		store:    store,
		logger:   slog.Default(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fetch returns the stored value for key or runs load and stores its result
// for ttl. A failing Store never fails the call: reads degrade to a miss and
// writes are logged and dropped.
//
// The load runs detached from ctx so a caller that gives up does not abort
// the load for the others waiting on it.
func (m *Memoizer) Fetch(ctx context.Context, purpose Purpose, key string, ttl time.Duration, load LoadFunc) (Result, error) {
	if value, ok := m.get(ctx, purpose, key); ok {
		return Result{Value: value, Status: StatusHit}, nil
	}

	ch := m.group.DoChan(key, func() (interface{}, error) {
		loadCtx := context.WithoutCancel(ctx)
		startedAt := time.Now()
		value, err := load(loadCtx)
		if err != nil {
			m.observer.ObserveCacheOperation(string(purpose), "load", "error", time.Since(startedAt))
			return nil, err
		}
		m.observer.ObserveCacheOperation(string(purpose), "load", "ok", time.Since(startedAt))
		m.put(loadCtx, purpose, key, value, ttl)
		return value, nil
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Result{}, res.Err
		}
		return Result{Value: res.Val.([]byte), Status: StatusMiss, Shared: res.Shared}, nil
	}
}

// Evict removes key from the Store.
func (m *Memoizer) Evict(ctx context.Context, key string) error {
	if err := m.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("store.Delete > %w", err)
	}
	return nil
}

func (m *Memoizer) get(ctx context.Context, purpose Purpose, key string) ([]byte, bool) {
	startedAt := time.Now()
	value, ok, err := m.store.Get(ctx, key)
	elapsed := time.Since(startedAt)
	switch {
	case err != nil:
		m.observer.ObserveCacheOperation(string(purpose), "get", "error", elapsed)
		m.logger.WarnContext(ctx, "cache read failed, treating as miss",
			slog.String("purpose", string(purpose)),
			slog.String("key", key),
			slog.Any("error", err),
		)
		return nil, false
	case !ok:
		m.observer.ObserveCacheOperation(string(purpose), "get", "miss", elapsed)
		return nil, false
	default:
		m.observer.ObserveCacheOperation(string(purpose), "get", "hit", elapsed)
		return value, true
	}
}

func (m *Memoizer) put(ctx context.Context, purpose Purpose, key string, value []byte, ttl time.Duration) {
	startedAt := time.Now()
	if err := m.store.Put(ctx, key, value, ttl); err != nil {
		m.observer.ObserveCacheOperation(string(purpose), "put", "error", time.Since(startedAt))
		m.logger.WarnContext(ctx, "cache write failed",
			slog.String("purpose", string(purpose)),
			slog.String("key", key),
			slog.Any("error", err),
		)
		return
	}
	m.observer.ObserveCacheOperation(string(purpose), "put", "ok", time.Since(startedAt))
}

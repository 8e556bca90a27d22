package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/dictionary-api/internal/apperr"
	"github.com/at-ishikawa/dictionary-api/internal/cache"
)

//go:generate mockgen -source=lookup.go -destination=../mocks/dictionary/mock_lookup.go -package=mock_dictionary

// Provider fetches word documents from a remote word-data service.
type Provider interface {
	Name() string
	WordURL(word string) string
	FetchWord(ctx context.Context, word string) (json.RawMessage, error)
}

type LookupConfig struct {
	KeyPrefix string
	TTL       time.Duration
}

// LookupCache memoizes provider documents per word.
type LookupCache struct {
	provider  Provider
	memoizer  *cache.Memoizer
	archive   DocumentArchive
	keyPrefix string
	ttl       time.Duration
	logger    *slog.Logger
}

type LookupOption func(*LookupCache)

// WithArchive records every freshly fetched document in archive.
func WithArchive(archive DocumentArchive) LookupOption {
	return func(c *LookupCache) {
		c.archive = archive
	}
}

func WithLookupLogger(logger *slog.Logger) LookupOption {
	return func(c *LookupCache) {
		c.logger = logger
	}
}

func NewLookupCache(provider Provider, memoizer *cache.Memoizer, cfg LookupConfig, opts ...LookupOption) *LookupCache {
	c := &LookupCache{
		provider:  provider,
		memoizer:  memoizer,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.TTL,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the provider document for word, which the caller has
// already lowercased. Provider failures are never cached.
func (c *LookupCache) Lookup(ctx context.Context, word string) (json.RawMessage, cache.Decoration, error) {
	startedAt := time.Now()
	if word == "" {
		return nil, cache.Decoration{}, apperr.InvalidArgument("Word is required")
	}

	key := cache.WordLookupKey(c.keyPrefix, word)
	res, err := c.memoizer.Fetch(ctx, cache.PurposeWordLookup, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		return c.fetch(ctx, key, word)
	})
	if err != nil {
		return nil, cache.Decoration{}, err
	}
	return json.RawMessage(res.Value), cache.Decorate(res.Status, startedAt), nil
}

// Evict drops the cached document for word.
func (c *LookupCache) Evict(ctx context.Context, word string) error {
	return c.memoizer.Evict(ctx, cache.WordLookupKey(c.keyPrefix, word))
}

func (c *LookupCache) fetch(ctx context.Context, key, word string) ([]byte, error) {
	doc, err := c.provider.FetchWord(ctx, word)
	if err != nil {
		if errors.Is(err, apperr.ErrUpstreamUnavailable) {
			return nil, err
		}
		return nil, apperr.Upstream("Word data provider unavailable", err)
	}
	if !json.Valid(doc) {
		return nil, apperr.Upstream("Word data provider unavailable", fmt.Errorf("malformed document for %q", word))
	}
	c.record(ctx, key, word, doc)
	return doc, nil
}

func (c *LookupCache) record(ctx context.Context, key, word string, doc json.RawMessage) {
	if c.archive == nil {
		return
	}
	archived := &ArchivedDocument{
		Provider:  c.provider.Name(),
		Word:      word,
		SourceURL: c.provider.WordURL(word),
		CacheKey:  key,
		Document:  doc,
		FetchedAt: time.Now().UTC(),
	}
	if err := c.archive.Record(ctx, archived); err != nil {
		c.logger.WarnContext(ctx, "failed to archive word document",
			slog.String("word", word),
			slog.Any("error", err),
		)
	}
}

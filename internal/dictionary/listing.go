package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/at-ishikawa/dictionary-api/internal/apperr"
	"github.com/at-ishikawa/dictionary-api/internal/cache"
)

type ListingQuery struct {
	Language string
	Search   string
	PageSize int
	Page     int
}

// ListingResult is one page of words. It is the value stored in the cache.
type ListingResult struct {
	Results    []string `json:"results"`
	TotalDocs  int64    `json:"totalDocs"`
	Page       int      `json:"page"`
	TotalPages int64    `json:"totalPages"`
	HasNext    bool     `json:"hasNext"`
	HasPrev    bool     `json:"hasPrev"`
}

func NewListingResult(words []string, totalDocs int64, pageSize, page int) ListingResult {
	if words == nil {
		words = []string{}
	}
	totalPages := totalDocs / int64(pageSize)
	if totalDocs%int64(pageSize) != 0 {
		totalPages++
	}
	return ListingResult{
		Results:    words,
		TotalDocs:  totalDocs,
		Page:       page,
		TotalPages: totalPages,
		HasNext:    int64(page) < totalPages,
		HasPrev:    page > 1,
	}
}

type ListingConfig struct {
	KeyPrefix string
	TTL       time.Duration
	Languages []string
}

// ListingCache memoizes paginated, filtered word listings.
type ListingCache struct {
	words     WordStore
	memoizer  *cache.Memoizer
	keyPrefix string
	ttl       time.Duration
	languages map[string]struct{}
	logger    *slog.Logger
}

func NewListingCache(words WordStore, memoizer *cache.Memoizer, cfg ListingConfig, logger *slog.Logger) *ListingCache {
	if logger == nil {
		logger = slog.Default()
	}
	languages := make(map[string]struct{}, len(cfg.Languages))
	for _, lang := range cfg.Languages {
		languages[lang] = struct{}{}
	}
	return &ListingCache{
		words:     words,
		memoizer:  memoizer,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.TTL,
		languages: languages,
		logger:    logger,
	}
}

// Supports reports whether lang is one of the configured languages.
func (c *ListingCache) Supports(lang string) bool {
	_, ok := c.languages[lang]
	return ok
}

// List returns one page of words in q.Language, filtered by q.Search.
// The decoration's elapsed time covers the whole call.
func (c *ListingCache) List(ctx context.Context, q ListingQuery) (ListingResult, cache.Decoration, error) {
	startedAt := time.Now()
	if q.PageSize < 1 || q.Page < 1 || q.Page-1 > math.MaxInt/q.PageSize {
		return ListingResult{}, cache.Decoration{}, apperr.InvalidArgument("Invalid limit or page number")
	}

	key := cache.ListingKey(c.keyPrefix, q.Language, q.Search, q.PageSize, q.Page)
	res, err := c.memoizer.Fetch(ctx, cache.PurposeListing, key, c.ttl, func(ctx context.Context) ([]byte, error) {
		result, err := c.load(ctx, q)
		if err != nil {
			return nil, err
		}
		return json.Marshal(result)
	})
	if err != nil {
		return ListingResult{}, cache.Decoration{}, err
	}

	var result ListingResult
	if err := json.Unmarshal(res.Value, &result); err != nil {
		if evictErr := c.memoizer.Evict(ctx, key); evictErr != nil {
			c.logger.WarnContext(ctx, "failed to evict undecodable listing", slog.Any("error", evictErr))
		}
		return ListingResult{}, cache.Decoration{}, fmt.Errorf("json.Unmarshal(listing) > %w", err)
	}
	return result, cache.Decorate(res.Status, startedAt), nil
}

func (c *ListingCache) load(ctx context.Context, q ListingQuery) (ListingResult, error) {
	totalDocs, err := c.words.Count(ctx, q.Language, q.Search)
	if err != nil {
		return ListingResult{}, fmt.Errorf("words.Count() > %w", err)
	}
	words, err := c.words.Page(ctx, q.Language, q.Search, (q.Page-1)*q.PageSize, q.PageSize)
	if err != nil {
		return ListingResult{}, fmt.Errorf("words.Page() > %w", err)
	}
	return NewListingResult(words, totalDocs, q.PageSize, q.Page), nil
}

// Package importer loads a word list into the word store.
//
// The source is a JSON object whose keys are the words, as published by
// github.com/dwyl/english-words (words_dictionary.json). Values are ignored.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"resty.dev/v3"

	"github.com/at-ishikawa/dictionary-api/internal/config"
	"github.com/at-ishikawa/dictionary-api/internal/dictionary"
)

const defaultBatchSize = 1000

type Importer struct {
	words      dictionary.WordStore
	httpClient *resty.Client
	language   string
	batchSize  int
	logger     *slog.Logger
}

type Option func(*Importer)

func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

func New(words dictionary.WordStore, cfg config.ImportConfig, opts ...Option) *Importer {
	batchSize := cfg.BatchSize
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}
	i := &Importer{
		words:      words,
		httpClient: resty.New(),
		language:   cfg.Language,
		batchSize:  batchSize,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Importer) Close() error {
	return i.httpClient.Close()
}

// ImportURL downloads the word list at url and stores every word.
func (i *Importer) ImportURL(ctx context.Context, url string) (int, error) {
	response, err := i.httpClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return 0, fmt.Errorf("httpClient.Get > %w", err)
	}
	if response.IsError() {
		return 0, fmt.Errorf("response error %d from %s", response.StatusCode(), url)
	}
	return i.Import(ctx, strings.NewReader(response.String()))
}

func (i *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return i.Import(ctx, f)
}

// Import stores the words read from r in sorted batches and returns how many
// words were written. Words already present are updated in place.
func (i *Importer) Import(ctx context.Context, r io.Reader) (int, error) {
	words, err := Parse(r)
	if err != nil {
		return 0, err
	}

	imported := 0
	for start := 0; start < len(words); start += i.batchSize {
		end := min(start+i.batchSize, len(words))
		batch := make([]dictionary.Word, 0, end-start)
		for _, word := range words[start:end] {
			batch = append(batch, dictionary.Word{Word: word, Lang: i.language})
		}
		if err := i.words.BatchUpsert(ctx, batch); err != nil {
			return imported, fmt.Errorf("words.BatchUpsert(%d..%d) > %w", start, end, err)
		}
		imported += len(batch)
		i.logger.DebugContext(ctx, "imported batch",
			slog.Int("from", start),
			slog.Int("to", end),
		)
	}
	i.logger.InfoContext(ctx, "imported words",
		slog.Int("count", imported),
		slog.String("language", i.language),
	)
	return imported, nil
}

// Parse decodes a word list and returns its distinct words sorted, without
// blanks.
func Parse(r io.Reader) ([]string, error) {
	var document map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&document); err != nil {
		return nil, fmt.Errorf("json.Decode(word list) > %w", err)
	}

	words := make([]string, 0, len(document))
	for word := range document {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	slices.Sort(words)
	return slices.Compact(words), nil
}

// Package datasync moves archived provider documents between the database and
// YAML files.
package datasync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/dictionary-api/internal/dictionary"
)

// WordDocumentsFile is the file name the export writes into its output
// directory.
const WordDocumentsFile = "word_documents.yml"

// yamlDocument is the exported form of an archived document. The provider
// document is kept as a JSON string so it round-trips byte for byte.
type yamlDocument struct {
	Provider   string    `yaml:"provider"`
	Word       string    `yaml:"word"`
	SourceURL  string    `yaml:"source_url,omitempty"`
	CacheKey   string    `yaml:"cache_key,omitempty"`
	FetchCount int       `yaml:"fetch_count"`
	FetchedAt  time.Time `yaml:"fetched_at"`
	ArchivedAt time.Time `yaml:"archived_at"`
	Document   string    `yaml:"document"`
}

// Exporter reads the archive and writes it as YAML.
type Exporter struct {
	archive   dictionary.DocumentArchive
	outputDir string
}

func NewExporter(archive dictionary.DocumentArchive, outputDir string) *Exporter {
	return &Exporter{archive: archive, outputDir: outputDir}
}

// Export writes every archived document to <outputDir>/word_documents.yml
// and returns the file path and the number of documents written.
func (e *Exporter) Export(ctx context.Context) (string, int, error) {
	docs, err := e.archive.List(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("archive.List() > %w", err)
	}
	exported := make([]yamlDocument, 0, len(docs))
	for _, doc := range docs {
		exported = append(exported, yamlDocument{
			Provider:   doc.Provider,
			Word:       doc.Word,
			SourceURL:  doc.SourceURL,
			CacheKey:   doc.CacheKey,
			FetchCount: doc.FetchCount,
			FetchedAt:  doc.FetchedAt.UTC(),
			ArchivedAt: doc.ArchivedAt.UTC(),
			Document:   string(doc.Document),
		})
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(e.outputDir, WordDocumentsFile)
	if err := writeYAML(path, exported); err != nil {
		return "", 0, fmt.Errorf("write %s: %w", WordDocumentsFile, err)
	}
	return path, len(exported), nil
}

func writeYAML(path string, data interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

// ReadDocuments decodes a file written by Export. Documents without a
// provider or word, or whose body is not JSON, are rejected. Missing
// counters and timestamps are filled in so the rows are valid.
func ReadDocuments(r io.Reader) ([]dictionary.ArchivedDocument, error) {
	var decoded []yamlDocument
	if err := yaml.NewDecoder(r).Decode(&decoded); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("yaml.Decode() > %w", err)
	}

	now := time.Now().UTC()
	docs := make([]dictionary.ArchivedDocument, 0, len(decoded))
	for i, d := range decoded {
		if d.Provider == "" || d.Word == "" {
			return nil, fmt.Errorf("document %d has no provider or word", i)
		}
		if !json.Valid([]byte(d.Document)) {
			return nil, fmt.Errorf("document %s/%q is not valid JSON", d.Provider, d.Word)
		}
		doc := dictionary.ArchivedDocument{
			Provider:   d.Provider,
			Word:       d.Word,
			SourceURL:  d.SourceURL,
			CacheKey:   d.CacheKey,
			Document:   json.RawMessage(d.Document),
			FetchCount: max(d.FetchCount, 1),
			FetchedAt:  d.FetchedAt,
			ArchivedAt: d.ArchivedAt,
		}
		if doc.FetchedAt.IsZero() {
			doc.FetchedAt = now
		}
		if doc.ArchivedAt.IsZero() {
			doc.ArchivedAt = doc.FetchedAt
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// RestoreResult tracks counts for a restore run.
type RestoreResult struct {
	New     int
	Skipped int
	Updated int
}

func (r *RestoreResult) add(outcome dictionary.ArchiveOutcome) string {
	switch outcome {
	case dictionary.ArchiveInserted:
		r.New++
		return "NEW"
	case dictionary.ArchiveReplaced:
		r.Updated++
		return "UPDATE"
	default:
		r.Skipped++
		return "SKIP"
	}
}

// RestoreOptions controls restore behavior.
type RestoreOptions struct {
	DryRun         bool
	UpdateExisting bool
}

// Restorer writes exported documents back into the archive.
type Restorer struct {
	archive dictionary.DocumentArchive
	writer  io.Writer
}

func NewRestorer(archive dictionary.DocumentArchive, writer io.Writer) *Restorer {
	return &Restorer{archive: archive, writer: writer}
}

// Restore writes docs into the archive. Archived words are kept unless
// opts.UpdateExisting is set. A dry run only reads the archive to report what
// would happen.
func (r *Restorer) Restore(ctx context.Context, docs []dictionary.ArchivedDocument, opts RestoreOptions) (*RestoreResult, error) {
	var result RestoreResult

	for i := range docs {
		doc := &docs[i]
		var outcome dictionary.ArchiveOutcome
		if opts.DryRun {
			existing, err := r.archive.Get(ctx, doc.Provider, doc.Word)
			if err != nil {
				return nil, fmt.Errorf("archive.Get(%s/%s) > %w", doc.Provider, doc.Word, err)
			}
			outcome = predictOutcome(existing, opts.UpdateExisting)
		} else {
			var err error
			outcome, err = r.archive.Restore(ctx, doc, opts.UpdateExisting)
			if err != nil {
				return nil, fmt.Errorf("archive.Restore(%s/%s) > %w", doc.Provider, doc.Word, err)
			}
		}
		label := result.add(outcome)
		fmt.Fprintf(r.writer, "  [%s]  %s/%q\n", label, doc.Provider, doc.Word)
	}
	return &result, nil
}

func predictOutcome(existing *dictionary.ArchivedDocument, overwrite bool) dictionary.ArchiveOutcome {
	switch {
	case existing == nil:
		return dictionary.ArchiveInserted
	case overwrite:
		return dictionary.ArchiveReplaced
	default:
		return dictionary.ArchiveUnchanged
	}
}

package dictionary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const documentColumns = "provider, word, source_url, cache_key, document, fetch_count, fetched_at, archived_at"

const recordDocumentQuery = `INSERT INTO word_documents (provider, word, source_url, cache_key, document, fetch_count, fetched_at)
VALUES (:provider, :word, :source_url, :cache_key, :document, 1, :fetched_at)
ON DUPLICATE KEY UPDATE
	source_url = VALUES(source_url),
	cache_key = VALUES(cache_key),
	document = VALUES(document),
	fetch_count = fetch_count + 1,
	fetched_at = VALUES(fetched_at)`

const restoreDocumentQuery = `INSERT INTO word_documents (` + documentColumns + `)
VALUES (:provider, :word, :source_url, :cache_key, :document, :fetch_count, :fetched_at, :archived_at)`

// The no-op assignment keeps an existing row untouched, so MySQL reports zero
// affected rows for it.
const restoreKeepQuery = restoreDocumentQuery + `
ON DUPLICATE KEY UPDATE provider = provider`

const restoreOverwriteQuery = restoreDocumentQuery + `
ON DUPLICATE KEY UPDATE
	source_url = VALUES(source_url),
	cache_key = VALUES(cache_key),
	document = VALUES(document),
	fetch_count = VALUES(fetch_count),
	fetched_at = VALUES(fetched_at),
	archived_at = VALUES(archived_at)`

// DBDocumentArchive implements DocumentArchive on the word_documents table.
type DBDocumentArchive struct {
	db *sqlx.DB
}

func NewDBDocumentArchive(db *sqlx.DB) *DBDocumentArchive {
	return &DBDocumentArchive{db: db}
}

// Get returns nil when nothing is archived for the word.
func (a *DBDocumentArchive) Get(ctx context.Context, provider, word string) (*ArchivedDocument, error) {
	var doc ArchivedDocument
	err := a.db.GetContext(ctx, &doc,
		"SELECT "+documentColumns+" FROM word_documents WHERE provider = ? AND word = ?", provider, word)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(word_document %s/%s) > %w", provider, word, err)
	}
	return &doc, nil
}

func (a *DBDocumentArchive) List(ctx context.Context) ([]ArchivedDocument, error) {
	docs := []ArchivedDocument{}
	if err := a.db.SelectContext(ctx, &docs,
		"SELECT "+documentColumns+" FROM word_documents ORDER BY provider, word"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(word_documents) > %w", err)
	}
	return docs, nil
}

// Record stores a freshly fetched document. Fetching the word again replaces
// the document and bumps fetch_count; archived_at keeps the first fetch.
func (a *DBDocumentArchive) Record(ctx context.Context, doc *ArchivedDocument) error {
	if _, err := a.db.NamedExecContext(ctx, recordDocumentQuery, doc); err != nil {
		return fmt.Errorf("db.NamedExecContext(record %s/%s) > %w", doc.Provider, doc.Word, err)
	}
	return nil
}

// Restore writes an exported document back as it was, counters and
// timestamps included. An existing row is only replaced when overwrite is set.
func (a *DBDocumentArchive) Restore(ctx context.Context, doc *ArchivedDocument, overwrite bool) (ArchiveOutcome, error) {
	query := restoreKeepQuery
	if overwrite {
		query = restoreOverwriteQuery
	}
	res, err := a.db.NamedExecContext(ctx, query, doc)
	if err != nil {
		return ArchiveUnchanged, fmt.Errorf("db.NamedExecContext(restore %s/%s) > %w", doc.Provider, doc.Word, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return ArchiveUnchanged, fmt.Errorf("RowsAffected() > %w", err)
	}
	// MySQL counts an insert as 1 and an update that changed the row as 2.
	switch affected {
	case 0:
		return ArchiveUnchanged, nil
	case 1:
		return ArchiveInserted, nil
	default:
		return ArchiveReplaced, nil
	}
}

// Package dictionary serves word listings and word lookups through the
// response cache.
package dictionary

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Word is a row of the dictionaries table.
type Word struct {
	ID         int64          `db:"id"`
	Word       string         `db:"word"`
	Definition sql.NullString `db:"definition"`
	Lang       string         `db:"lang"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// ArchivedDocument is the latest provider document fetched for a word.
// CacheKey is the lookup fingerprint the document was cached under.
type ArchivedDocument struct {
	Provider   string          `db:"provider"`
	Word       string          `db:"word"`
	SourceURL  string          `db:"source_url"`
	CacheKey   string          `db:"cache_key"`
	Document   json.RawMessage `db:"document"`
	FetchCount int             `db:"fetch_count"`
	FetchedAt  time.Time       `db:"fetched_at"`
	ArchivedAt time.Time       `db:"archived_at"`
}

// ArchiveOutcome reports what a restore did to the archive.
type ArchiveOutcome int

const (
	ArchiveUnchanged ArchiveOutcome = iota
	ArchiveInserted
	ArchiveReplaced
)

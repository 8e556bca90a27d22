package dictionary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/dictionary-api/internal/database"
)

//go:generate mockgen -source=repository.go -destination=../mocks/dictionary/mock_repository.go -package=mock_dictionary

// WordStore reads and writes the dictionaries table. A non-empty search
// matches words containing it as a substring.
type WordStore interface {
	Count(ctx context.Context, lang, search string) (int64, error)
	Page(ctx context.Context, lang, search string, offset, limit int) ([]string, error)
	FindByWord(ctx context.Context, lang, word string) (*Word, error)
	BatchUpsert(ctx context.Context, words []Word) error
}

// DocumentArchive keeps one document per provider and word.
type DocumentArchive interface {
	Get(ctx context.Context, provider, word string) (*ArchivedDocument, error)
	List(ctx context.Context) ([]ArchivedDocument, error)
	Record(ctx context.Context, doc *ArchivedDocument) error
	Restore(ctx context.Context, doc *ArchivedDocument, overwrite bool) (ArchiveOutcome, error)
}

// DBWordRepository implements WordStore using MySQL.
type DBWordRepository struct {
	db *sqlx.DB
}

func NewDBWordRepository(db *sqlx.DB) *DBWordRepository {
	return &DBWordRepository{db: db}
}

func wordFilter(lang, search string) (string, []interface{}) {
	if search == "" {
		return "lang = ?", []interface{}{lang}
	}
	return "lang = ? AND word LIKE ?", []interface{}{lang, "%" + database.EscapeLike(search) + "%"}
}

func (r *DBWordRepository) Count(ctx context.Context, lang, search string) (int64, error) {
	where, args := wordFilter(lang, search)
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(id) FROM dictionaries WHERE "+where, args...); err != nil {
		return 0, fmt.Errorf("db.GetContext(count dictionaries) > %w", err)
	}
	return count, nil
}

func (r *DBWordRepository) Page(ctx context.Context, lang, search string, offset, limit int) ([]string, error) {
	where, args := wordFilter(lang, search)
	args = append(args, limit, offset)
	// limit comes from the request, so it must not size the slice.
	words := []string{}
	if err := r.db.SelectContext(ctx, &words,
		"SELECT word FROM dictionaries WHERE "+where+" ORDER BY word LIMIT ? OFFSET ?", args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(dictionaries) > %w", err)
	}
	return words, nil
}

// FindByWord returns the word in lang, or nil if it does not exist.
func (r *DBWordRepository) FindByWord(ctx context.Context, lang, word string) (*Word, error) {
	var w Word
	err := r.db.GetContext(ctx, &w,
		"SELECT id, word, definition, lang, created_at, updated_at FROM dictionaries WHERE word = ? AND lang = ?", word, lang)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(dictionary) > %w", err)
	}
	return &w, nil
}

// BatchUpsert inserts words, keeping existing rows and refreshing their
// definition and language.
func (r *DBWordRepository) BatchUpsert(ctx context.Context, words []Word) error {
	if len(words) == 0 {
		return nil
	}
	query := database.BuildMultiRowInsert("dictionaries", []string{"word", "definition", "lang"}, len(words)) +
		" ON DUPLICATE KEY UPDATE definition = VALUES(definition), lang = VALUES(lang)"
	args := make([]interface{}, 0, len(words)*3)
	for _, w := range words {
		args = append(args, w.Word, w.Definition, w.Lang)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db.ExecContext(upsert dictionaries) > %w", err)
	}
	return nil
}

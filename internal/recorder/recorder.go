// Package recorder keeps each user's favorite words and lookup history.
package recorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/dictionary-api/internal/apperr"
	"github.com/at-ishikawa/dictionary-api/internal/database"
	"github.com/at-ishikawa/dictionary-api/internal/dictionary"
)

type Entry struct {
	Word  string    `db:"word" json:"word"`
	Added time.Time `db:"added" json:"added"`
}

type Recorder struct {
	db    *sqlx.DB
	words dictionary.WordStore
}

func New(db *sqlx.DB, words dictionary.WordStore) *Recorder {
	return &Recorder{db: db, words: words}
}

// Favorite adds word in lang to the user's favorites.
func (r *Recorder) Favorite(ctx context.Context, userID int64, lang, word string) error {
	w, err := r.findWord(ctx, lang, word)
	if err != nil {
		return err
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM favorite_words WHERE user_id = ? AND dictionary_id = ?)", userID, w.ID); err != nil {
		return fmt.Errorf("db.GetContext(favorite exists) > %w", err)
	}
	if exists {
		return apperr.Conflict("Word already favorited")
	}

	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO favorite_words (user_id, dictionary_id) VALUES (?, ?)", userID, w.ID); err != nil {
		if database.IsDuplicateKey(err) {
			return apperr.Conflict("Word already favorited")
		}
		return fmt.Errorf("db.ExecContext(insert favorite_word) > %w", err)
	}
	return nil
}

// Unfavorite removes word in lang from the user's favorites.
func (r *Recorder) Unfavorite(ctx context.Context, userID int64, lang, word string) error {
	w, err := r.findWord(ctx, lang, word)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		"DELETE FROM favorite_words WHERE user_id = ? AND dictionary_id = ?", userID, w.ID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(delete favorite_word) > %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if deleted == 0 {
		return apperr.Conflict("Word is not favorited")
	}
	return nil
}

// Favorites lists the user's favorite words, newest first.
func (r *Recorder) Favorites(ctx context.Context, userID int64) ([]Entry, error) {
	entries := make([]Entry, 0)
	if err := r.db.SelectContext(ctx, &entries,
		`SELECT d.word AS word, f.created_at AS added
		FROM favorite_words f
		INNER JOIN dictionaries d ON d.id = f.dictionary_id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC, f.id DESC`, userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(favorite_words) > %w", err)
	}
	return entries, nil
}

// RecordLookup remembers that the user looked word up. Repeated lookups
// only refresh updated_at.
func (r *Recorder) RecordLookup(ctx context.Context, userID int64, word string) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO history_words (user_id, word) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE updated_at = CURRENT_TIMESTAMP`, userID, strings.ToLower(word)); err != nil {
		return fmt.Errorf("db.ExecContext(upsert history_word) > %w", err)
	}
	return nil
}

// History lists the words the user looked up, most recent first.
func (r *Recorder) History(ctx context.Context, userID int64) ([]Entry, error) {
	entries := make([]Entry, 0)
	if err := r.db.SelectContext(ctx, &entries,
		`SELECT word, created_at AS added
		FROM history_words
		WHERE user_id = ?
		ORDER BY updated_at DESC, id DESC`, userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(history_words) > %w", err)
	}
	return entries, nil
}

func (r *Recorder) findWord(ctx context.Context, lang, word string) (*dictionary.Word, error) {
	w, err := r.words.FindByWord(ctx, lang, strings.ToLower(word))
	if err != nil {
		return nil, fmt.Errorf("words.FindByWord() > %w", err)
	}
	if w == nil {
		return nil, apperr.NotFound("Word not found")
	}
	return w, nil
}

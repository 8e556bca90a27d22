package recorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/dictionary-api/internal/apperr"
	"github.com/at-ishikawa/dictionary-api/internal/dictionary"
	mock_dictionary "github.com/at-ishikawa/dictionary-api/internal/mocks/dictionary"
)

const userID int64 = 42

var apple = &dictionary.Word{ID: 7, Word: "apple", Lang: "en"}

func newRecorder(t *testing.T) (*Recorder, sqlmock.Sqlmock, *mock_dictionary.MockWordStore) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	words := mock_dictionary.NewMockWordStore(gomock.NewController(t))
	return New(sqlx.NewDb(db, "mysql"), words), mock, words
}

func TestRecorder_Favorite(t *testing.T) {
	tests := []struct {
		name    string
		word    string
		setup   func(mock sqlmock.Sqlmock, words *mock_dictionary.MockWordStore)
		wantErr error
		wantMsg string
	}{
		{
			name: "adds favorite with lowercased word",
			word: "Apple",
			setup: func(mock sqlmock.Sqlmock, words *mock_dictionary.MockWordStore) {
				words.EXPECT().FindByWord(gomock.Any(), "en", "apple").Return(apple, nil)
				mock.ExpectQuery("SELECT EXISTS").WithArgs(userID, int64(7)).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectExec("INSERT INTO favorite_words").WithArgs(userID, int64(7)).
					WillReturnResult(sqlmock.NewResult(1, 1))
			},
		},
		{
			name: "unknown word",
			word: "zzzz",
			setup: func(mock sqlmock.Sqlmock, words *mock_dictionary.MockWordStore) {
				words.EXPECT().FindByWord(gomock.Any(), "en", "zzzz").Return(nil, nil)
			},
			wantErr: apperr.ErrNotFound,
			wantMsg: "Word not found",
		},
		{
			name: "already favorited",
			word: "apple",
			setup: func(mock sqlmock.Sqlmock, words *mock_dictionary.MockWordStore) {
				words.EXPECT().FindByWord(gomock.Any(), "en", "apple").Return(apple, nil)
				mock.ExpectQuery("SELECT EXISTS").WithArgs(userID, int64(7)).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			wantErr: apperr.ErrConflict,
			wantMsg: "Word already favorited",
		},
		{
			name: "concurrent insert hits the unique key",
			word: "apple",
			setup: func(mock sqlmock.Sqlmock, words *mock_dictionary.MockWordStore) {
				words.EXPECT().FindByWord(gomock.Any(), "en", "apple").Return(apple, nil)
				mock.ExpectQuery("SELECT EXISTS").WithArgs(userID, int64(7)).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectExec("INSERT INTO favorite_words").WithArgs(userID, int64(7)).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
			},
			wantErr: apperr.ErrConflict,
			wantMsg: "Word already favorited",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, mock, words := newRecorder(t)
			tt.setup(mock, words)

			err := recorder.Favorite(context.Background(), userID, "en", tt.word)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantMsg, apperr.Message(err, ""))
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRecorder_Unfavorite(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock, words *mock_dictionary.MockWordStore)
		wantErr error
	}{
		{
			name: "removes favorite",
			setup: func(mock sqlmock.Sqlmock, words *mock_dictionary.MockWordStore) {
				words.EXPECT().FindByWord(gomock.Any(), "en", "apple").Return(apple, nil)
				mock.ExpectExec("DELETE FROM favorite_words").WithArgs(userID, int64(7)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not favorited",
			setup: func(mock sqlmock.Sqlmock, words *mock_dictionary.MockWordStore) {
				words.EXPECT().FindByWord(gomock.Any(), "en", "apple").Return(apple, nil)
				mock.ExpectExec("DELETE FROM favorite_words").WithArgs(userID, int64(7)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: apperr.ErrConflict,
		},
		{
			name: "word store failure",
			setup: func(mock sqlmock.Sqlmock, words *mock_dictionary.MockWordStore) {
				words.EXPECT().FindByWord(gomock.Any(), "en", "apple").Return(nil, errors.New("connection reset"))
			},
			wantErr: errors.New("connection reset"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, mock, words := newRecorder(t)
			tt.setup(mock, words)

			err := recorder.Unfavorite(context.Background(), userID, "en", "APPLE")
			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
			case errors.Is(tt.wantErr, apperr.ErrConflict):
				assert.ErrorIs(t, err, apperr.ErrConflict)
			default:
				assert.ErrorContains(t, err, tt.wantErr.Error())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRecorder_Favorites(t *testing.T) {
	recorder, mock, _ := newRecorder(t)
	newer := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT d.word AS word, f.created_at AS added FROM favorite_words f").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"word", "added"}).
			AddRow("banana", newer).
			AddRow("apple", older))

	got, err := recorder.Favorites(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Word: "banana", Added: newer}, {Word: "apple", Added: older}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecorder_RecordLookup(t *testing.T) {
	recorder, mock, _ := newRecorder(t)
	mock.ExpectExec("INSERT INTO history_words \\(user_id, word\\) VALUES \\(\\?, \\?\\)\\s+ON DUPLICATE KEY UPDATE updated_at = CURRENT_TIMESTAMP").
		WithArgs(userID, "apple").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, recorder.RecordLookup(context.Background(), userID, "Apple"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecorder_History(t *testing.T) {
	recorder, mock, _ := newRecorder(t)
	mock.ExpectQuery("SELECT word, created_at AS added\\s+FROM history_words").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"word", "added"}))

	got, err := recorder.History(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []Entry{}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

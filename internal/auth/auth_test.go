package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/dictionary-api/internal/apperr"
)

type fakeUsers struct {
	users map[string]*User
	err   error
}

func (f *fakeUsers) FindByTokenHash(_ context.Context, tokenHash string) (*User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[tokenHash], nil
}

func (f *fakeUsers) Create(context.Context, string, string, string) (*User, error) {
	return nil, errors.New("not implemented")
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08", HashToken("test"))
}

func TestGenerateToken(t *testing.T) {
	first := GenerateToken()
	second := GenerateToken()
	assert.Len(t, first, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", first)
	assert.NotEqual(t, first, second)
}

func TestMiddleware(t *testing.T) {
	user := &User{ID: 1, Name: "Ada", Email: "ada@example.com"}
	users := &fakeUsers{users: map[string]*User{HashToken("valid-token"): user}}

	tests := []struct {
		name       string
		users      UserRepository
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", users: users, header: "Bearer valid-token", wantStatus: http.StatusOK, wantBody: "Ada"},
		{name: "lowercase scheme", users: users, header: "bearer valid-token", wantStatus: http.StatusOK, wantBody: "Ada"},
		{name: "missing header", users: users, wantStatus: http.StatusUnauthorized, wantBody: `{"message":"Unauthenticated."}`},
		{name: "wrong scheme", users: users, header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized, wantBody: `{"message":"Unauthenticated."}`},
		{name: "empty token", users: users, header: "Bearer ", wantStatus: http.StatusUnauthorized, wantBody: `{"message":"Unauthenticated."}`},
		{name: "unknown token", users: users, header: "Bearer other", wantStatus: http.StatusUnauthorized, wantBody: `{"message":"Unauthenticated."}`},
		{name: "repository failure", users: &fakeUsers{err: errors.New("db down")}, header: "Bearer valid-token", wantStatus: http.StatusInternalServerError, wantBody: `{"error":"Internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Middleware(tt.users, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, ok := UserFromContext(r.Context())
				require.True(t, ok)
				_, _ = w.Write([]byte(got.Name))
			}))
			req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			} else {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
}

func TestDBUserRepository_FindByTokenHash(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewDBUserRepository(sqlx.NewDb(db, "mysql"))
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, name, email, created_at, updated_at FROM users WHERE api_token_hash = \\?").
		WithArgs("hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "created_at", "updated_at"}).
			AddRow(1, "Ada", "ada@example.com", now, now))
	mock.ExpectQuery("SELECT id, name, email").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "created_at", "updated_at"}))

	got, err := repo.FindByTokenHash(context.Background(), "hash")
	require.NoError(t, err)
	assert.Equal(t, &User{ID: 1, Name: "Ada", Email: "ada@example.com", CreatedAt: now, UpdatedAt: now}, got)

	got, err = repo.FindByTokenHash(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBUserRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewDBUserRepository(sqlx.NewDb(db, "mysql"))

	mock.ExpectExec("INSERT INTO users \\(name, email, api_token_hash\\)").
		WithArgs("Ada", "ada@example.com", "hash").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO users").
		WithArgs("Ada", "ada@example.com", "hash").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	got, err := repo.Create(context.Background(), "Ada", "ada@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, &User{ID: 5, Name: "Ada", Email: "ada@example.com"}, got)

	_, err = repo.Create(context.Background(), "Ada", "ada@example.com", "hash")
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Package auth identifies API users by bearer token.
package auth

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/dictionary-api/internal/apperr"
	"github.com/at-ishikawa/dictionary-api/internal/database"
)

type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

type UserRepository interface {
	FindByTokenHash(ctx context.Context, tokenHash string) (*User, error)
	Create(ctx context.Context, name, email, tokenHash string) (*User, error)
}

// DBUserRepository implements UserRepository using MySQL.
type DBUserRepository struct {
	db *sqlx.DB
}

func NewDBUserRepository(db *sqlx.DB) *DBUserRepository {
	return &DBUserRepository{db: db}
}

// FindByTokenHash returns the owner of tokenHash, or nil if there is none.
func (r *DBUserRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user,
		"SELECT id, name, email, created_at, updated_at FROM users WHERE api_token_hash = ?", tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(user) > %w", err)
	}
	return &user, nil
}

func (r *DBUserRepository) Create(ctx context.Context, name, email, tokenHash string) (*User, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO users (name, email, api_token_hash) VALUES (?, ?, ?)", name, email, tokenHash)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, fmt.Errorf("db.ExecContext(insert user) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("result.LastInsertId() > %w", err)
	}
	return &User{ID: id, Name: name, Email: email}, nil
}

// GenerateToken returns a new random API token. Only its hash is stored.
func GenerateToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

type contextKey struct{}

func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(contextKey{}).(*User)
	return user, ok && user != nil
}

package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/todoiti/todoiti/internal/model"
)

// TokenRepo persists refresh-token identities (one 'auth_tokens' row per
// issued refresh token). The row id doubles as the refresh JWT's jti
// claim, so a stolen database row cannot be replayed as a token.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Create inserts a fresh auth token row with valid=true and returns its id.
func (r *TokenRepo) Create(ctx context.Context, userID string) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO auth_tokens (token_id, user_id, valid) VALUES (?,?,TRUE)",
		id, userID)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Get looks up an auth token row by its id (the refresh JWT jti).
func (r *TokenRepo) Get(ctx context.Context, tokenID string) (model.AuthToken, error) {
	var t model.AuthToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT token_id, user_id, valid, created_at FROM auth_tokens WHERE token_id=? LIMIT 1",
		tokenID).Scan(&t.TokenID, &t.UserID, &t.Valid, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	return t, err
}

// RevokeAllForUser flips valid=false on every row of the user. Rows are
// kept, not deleted, to retain an audit trail of issued sessions.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE auth_tokens SET valid=FALSE WHERE user_id=? AND valid=TRUE",
		userID)
	return err
}

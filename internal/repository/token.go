package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/asistio/asistio/internal/model"
)

var (
	ErrTokenNotFound = errors.New("token not found")
)

type TokenRepository interface {
	Create(ctx context.Context, token *model.Token) error
	ConsumeToken(ctx context.Context, token string) (*model.Token, error)
	DeleteByUserAndType(ctx context.Context, userID, tokenType string) error
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *model.Token) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tokens (id, user_id, type, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, token.ID, token.UserID, token.Type, token.Token, token.ExpiresAt, token.CreatedAt)

	return err
}

// ConsumeToken atomically marks the token used and returns it, so only the
// first of two racing requests can succeed.
func (r *tokenRepository) ConsumeToken(ctx context.Context, token string) (*model.Token, error) {
	var t model.Token
	now := time.Now()

	err := r.db.GetContext(ctx, &t, `
		UPDATE tokens
		SET used_at = $1
		WHERE token = $2
		AND used_at IS NULL
		AND expires_at > $3
		RETURNING *
	`, now, token, now)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *tokenRepository) DeleteByUserAndType(ctx context.Context, userID, tokenType string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE user_id = $1 AND type = $2 AND used_at IS NULL`, userID, tokenType)
	return err
}

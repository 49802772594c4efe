package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic_booking/internal/model"

	"github.com/jackc/pgx/v5"
)

// TokenRepository is the key-value refresh token store: one token per
// (role, actor id) key with a server-enforced expiry.
type TokenRepository interface {
	Upsert(ctx context.Context, role, actorID, token string, expiresAt time.Time) error
	Find(ctx context.Context, role, actorID string) (*model.RefreshToken, error)
	Delete(ctx context.Context, role, actorID string) error
}

type tokenRepository struct {
	db DB
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db DB) TokenRepository {
	return &tokenRepository{db: db}
}

// Upsert stores the actor's refresh token, overwriting any previous one.
// Overwriting is the invalidation mechanism: only the most recent login's
// token remains valid.
func (r *tokenRepository) Upsert(ctx context.Context, role, actorID, token string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO refresh_tokens (actor_role, actor_id, token, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (actor_role, actor_id)
		 DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at, created_at = NOW()`,
		role, actorID, token, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// Find loads the stored token for an actor. Expired entries are treated as
// absent. Not found is (nil, nil).
func (r *tokenRepository) Find(ctx context.Context, role, actorID string) (*model.RefreshToken, error) {
	rt := &model.RefreshToken{}
	err := r.db.QueryRow(ctx,
		`SELECT actor_role, actor_id, token, expires_at, created_at
		 FROM refresh_tokens WHERE actor_role = $1 AND actor_id = $2 AND expires_at > NOW()`,
		role, actorID,
	).Scan(&rt.ActorRole, &rt.ActorID, &rt.Token, &rt.ExpiresAt, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}
	return rt, nil
}

// Delete removes the actor's stored token. Deleting an absent key is not an
// error, so logout is idempotent.
func (r *tokenRepository) Delete(ctx context.Context, role, actorID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE actor_role = $1 AND actor_id = $2`,
		role, actorID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

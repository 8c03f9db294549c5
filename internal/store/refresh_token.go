package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tutor-marketplace-api/internal/model"
)

func (s *Store) CreateRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) (string, error) {
	id := uuid.New().String()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at) VALUES ($1,$2,$3,$4)`,
		id, userID, tokenHash, expiresAt,
	)
	return id, err
}

func (s *Store) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	rt := &model.RefreshToken{}
	err := s.pool.QueryRow(ctx,
		`SELECT id::text, user_id, token_hash, expires_at, revoked, replaced_by::text, created_at
		 FROM refresh_tokens WHERE token_hash = $1`, tokenHash,
	).Scan(&rt.ID, &rt.UserID, &rt.TokenHash, &rt.ExpiresAt, &rt.Revoked, &rt.ReplacedBy, &rt.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return rt, nil
}

var ErrTokenReused = errors.New("refresh token already rotated")

// rotate: revoke old token, insert the new one and link them. A token that is
// already revoked loses the race and nothing is written.
func (s *Store) RotateRefreshToken(ctx context.Context, oldID string, userID int64, newHash string, newExpiry time.Time) (string, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	newID := uuid.New().String()

	_, err = tx.Exec(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at) VALUES ($1,$2,$3,$4)`,
		newID, userID, newHash, newExpiry,
	)
	if err != nil {
		return "", fmt.Errorf("insert refresh token: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true, replaced_by = $1
		 WHERE id = $2 AND user_id = $3 AND revoked = false`,
		newID, oldID, userID,
	)
	if err != nil {
		return "", fmt.Errorf("revoke refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return "", ErrTokenReused
	}

	return newID, tx.Commit(ctx)
}

// RevokeAllRefreshTokens revokes every live token of the user.
func (s *Store) RevokeAllRefreshTokens(ctx context.Context, userID int64) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true WHERE user_id = $1 AND revoked = false`,
		userID,
	)
	return err
}

// Package recovery stores single-use password reset tokens in Redis.
package recovery

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"tutor-marketplace-api/internal/auth"
)

const (
	keyPrefix  = "password_reset:"
	DefaultTTL = time.Hour
)

var ErrTokenNotFound = errors.New("reset token not found or expired")

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// Issue creates a reset token for userID. Only the hash of the token is
// written to Redis.
func (s *Store) Issue(ctx context.Context, userID int64) (string, error) {
	raw, hash, err := auth.GenerateOpaqueToken()
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+hash, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	return raw, nil
}

// Consume returns the user the token was issued for and deletes it, so a
// token works once.
func (s *Store) Consume(ctx context.Context, raw string) (int64, error) {
	v, err := s.rdb.GetDel(ctx, keyPrefix+auth.HashOpaqueToken(raw)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("consume reset token: %w", err)
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt reset token value %q: %w", v, err)
	}
	return id, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

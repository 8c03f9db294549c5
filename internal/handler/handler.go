package handler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"tutor-marketplace-api/internal/model"
	"tutor-marketplace-api/internal/recovery"
)

// Store is the persistence the handlers need; *store.Store satisfies it.
type Store interface {
	CreateUser(ctx context.Context, u *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, u *model.User) error
	UpdatePassword(ctx context.Context, userID int64, hash string) error

	CreateRefreshToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) (string, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	RotateRefreshToken(ctx context.Context, oldID string, userID int64, newHash string, newExpiry time.Time) (string, error)
	RevokeAllRefreshTokens(ctx context.Context, userID int64) error

	ListClasses(ctx context.Context, f model.ClassFilter) ([]model.ClassListing, error)
	CreateClass(ctx context.Context, c *model.Class) error
	ClassesByUser(ctx context.Context, userID int64) ([]model.Class, error)

	Ping(ctx context.Context) error
}

// Resets issues and redeems password reset tokens; *recovery.Store satisfies it.
type Resets interface {
	Issue(ctx context.Context, userID int64) (string, error)
	Consume(ctx context.Context, raw string) (int64, error)
}

type Handler struct {
	store  Store
	resets Resets
	mailer recovery.Mailer
	secret string
	log    *zap.Logger
}

func New(st Store, resets Resets, mailer recovery.Mailer, secret string, log *zap.Logger) *Handler {
	setupValidator()
	return &Handler{store: st, resets: resets, mailer: mailer, secret: secret, log: log}
}

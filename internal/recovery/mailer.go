package recovery

import (
	"context"

	"go.uber.org/zap"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes the reset token to the log instead of sending mail.
// Only meant for development setups.
type LogMailer struct {
	Log *zap.Logger
}

func (m LogMailer) SendPasswordReset(_ context.Context, email, token string) error {
	m.Log.Info("password reset requested",
		zap.String("email", email),
		zap.String("token", token))
	return nil
}

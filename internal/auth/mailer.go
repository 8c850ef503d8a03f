package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// LogMailer is a Mailer for local development. It writes the verification
// link to the log instead of sending mail.
type LogMailer struct {
	logger  zerolog.Logger
	baseURL string
}

// NewLogMailer creates a LogMailer. baseURL is the public API base used to
// build verification links.
func NewLogMailer(logger zerolog.Logger, baseURL string) *LogMailer {
	return &LogMailer{logger: logger, baseURL: baseURL}
}

// SendVerification logs the verification link for the given address.
func (m *LogMailer) SendVerification(_ context.Context, email, token string) error {
	link := fmt.Sprintf("%s/v1/auth/verify-email?token=%s", m.baseURL, token)
	m.logger.Info().
		Str("email", email).
		Str("link", link).
		Msg("verification email (dev mode, not sent)")
	return nil
}

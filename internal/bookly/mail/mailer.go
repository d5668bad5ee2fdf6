package mail

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/bookly/internal/bookly/domain"
)

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg domain.MailMessage) error
}

// MailerFunc adapts a function to Mailer.
type MailerFunc func(ctx context.Context, msg domain.MailMessage) error

func (f MailerFunc) Send(ctx context.Context, msg domain.MailMessage) error {
	return f(ctx, msg)
}

// LogMailer writes messages to the log instead of sending them. Used when no
// SMTP host is configured. Bodies are never logged since they carry links
// with action tokens.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, msg domain.MailMessage) error {
	m.Logger.InfoContext(ctx, "mail not sent (log mailer)",
		"to", strings.Join(msg.To, ","),
		"subject", msg.Subject,
	)
	return nil
}

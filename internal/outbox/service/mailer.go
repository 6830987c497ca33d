// Package service provides notification delivery for outbox events.
package service

import (
	"context"
	"log/slog"
)

// Notification is a rendered email.
type Notification struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers notifications. SMTP or provider transports implement it
// outside this module.
type Mailer interface {
	Send(ctx context.Context, n Notification) error
}

// LogMailer records deliveries in the application log. Bodies carry reset
// links and one-time codes, so they are only logged at debug level.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer writing to logger.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, n Notification) error {
	if m.logger == nil {
		return nil
	}
	m.logger.InfoContext(ctx, "email queued for delivery",
		slog.String("to", n.To),
		slog.String("subject", n.Subject),
	)
	m.logger.DebugContext(ctx, "email body", slog.String("to", n.To), slog.String("body", n.Body))
	return nil
}

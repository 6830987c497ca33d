package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/hireflow/internal/outbox/domain"
	"github.com/allisson/hireflow/internal/outbox/service"
)

// ResetTokenIssuer mints password reset tokens.
type ResetTokenIssuer interface {
	IssueReset(identityID uuid.UUID) (string, error)
}

// NotificationProcessor renders the email for each known event type and
// hands it to a Mailer.
type NotificationProcessor struct {
	mailer       service.Mailer
	resetTokens  ResetTokenIssuer
	resetURLBase string
	logger       *slog.Logger
}

// NewNotificationProcessor creates a NotificationProcessor. Reset links are
// resetURLBase with a freshly issued token in the "token" query parameter.
func NewNotificationProcessor(
	mailer service.Mailer,
	resetTokens ResetTokenIssuer,
	resetURLBase string,
	logger *slog.Logger,
) *NotificationProcessor {
	return &NotificationProcessor{
		mailer:       mailer,
		resetTokens:  resetTokens,
		resetURLBase: resetURLBase,
		logger:       logger,
	}
}

// Process renders and sends event. Unknown event types are logged and
// acknowledged so they do not block the queue.
func (p *NotificationProcessor) Process(ctx context.Context, event *domain.OutboxEvent) error {
	n, ok, err := p.render(event)
	if err != nil {
		return err
	}
	if !ok {
		if p.logger != nil {
			p.logger.Warn("unknown outbox event type", slog.String("event_type", event.EventType))
		}
		return nil
	}
	return p.mailer.Send(ctx, n)
}

func (p *NotificationProcessor) render(event *domain.OutboxEvent) (service.Notification, bool, error) {
	switch event.EventType {
	case domain.EventTypeUserCreated:
		var payload domain.UserCreatedPayload
		if err := decode(event, &payload); err != nil {
			return service.Notification{}, false, err
		}
		return service.Notification{
			To:      payload.Email,
			Subject: "Welcome to Hireflow",
			Body:    fmt.Sprintf("Hi %s, your %s account has been created.", payload.Name, payload.Role),
		}, true, nil

	case domain.EventTypePasswordResetRequested:
		var payload domain.PasswordResetRequestedPayload
		if err := decode(event, &payload); err != nil {
			return service.Notification{}, false, err
		}
		link, err := p.resetLink(payload.IdentityID)
		if err != nil {
			return service.Notification{}, false, err
		}
		return service.Notification{
			To:      payload.Email,
			Subject: "Password Reset Request",
			Body:    "Click the link to reset your password: " + link,
		}, true, nil

	case domain.EventTypePasswordResetCompleted:
		var payload domain.PasswordResetCompletedPayload
		if err := decode(event, &payload); err != nil {
			return service.Notification{}, false, err
		}
		return service.Notification{
			To:      payload.Email,
			Subject: "Password Reset Successful",
			Body: "Your password has been successfully reset. " +
				"If you did not request this change, please contact support immediately.",
		}, true, nil

	case domain.EventTypeCandidateOTPIssued:
		var payload domain.CandidateOTPIssuedPayload
		if err := decode(event, &payload); err != nil {
			return service.Notification{}, false, err
		}
		return service.Notification{
			To:      payload.Email,
			Subject: "Your login code",
			Body: fmt.Sprintf("Hi %s, your one-time code is %s. It expires at %s.",
				payload.Name, payload.Code, payload.ExpiresAt.UTC().Format(time.RFC1123)),
		}, true, nil
	}

	return service.Notification{}, false, nil
}

func (p *NotificationProcessor) resetLink(identityID string) (string, error) {
	id, err := uuid.Parse(identityID)
	if err != nil {
		return "", fmt.Errorf("invalid identity id in reset event: %w", err)
	}
	if p.resetTokens == nil {
		return "", errors.New("reset token issuer is not configured")
	}

	token, err := p.resetTokens.IssueReset(id)
	if err != nil {
		return "", fmt.Errorf("failed to issue reset token: %w", err)
	}

	u, err := url.Parse(p.resetURLBase)
	if err != nil {
		return "", fmt.Errorf("invalid reset url base: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func decode(event *domain.OutboxEvent, v any) error {
	if err := json.Unmarshal([]byte(event.Payload), v); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", event.EventType, err)
	}
	return nil
}

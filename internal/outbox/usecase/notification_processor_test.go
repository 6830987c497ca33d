package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/hireflow/internal/outbox/domain"
	"github.com/allisson/hireflow/internal/outbox/service"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, n service.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockResetTokenIssuer struct {
	mock.Mock
}

func (m *MockResetTokenIssuer) IssueReset(identityID uuid.UUID) (string, error) {
	args := m.Called(identityID)
	return args.String(0), args.Error(1)
}

const resetURLBase = "http://localhost:3000/ResetPassword"

func newEvent(t *testing.T, eventType string, payload any) *domain.OutboxEvent {
	t.Helper()
	event, err := domain.NewOutboxEvent(eventType, payload, time.Now())
	require.NoError(t, err)
	return event
}

func TestNotificationProcessor_Process(t *testing.T) {
	identityID := uuid.Must(uuid.NewV7())
	expires := time.Date(2026, 5, 1, 10, 5, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   *domain.OutboxEvent
		to      string
		subject string
		body    string
	}{
		{
			name: "user created",
			event: newEvent(t, domain.EventTypeUserCreated, domain.UserCreatedPayload{
				Name: "Ada", Email: "ada@acme.test", Role: "recruiter",
			}),
			to:      "ada@acme.test",
			subject: "Welcome to Hireflow",
			body:    "recruiter account",
		},
		{
			name: "password reset requested",
			event: newEvent(t, domain.EventTypePasswordResetRequested, domain.PasswordResetRequestedPayload{
				IdentityID: identityID.String(), Email: "ada@acme.test",
			}),
			to:      "ada@acme.test",
			subject: "Password Reset Request",
			body:    "http://localhost:3000/ResetPassword?token=reset-abc",
		},
		{
			name: "password reset completed",
			event: newEvent(t, domain.EventTypePasswordResetCompleted, domain.PasswordResetCompletedPayload{
				Email: "ada@acme.test",
			}),
			to:      "ada@acme.test",
			subject: "Password Reset Successful",
			body:    "contact support",
		},
		{
			name: "candidate otp issued",
			event: newEvent(t, domain.EventTypeCandidateOTPIssued, domain.CandidateOTPIssuedPayload{
				Name: "Grace", Email: "grace@mail.test", Code: "042917", ExpiresAt: expires,
			}),
			to:      "grace@mail.test",
			subject: "Your login code",
			body:    "042917",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &MockMailer{}
			mailer.On("Send", mock.Anything, mock.MatchedBy(func(n service.Notification) bool {
				return n.To == tt.to && n.Subject == tt.subject && strings.Contains(n.Body, tt.body)
			})).Return(nil)
			issuer := &MockResetTokenIssuer{}
			issuer.On("IssueReset", identityID).Return("reset-abc", nil).Maybe()

			err := NewNotificationProcessor(mailer, issuer, resetURLBase, nil).Process(context.Background(), tt.event)

			assert.NoError(t, err)
			mailer.AssertExpectations(t)
		})
	}
}

func TestNotificationProcessor_UnknownEventType(t *testing.T) {
	mailer := &MockMailer{}
	event := &domain.OutboxEvent{EventType: "unknown.event", Payload: `{}`}

	err := NewNotificationProcessor(mailer, nil, resetURLBase, nil).Process(context.Background(), event)

	assert.NoError(t, err)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNotificationProcessor_InvalidPayload(t *testing.T) {
	mailer := &MockMailer{}
	event := &domain.OutboxEvent{EventType: domain.EventTypeUserCreated, Payload: `invalid json`}

	err := NewNotificationProcessor(mailer, nil, resetURLBase, nil).Process(context.Background(), event)

	assert.ErrorContains(t, err, "failed to decode user.created payload")
}

func TestNotificationProcessor_MailerError(t *testing.T) {
	mailer := &MockMailer{}
	mailer.On("Send", mock.Anything, mock.Anything).Return(assert.AnError)
	event := newEvent(t, domain.EventTypePasswordResetCompleted, domain.PasswordResetCompletedPayload{Email: "a@b.test"})

	err := NewNotificationProcessor(mailer, nil, resetURLBase, nil).Process(context.Background(), event)

	assert.ErrorIs(t, err, assert.AnError)
}

func TestNotificationProcessor_PasswordResetRequested(t *testing.T) {
	identityID := uuid.Must(uuid.NewV7())

	t.Run("Success_TokenIssuedAtDelivery", func(t *testing.T) {
		event := newEvent(t, domain.EventTypePasswordResetRequested, domain.PasswordResetRequestedPayload{
			IdentityID: identityID.String(), Email: "ada@acme.test",
		})
		assert.NotContains(t, event.Payload, "token")

		issuer := &MockResetTokenIssuer{}
		issuer.On("IssueReset", identityID).Return("first", nil).Once()
		issuer.On("IssueReset", identityID).Return("second", nil).Once()

		var bodies []string
		mailer := &MockMailer{}
		mailer.On("Send", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				bodies = append(bodies, args.Get(1).(service.Notification).Body)
			}).
			Return(nil)

		processor := NewNotificationProcessor(mailer, issuer, resetURLBase, nil)
		require.NoError(t, processor.Process(context.Background(), event))
		require.NoError(t, processor.Process(context.Background(), event))

		require.Len(t, bodies, 2)
		assert.Contains(t, bodies[0], resetURLBase+"?token=first")
		assert.Contains(t, bodies[1], resetURLBase+"?token=second")
		issuer.AssertExpectations(t)
	})

	t.Run("Error_InvalidIdentityID", func(t *testing.T) {
		event := newEvent(t, domain.EventTypePasswordResetRequested, domain.PasswordResetRequestedPayload{
			IdentityID: "not-a-uuid", Email: "ada@acme.test",
		})
		mailer := &MockMailer{}

		err := NewNotificationProcessor(mailer, &MockResetTokenIssuer{}, resetURLBase, nil).
			Process(context.Background(), event)

		assert.ErrorContains(t, err, "invalid identity id")
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Error_IssuerFails", func(t *testing.T) {
		event := newEvent(t, domain.EventTypePasswordResetRequested, domain.PasswordResetRequestedPayload{
			IdentityID: identityID.String(), Email: "ada@acme.test",
		})
		issuer := &MockResetTokenIssuer{}
		issuer.On("IssueReset", identityID).Return("", assert.AnError).Once()
		mailer := &MockMailer{}

		err := NewNotificationProcessor(mailer, issuer, resetURLBase, nil).Process(context.Background(), event)

		assert.ErrorIs(t, err, assert.AnError)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

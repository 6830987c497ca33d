// Package domain defines transactional outbox events and the notification
// payloads the auth core emits through them.
package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OutboxEventStatus represents the delivery state of an outbox event.
type OutboxEventStatus string

const (
	OutboxEventStatusPending   OutboxEventStatus = "pending"
	OutboxEventStatusProcessed OutboxEventStatus = "processed"
	OutboxEventStatusFailed    OutboxEventStatus = "failed"
)

// Event types written by the auth and candidate use cases.
const (
	EventTypeUserCreated            = "user.created"
	EventTypePasswordResetRequested = "auth.password_reset_requested"
	EventTypePasswordResetCompleted = "auth.password_reset_completed"
	EventTypeCandidateOTPIssued     = "candidate.otp_issued"
)

// OutboxEvent is a pending side effect stored in the same transaction as the
// state change that caused it.
type OutboxEvent struct {
	ID          uuid.UUID
	EventType   string
	Payload     string
	Status      OutboxEventStatus
	Retries     int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOutboxEvent builds a pending event with payload encoded as JSON.
func NewOutboxEvent(eventType string, payload any, now time.Time) (*OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate event id: %w", err)
	}

	return &OutboxEvent{
		ID:        id,
		EventType: eventType,
		Payload:   string(body),
		Status:    OutboxEventStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UserCreatedPayload is the body of user.created.
type UserCreatedPayload struct {
	IdentityID string `json:"identity_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

// PasswordResetRequestedPayload is the body of auth.password_reset_requested.
// It carries no token; the reset link is built at delivery time.
type PasswordResetRequestedPayload struct {
	IdentityID string `json:"identity_id"`
	Email      string `json:"email"`
}

// PasswordResetCompletedPayload is the body of auth.password_reset_completed.
type PasswordResetCompletedPayload struct {
	IdentityID string `json:"identity_id"`
	Email      string `json:"email"`
}

// CandidateOTPIssuedPayload is the body of candidate.otp_issued. The code is
// delivered out of band and never returned over HTTP.
type CandidateOTPIssuedPayload struct {
	CandidateID string    `json:"candidate_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Code        string    `json:"code"`
	ExpiresAt   time.Time `json:"expires_at"`
}

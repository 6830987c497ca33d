package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxEvent(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	event, err := NewOutboxEvent(EventTypeUserCreated, UserCreatedPayload{
		IdentityID: "0190f0a0-0000-7000-8000-000000000001",
		Name:       "Ada",
		Email:      "ada@acme.test",
		Role:       "recruiter",
	}, now)
	require.NoError(t, err)

	assert.Equal(t, EventTypeUserCreated, event.EventType)
	assert.Equal(t, OutboxEventStatusPending, event.Status)
	assert.Equal(t, now, event.CreatedAt)
	assert.Equal(t, 0, event.Retries)
	assert.Nil(t, event.ProcessedAt)
	assert.Equal(t, uuid.Version(7), event.ID.Version())

	var decoded UserCreatedPayload
	require.NoError(t, json.Unmarshal([]byte(event.Payload), &decoded))
	assert.Equal(t, "ada@acme.test", decoded.Email)
}

func TestNewOutboxEvent_UnencodablePayload(t *testing.T) {
	_, err := NewOutboxEvent(EventTypeUserCreated, map[string]any{"ch": make(chan int)}, time.Now())
	assert.ErrorContains(t, err, "failed to marshal user.created payload")
}

// Package usecase implements the candidate one-time password login flow.
package usecase

import (
	"context"

	"github.com/google/uuid"

	candidateDomain "github.com/allisson/hireflow/internal/candidate/domain"
	outboxDomain "github.com/allisson/hireflow/internal/outbox/domain"
)

// CandidateRepository defines persistence operations for candidates.
type CandidateRepository interface {
	Create(ctx context.Context, candidate *candidateDomain.Candidate) error
	GetByEmail(ctx context.Context, email string) (*candidateDomain.Candidate, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*candidateDomain.Candidate, error)
	UpdateOTP(ctx context.Context, candidate *candidateDomain.Candidate) error
}

// OutboxEventRepository queues the OTP email.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// CandidateUseCase defines the OTP operations.
type CandidateUseCase interface {
	// Login finds or creates the candidate by email and issues a fresh OTP.
	Login(ctx context.Context, name, email string) (*candidateDomain.Candidate, error)

	// IssueOTP replaces the candidate's challenge with a new code and queues
	// it for delivery. The code is returned for callers that deliver it
	// themselves; HTTP never exposes it.
	IssueOTP(ctx context.Context, candidateID uuid.UUID) (string, error)

	// VerifyOTP reports whether code matches the live challenge within the
	// window. A match consumes the challenge; a mismatch leaves it intact.
	VerifyOTP(ctx context.Context, candidateID uuid.UUID, code string) (bool, error)
}

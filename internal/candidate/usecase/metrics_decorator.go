package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	candidateDomain "github.com/allisson/hireflow/internal/candidate/domain"
	"github.com/allisson/hireflow/internal/metrics"
)

const metricsDomain = "candidate"

type candidateUseCaseWithMetrics struct {
	next    CandidateUseCase
	metrics metrics.BusinessMetrics
}

// NewCandidateUseCaseWithMetrics wraps a CandidateUseCase with metrics recording.
// A rejected code counts as an error.
func NewCandidateUseCaseWithMetrics(useCase CandidateUseCase, m metrics.BusinessMetrics) CandidateUseCase {
	return &candidateUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *candidateUseCaseWithMetrics) Login(
	ctx context.Context,
	name, email string,
) (*candidateDomain.Candidate, error) {
	start := time.Now()
	candidate, err := c.next.Login(ctx, name, email)
	metrics.Observe(ctx, c.metrics, metricsDomain, "login", start, err)
	return candidate, err
}

func (c *candidateUseCaseWithMetrics) IssueOTP(ctx context.Context, candidateID uuid.UUID) (string, error) {
	start := time.Now()
	code, err := c.next.IssueOTP(ctx, candidateID)
	metrics.Observe(ctx, c.metrics, metricsDomain, "issue_otp", start, err)
	return code, err
}

func (c *candidateUseCaseWithMetrics) VerifyOTP(
	ctx context.Context,
	candidateID uuid.UUID,
	code string,
) (bool, error) {
	start := time.Now()
	ok, err := c.next.VerifyOTP(ctx, candidateID, code)

	observed := err
	if err == nil && !ok {
		observed = candidateDomain.ErrInvalidOTP
	}
	metrics.Observe(ctx, c.metrics, metricsDomain, "verify_otp", start, observed)
	return ok, err
}

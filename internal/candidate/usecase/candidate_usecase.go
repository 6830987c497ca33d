package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	candidateDomain "github.com/allisson/hireflow/internal/candidate/domain"
	candidateService "github.com/allisson/hireflow/internal/candidate/service"
	"github.com/allisson/hireflow/internal/database"
	outboxDomain "github.com/allisson/hireflow/internal/outbox/domain"
	customValidation "github.com/allisson/hireflow/internal/validation"
)

// DefaultOTPWindow is how long an issued code stays valid.
const DefaultOTPWindow = 300 * time.Second

type candidateUseCase struct {
	txManager     database.TxManager
	candidateRepo CandidateRepository
	outboxRepo    OutboxEventRepository
	generator     candidateService.OTPGenerator
	window        time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// NewCandidateUseCase creates the OTP use case. A non-positive window falls
// back to DefaultOTPWindow.
func NewCandidateUseCase(
	txManager database.TxManager,
	candidateRepo CandidateRepository,
	outboxRepo OutboxEventRepository,
	generator candidateService.OTPGenerator,
	window time.Duration,
	logger *slog.Logger,
) CandidateUseCase {
	if window <= 0 {
		window = DefaultOTPWindow
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &candidateUseCase{
		txManager:     txManager,
		candidateRepo: candidateRepo,
		outboxRepo:    outboxRepo,
		generator:     generator,
		window:        window,
		logger:        logger,
		now:           time.Now,
	}
}

func (u *candidateUseCase) Login(ctx context.Context, name, email string) (*candidateDomain.Candidate, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	err := validation.Errors{
		"name":  validation.Validate(name, validation.Required, validation.Length(1, 255)),
		"email": validation.Validate(email, validation.Required, validation.Length(3, 255), customValidation.Email),
	}.Filter()
	if err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	candidate, err := u.findOrCreate(ctx, name, email)
	if err != nil {
		return nil, err
	}

	if _, err := u.IssueOTP(ctx, candidate.ID); err != nil {
		return nil, err
	}
	return candidate, nil
}

func (u *candidateUseCase) findOrCreate(ctx context.Context, name, email string) (*candidateDomain.Candidate, error) {
	candidate, err := u.candidateRepo.GetByEmail(ctx, email)
	if err == nil {
		return candidate, nil
	}
	if !errors.Is(err, candidateDomain.ErrCandidateNotFound) {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	now := u.now().UTC()
	candidate = &candidateDomain.Candidate{
		ID:        id,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = u.candidateRepo.Create(ctx, candidate)
	if errors.Is(err, candidateDomain.ErrDuplicateCandidateEmail) {
		// a concurrent login created it first
		return u.candidateRepo.GetByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}

	u.logger.InfoContext(ctx, "candidate created", slog.String("candidate_id", candidate.ID.String()))
	return candidate, nil
}

func (u *candidateUseCase) IssueOTP(ctx context.Context, candidateID uuid.UUID) (string, error) {
	code, err := u.generator.Generate()
	if err != nil {
		return "", err
	}

	err = u.txManager.WithTx(ctx, func(ctx context.Context) error {
		candidate, err := u.candidateRepo.GetByIDForUpdate(ctx, candidateID)
		if err != nil {
			return err
		}

		now := u.now().UTC()
		candidate.SetOTP(code, now)
		if err := u.candidateRepo.UpdateOTP(ctx, candidate); err != nil {
			return err
		}

		event, err := outboxDomain.NewOutboxEvent(
			outboxDomain.EventTypeCandidateOTPIssued,
			outboxDomain.CandidateOTPIssuedPayload{
				CandidateID: candidate.ID.String(),
				Name:        candidate.Name,
				Email:       candidate.Email,
				Code:        code,
				ExpiresAt:   now.Add(u.window),
			},
			now,
		)
		if err != nil {
			return err
		}
		return u.outboxRepo.Create(ctx, event)
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

func (u *candidateUseCase) VerifyOTP(ctx context.Context, candidateID uuid.UUID, code string) (bool, error) {
	code = strings.TrimSpace(code)

	var verified bool
	err := u.txManager.WithTx(ctx, func(ctx context.Context) error {
		candidate, err := u.candidateRepo.GetByIDForUpdate(ctx, candidateID)
		if err != nil {
			return err
		}

		now := u.now().UTC()
		if !candidate.OTPMatches(code, now, u.window) {
			return nil
		}

		candidate.ClearOTP(now)
		if err := u.candidateRepo.UpdateOTP(ctx, candidate); err != nil {
			return err
		}
		verified = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if !verified {
		u.logger.InfoContext(ctx, "otp verification failed", slog.String("candidate_id", candidateID.String()))
	}
	return verified, nil
}

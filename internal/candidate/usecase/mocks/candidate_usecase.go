// Package mocks provides testify mocks for the candidate use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	candidateDomain "github.com/allisson/hireflow/internal/candidate/domain"
)

// MockCandidateUseCase is a mock implementation of usecase.CandidateUseCase.
type MockCandidateUseCase struct {
	mock.Mock
}

func (m *MockCandidateUseCase) Login(
	ctx context.Context,
	name, email string,
) (*candidateDomain.Candidate, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*candidateDomain.Candidate), args.Error(1)
}

func (m *MockCandidateUseCase) IssueOTP(ctx context.Context, candidateID uuid.UUID) (string, error) {
	args := m.Called(ctx, candidateID)
	return args.String(0), args.Error(1)
}

func (m *MockCandidateUseCase) VerifyOTP(ctx context.Context, candidateID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, candidateID, code)
	return args.Bool(0), args.Error(1)
}

package domain

import (
	"github.com/allisson/hireflow/internal/errors"
)

// Candidate errors.
var (
	// ErrCandidateNotFound indicates no candidate matches the given id or email.
	ErrCandidateNotFound = errors.Wrap(errors.ErrNotFound, "candidate not found")

	// ErrDuplicateCandidateEmail indicates a concurrent login created the candidate first.
	ErrDuplicateCandidateEmail = errors.Wrap(errors.ErrConflict, "candidate email already registered")

	// ErrInvalidOTP covers a wrong code, an expired code and a missing challenge.
	ErrInvalidOTP = errors.Wrap(errors.ErrUnauthorized, "invalid or expired OTP")
)

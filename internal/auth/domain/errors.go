package domain

import (
	"github.com/allisson/hireflow/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrIdentityNotFound indicates no identity matches the given id or email.
	ErrIdentityNotFound = errors.Wrap(errors.ErrNotFound, "identity not found")

	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.Wrap(errors.ErrConflict, "email already registered")

	// ErrInvalidCredentials is returned for both unknown emails and wrong passwords.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrInvalidToken covers bad signatures, malformed tokens and purpose mismatches.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrExpiredToken indicates a well formed token past its expiry.
	ErrExpiredToken = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrUnauthenticated indicates a missing or unusable access token.
	ErrUnauthenticated = errors.Wrap(errors.ErrUnauthorized, "could not validate credentials")

	// ErrInvalidResetToken is the client-facing error for a bad reset token.
	ErrInvalidResetToken = errors.Wrap(errors.ErrInvalidInput, "invalid or expired reset token")

	// ErrCompanyNameRequired indicates a recruiter signed up without a company.
	ErrCompanyNameRequired = errors.Wrap(errors.ErrInvalidInput, "company_name is required for recruiters")

	// ErrInvalidRole indicates a role outside the known set.
	ErrInvalidRole = errors.Wrap(errors.ErrInvalidInput, "invalid role")

	// ErrOperationNotPermitted indicates the identity's role is not allowed.
	ErrOperationNotPermitted = errors.Wrap(errors.ErrForbidden, "operation not permitted")
)

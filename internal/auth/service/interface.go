// Package service provides the password, token and signing key primitives of
// the authentication core.
package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/hireflow/internal/auth/domain"
)

// PasswordHasher hashes and verifies identity passwords.
type PasswordHasher interface {
	// Hash returns an Argon2id PHC string with a fresh random salt.
	Hash(password string) (string, error)

	// Verify reports whether password matches digest. Malformed digests never
	// match and never panic.
	Verify(password, digest string) bool

	// NeedsRehash reports whether digest was produced by a legacy scheme and
	// should be replaced on the next successful login.
	NeedsRehash(digest string) bool
}

// TokenService issues and verifies signed, expiring, purpose-bound tokens.
type TokenService interface {
	IssueAccess(identityID uuid.UUID, role domain.Role, ttl time.Duration) (string, error)
	IssueRefresh(identityID uuid.UUID) (string, error)
	IssueReset(identityID uuid.UUID) (string, error)

	// Verify checks signature, expiry and purpose. It fails with
	// domain.ErrExpiredToken past expiry and domain.ErrInvalidToken otherwise.
	Verify(token string, expected domain.TokenPurpose) (*domain.Claims, error)
}

// Package usecase implements the auth gateway: signup, login, token refresh,
// password reset and current identity resolution.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/hireflow/internal/auth/domain"
	outboxDomain "github.com/allisson/hireflow/internal/outbox/domain"
)

// IdentityRepository defines persistence operations for identities.
// Implementations must join the transaction carried by ctx.
type IdentityRepository interface {
	// Create stores identity. Returns ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, identity *authDomain.Identity) error

	// GetByID returns ErrIdentityNotFound when no identity has id.
	GetByID(ctx context.Context, id uuid.UUID) (*authDomain.Identity, error)

	// GetByEmail returns ErrIdentityNotFound when no identity has email.
	GetByEmail(ctx context.Context, email string) (*authDomain.Identity, error)

	// UpdatePasswordHash returns ErrIdentityNotFound when no row was updated.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string, updatedAt time.Time) error

	List(ctx context.Context, offset, limit int) ([]*authDomain.Identity, error)
}

// OutboxEventRepository stores notification events next to the state change
// that produced them.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// AuthUseCase defines the authentication and identity operations.
type AuthUseCase interface {
	// Signup registers a recruiter or company identity. Recruiters must name
	// their company.
	Signup(ctx context.Context, input *authDomain.SignupInput) (*authDomain.Identity, error)

	// CreateIdentity registers an identity of any role. It backs the
	// create-user command used to bootstrap administrators.
	CreateIdentity(ctx context.Context, input *authDomain.SignupInput) (*authDomain.Identity, error)

	// Login exchanges credentials for an access and refresh token pair.
	// Unknown email and wrong password both yield ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*authDomain.TokenPair, error)

	// Refresh mints a new access token from a refresh token. The returned
	// pair has no refresh token.
	Refresh(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error)

	// ForgotPassword issues a reset token and queues the reset email.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword replaces the password of the reset token's subject.
	ResetPassword(ctx context.Context, resetToken, newPassword string) error

	// ResolveCurrentIdentity returns the identity behind an access token.
	ResolveCurrentIdentity(ctx context.Context, accessToken string) (*authDomain.Identity, error)

	GetIdentity(ctx context.Context, id uuid.UUID) (*authDomain.Identity, error)
	ListIdentities(ctx context.Context, offset, limit int) ([]*authDomain.Identity, error)
}

package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/hireflow/internal/auth/domain"
	"github.com/allisson/hireflow/internal/metrics"
)

const metricsDomain = "auth"

// authUseCaseWithMetrics decorates AuthUseCase with business metrics.
type authUseCaseWithMetrics struct {
	next    AuthUseCase
	metrics metrics.BusinessMetrics
}

// NewAuthUseCaseWithMetrics wraps an AuthUseCase with metrics recording.
func NewAuthUseCaseWithMetrics(useCase AuthUseCase, m metrics.BusinessMetrics) AuthUseCase {
	return &authUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *authUseCaseWithMetrics) Signup(
	ctx context.Context,
	input *authDomain.SignupInput,
) (*authDomain.Identity, error) {
	start := time.Now()
	identity, err := a.next.Signup(ctx, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "signup", start, err)
	return identity, err
}

func (a *authUseCaseWithMetrics) CreateIdentity(
	ctx context.Context,
	input *authDomain.SignupInput,
) (*authDomain.Identity, error) {
	start := time.Now()
	identity, err := a.next.CreateIdentity(ctx, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "create_identity", start, err)
	return identity, err
}

func (a *authUseCaseWithMetrics) Login(ctx context.Context, email, password string) (*authDomain.TokenPair, error) {
	start := time.Now()
	pair, err := a.next.Login(ctx, email, password)
	metrics.Observe(ctx, a.metrics, metricsDomain, "login", start, err)
	return pair, err
}

func (a *authUseCaseWithMetrics) Refresh(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error) {
	start := time.Now()
	pair, err := a.next.Refresh(ctx, refreshToken)
	metrics.Observe(ctx, a.metrics, metricsDomain, "refresh", start, err)
	return pair, err
}

func (a *authUseCaseWithMetrics) ForgotPassword(ctx context.Context, email string) error {
	start := time.Now()
	err := a.next.ForgotPassword(ctx, email)
	metrics.Observe(ctx, a.metrics, metricsDomain, "forgot_password", start, err)
	return err
}

func (a *authUseCaseWithMetrics) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	start := time.Now()
	err := a.next.ResetPassword(ctx, resetToken, newPassword)
	metrics.Observe(ctx, a.metrics, metricsDomain, "reset_password", start, err)
	return err
}

func (a *authUseCaseWithMetrics) ResolveCurrentIdentity(
	ctx context.Context,
	accessToken string,
) (*authDomain.Identity, error) {
	start := time.Now()
	identity, err := a.next.ResolveCurrentIdentity(ctx, accessToken)
	metrics.Observe(ctx, a.metrics, metricsDomain, "resolve_identity", start, err)
	return identity, err
}

func (a *authUseCaseWithMetrics) GetIdentity(ctx context.Context, id uuid.UUID) (*authDomain.Identity, error) {
	start := time.Now()
	identity, err := a.next.GetIdentity(ctx, id)
	metrics.Observe(ctx, a.metrics, metricsDomain, "get_identity", start, err)
	return identity, err
}

func (a *authUseCaseWithMetrics) ListIdentities(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.Identity, error) {
	start := time.Now()
	identities, err := a.next.ListIdentities(ctx, offset, limit)
	metrics.Observe(ctx, a.metrics, metricsDomain, "list_identities", start, err)
	return identities, err
}

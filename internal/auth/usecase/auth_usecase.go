package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/hireflow/internal/auth/domain"
	authService "github.com/allisson/hireflow/internal/auth/service"
	"github.com/allisson/hireflow/internal/database"
	outboxDomain "github.com/allisson/hireflow/internal/outbox/domain"
	customValidation "github.com/allisson/hireflow/internal/validation"
)

// Config holds auth gateway settings.
type Config struct {
	AccessTokenTTL   time.Duration
	MaskUnknownEmail bool
}

// Validate rejects settings that would fail every login.
func (c Config) Validate() error {
	if c.AccessTokenTTL <= 0 {
		return errors.New("access token lifetime must be positive")
	}
	return nil
}

// selfServiceRoles are the roles a public signup may request.
var selfServiceRoles = []authDomain.Role{authDomain.RoleRecruiter, authDomain.RoleCompany}

type authUseCase struct {
	cfg          Config
	txManager    database.TxManager
	identityRepo IdentityRepository
	outboxRepo   OutboxEventRepository
	hasher       authService.PasswordHasher
	tokens       authService.TokenService
	logger       *slog.Logger
	now          func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthUseCase creates the auth gateway.
func NewAuthUseCase(
	cfg Config,
	txManager database.TxManager,
	identityRepo IdentityRepository,
	outboxRepo OutboxEventRepository,
	hasher authService.PasswordHasher,
	tokens authService.TokenService,
	logger *slog.Logger,
) AuthUseCase {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &authUseCase{
		cfg:          cfg,
		txManager:    txManager,
		identityRepo: identityRepo,
		outboxRepo:   outboxRepo,
		hasher:       hasher,
		tokens:       tokens,
		logger:       logger,
		now:          time.Now,
	}
}

func (a *authUseCase) Signup(ctx context.Context, input *authDomain.SignupInput) (*authDomain.Identity, error) {
	return a.create(ctx, input, selfServiceRoles)
}

func (a *authUseCase) CreateIdentity(
	ctx context.Context,
	input *authDomain.SignupInput,
) (*authDomain.Identity, error) {
	return a.create(ctx, input, nil)
}

func (a *authUseCase) create(
	ctx context.Context,
	input *authDomain.SignupInput,
	allowed []authDomain.Role,
) (*authDomain.Identity, error) {
	normalizeSignup(input)
	if err := validateSignup(input); err != nil {
		return nil, err
	}

	role, err := authDomain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}
	if allowed != nil && !containsRole(allowed, role) {
		return nil, authDomain.ErrInvalidRole
	}
	if role == authDomain.RoleRecruiter && input.CompanyName == "" {
		return nil, authDomain.ErrCompanyNameRequired
	}

	passwordHash, err := a.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	now := a.now().UTC()
	identity := &authDomain.Identity{
		ID:             id,
		Name:           input.Name,
		Username:       optional(input.Username),
		Email:          input.Email,
		PasswordHash:   passwordHash,
		Role:           role,
		CompanyName:    optional(input.CompanyName),
		CompanyWebsite: optional(input.CompanyWebsite),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	event, err := outboxDomain.NewOutboxEvent(outboxDomain.EventTypeUserCreated, outboxDomain.UserCreatedPayload{
		IdentityID: identity.ID.String(),
		Name:       identity.Name,
		Email:      identity.Email,
		Role:       string(identity.Role),
	}, now)
	if err != nil {
		return nil, err
	}

	err = a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := a.identityRepo.Create(ctx, identity); err != nil {
			return err
		}
		return a.outboxRepo.Create(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "identity created",
		slog.String("identity_id", identity.ID.String()),
		slog.String("role", string(identity.Role)),
	)
	return identity, nil
}

func (a *authUseCase) Login(ctx context.Context, email, password string) (*authDomain.TokenPair, error) {
	identity, err := a.identityRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, authDomain.ErrIdentityNotFound) {
			// keep the unknown-email path as slow as a wrong password
			a.hasher.Verify(password, a.getDummyHash())
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !a.hasher.Verify(password, identity.PasswordHash) {
		return nil, authDomain.ErrInvalidCredentials
	}

	if a.hasher.NeedsRehash(identity.PasswordHash) {
		a.upgradeHash(ctx, identity, password)
	}

	access, err := a.tokens.IssueAccess(identity.ID, identity.Role, a.cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := a.tokens.IssueRefresh(identity.ID)
	if err != nil {
		return nil, err
	}

	return &authDomain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    authDomain.TokenTypeBearer,
		Role:         identity.Role,
		Email:        identity.Email,
	}, nil
}

// upgradeHash replaces a legacy digest after a successful login. Failures
// are logged and do not fail the login.
func (a *authUseCase) upgradeHash(ctx context.Context, identity *authDomain.Identity, password string) {
	newHash, err := a.hasher.Hash(password)
	if err == nil {
		err = a.identityRepo.UpdatePasswordHash(ctx, identity.ID, newHash, a.now().UTC())
	}
	if err != nil {
		a.logger.WarnContext(ctx, "failed to upgrade legacy password hash",
			slog.String("identity_id", identity.ID.String()),
			slog.Any("error", err),
		)
		return
	}
	identity.PasswordHash = newHash
}

func (a *authUseCase) getDummyHash() string {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash(uuid.NewString())
		if err != nil {
			a.logger.Error("failed to compute dummy password hash", slog.Any("error", err))
			return
		}
		a.dummyHash = hash
	})
	return a.dummyHash
}

func (a *authUseCase) Refresh(ctx context.Context, refreshToken string) (*authDomain.TokenPair, error) {
	claims, err := a.tokens.Verify(refreshToken, authDomain.PurposeRefresh)
	if err != nil {
		return nil, err
	}

	identity, err := a.identityRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, authDomain.ErrIdentityNotFound) {
			return nil, authDomain.ErrInvalidToken
		}
		return nil, err
	}

	access, err := a.tokens.IssueAccess(identity.ID, identity.Role, a.cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	return &authDomain.TokenPair{
		AccessToken: access,
		TokenType:   authDomain.TokenTypeBearer,
		Role:        identity.Role,
		Email:       identity.Email,
	}, nil
}

func (a *authUseCase) ForgotPassword(ctx context.Context, email string) error {
	identity, err := a.identityRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, authDomain.ErrIdentityNotFound) && a.cfg.MaskUnknownEmail {
			a.logger.DebugContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return err
	}

	// The reset token is minted when the email is rendered so it never
	// reaches the outbox table.
	event, err := outboxDomain.NewOutboxEvent(
		outboxDomain.EventTypePasswordResetRequested,
		outboxDomain.PasswordResetRequestedPayload{
			IdentityID: identity.ID.String(),
			Email:      identity.Email,
		},
		a.now().UTC(),
	)
	if err != nil {
		return err
	}

	return a.outboxRepo.Create(ctx, event)
}

func (a *authUseCase) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := a.tokens.Verify(resetToken, authDomain.PurposeReset)
	if err != nil {
		return authDomain.ErrInvalidResetToken
	}

	err = validation.Validate(newPassword, validation.Required, validation.Length(8, 128), customValidation.UserPassword)
	if err != nil {
		return customValidation.WrapValidationError(err)
	}

	passwordHash, err := a.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	return a.txManager.WithTx(ctx, func(ctx context.Context) error {
		identity, err := a.identityRepo.GetByID(ctx, claims.Subject)
		if err != nil {
			return err
		}

		now := a.now().UTC()
		if err := a.identityRepo.UpdatePasswordHash(ctx, identity.ID, passwordHash, now); err != nil {
			return err
		}

		event, err := outboxDomain.NewOutboxEvent(
			outboxDomain.EventTypePasswordResetCompleted,
			outboxDomain.PasswordResetCompletedPayload{
				IdentityID: identity.ID.String(),
				Email:      identity.Email,
			},
			now,
		)
		if err != nil {
			return err
		}
		return a.outboxRepo.Create(ctx, event)
	})
}

func (a *authUseCase) ResolveCurrentIdentity(ctx context.Context, accessToken string) (*authDomain.Identity, error) {
	claims, err := a.tokens.Verify(accessToken, authDomain.PurposeAccess)
	if err != nil {
		a.logger.DebugContext(ctx, "access token rejected", slog.Any("error", err))
		return nil, authDomain.ErrUnauthenticated
	}
	return a.identityRepo.GetByID(ctx, claims.Subject)
}

func (a *authUseCase) GetIdentity(ctx context.Context, id uuid.UUID) (*authDomain.Identity, error) {
	return a.identityRepo.GetByID(ctx, id)
}

func (a *authUseCase) ListIdentities(ctx context.Context, offset, limit int) ([]*authDomain.Identity, error) {
	return a.identityRepo.List(ctx, offset, limit)
}

func normalizeSignup(input *authDomain.SignupInput) {
	input.Name = strings.TrimSpace(input.Name)
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.CompanyName = strings.TrimSpace(input.CompanyName)
	input.CompanyWebsite = strings.TrimSpace(input.CompanyWebsite)
}

func validateSignup(input *authDomain.SignupInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&input.Username, validation.Length(0, 255)),
		validation.Field(&input.Email, validation.Required, validation.Length(3, 255), customValidation.Email),
		validation.Field(
			&input.Password,
			validation.Required,
			validation.Length(8, 128),
			customValidation.UserPassword,
		),
		validation.Field(&input.Role, validation.Required),
		validation.Field(&input.CompanyName, validation.Length(0, 255)),
		validation.Field(&input.CompanyWebsite, validation.Length(0, 255)),
	)
	return customValidation.WrapValidationError(err)
}

func containsRole(roles []authDomain.Role, role authDomain.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

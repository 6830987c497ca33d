package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/hireflow/internal/auth/domain"
	authService "github.com/allisson/hireflow/internal/auth/service"
	apperrors "github.com/allisson/hireflow/internal/errors"
	outboxDomain "github.com/allisson/hireflow/internal/outbox/domain"
)

type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) Create(ctx context.Context, identity *authDomain.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockIdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) GetByEmail(ctx context.Context, email string) (*authDomain.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) UpdatePasswordHash(
	ctx context.Context,
	id uuid.UUID,
	passwordHash string,
	updatedAt time.Time,
) error {
	args := m.Called(ctx, id, passwordHash, updatedAt)
	return args.Error(0)
}

func (m *MockIdentityRepository) List(ctx context.Context, offset, limit int) ([]*authDomain.Identity, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.Identity), args.Error(1)
}

type MockOutboxEventRepository struct {
	mock.Mock
}

func (m *MockOutboxEventRepository) Create(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Verify(password, digest string) bool {
	args := m.Called(password, digest)
	return args.Bool(0)
}

func (m *MockPasswordHasher) NeedsRehash(digest string) bool {
	args := m.Called(digest)
	return args.Bool(0)
}

const (
	argonDigest  = "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"
	bcryptDigest = "$2b$12$abcdefghijklmnopqrstuuAbCdEfGhIjKlMnOpQrStUvWxYz01234"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	tx      *MockTxManager
	repo    *MockIdentityRepository
	outbox  *MockOutboxEventRepository
	hasher  *MockPasswordHasher
	tokens  authService.TokenService
	useCase *authUseCase
}

func newFixture(t *testing.T, mask bool) *fixture {
	t.Helper()
	tokens, err := authService.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), authService.TokenConfig{
		RefreshTTL: 7 * 24 * time.Hour,
		ResetTTL:   15 * time.Minute,
	})
	require.NoError(t, err)

	f := &fixture{
		tx:     &MockTxManager{},
		repo:   &MockIdentityRepository{},
		outbox: &MockOutboxEventRepository{},
		hasher: &MockPasswordHasher{},
		tokens: tokens,
	}
	uc := NewAuthUseCase(Config{
		AccessTokenTTL:   15 * time.Minute,
		MaskUnknownEmail: mask,
	}, f.tx, f.repo, f.outbox, f.hasher, f.tokens, nil)
	f.useCase = uc.(*authUseCase)
	f.useCase.now = func() time.Time { return fixedNow }

	t.Cleanup(func() {
		f.tx.AssertExpectations(t)
		f.repo.AssertExpectations(t)
		f.outbox.AssertExpectations(t)
		f.hasher.AssertExpectations(t)
	})
	return f
}

func recruiterIdentity() *authDomain.Identity {
	company := "Acme"
	return &authDomain.Identity{
		ID:           uuid.Must(uuid.NewV7()),
		Name:         "Ada",
		Email:        "ada@acme.test",
		PasswordHash: argonDigest,
		Role:         authDomain.RoleRecruiter,
		CompanyName:  &company,
	}
}

func eventOfType(eventType string) any {
	return mock.MatchedBy(func(e *outboxDomain.OutboxEvent) bool {
		return e.EventType == eventType
	})
}

func keysOf(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{AccessTokenTTL: time.Minute}.Validate())
	assert.EqualError(t, Config{}.Validate(), "access token lifetime must be positive")
	assert.Error(t, Config{AccessTokenTTL: -time.Second}.Validate())
}

func TestAuthUseCase_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RecruiterWithCompany", func(t *testing.T) {
		f := newFixture(t, false)
		input := &authDomain.SignupInput{
			Name:        "Ada",
			Email:       " ada@acme.test ",
			Password:    "secret123",
			Role:        "Recruiter",
			CompanyName: "Acme",
		}

		f.hasher.On("Hash", "secret123").Return(argonDigest, nil).Once()
		f.tx.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.repo.On("Create", ctx, mock.MatchedBy(func(i *authDomain.Identity) bool {
			return i.Email == "ada@acme.test" &&
				i.Role == authDomain.RoleRecruiter &&
				i.PasswordHash == argonDigest &&
				i.CompanyName != nil && *i.CompanyName == "Acme" &&
				i.CompanyWebsite == nil &&
				i.CreatedAt.Equal(fixedNow)
		})).Return(nil).Once()
		f.outbox.On("Create", ctx, eventOfType(outboxDomain.EventTypeUserCreated)).Return(nil).Once()

		identity, err := f.useCase.Signup(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, authDomain.RoleRecruiter, identity.Role)
		assert.Equal(t, uuid.Version(7), identity.ID.Version())
	})

	t.Run("Success_CompanyWithoutCompanyName", func(t *testing.T) {
		f := newFixture(t, false)
		input := &authDomain.SignupInput{
			Name:     "Acme HR",
			Email:    "hr@acme.test",
			Password: "secret123",
			Role:     "company",
		}

		f.hasher.On("Hash", "secret123").Return(argonDigest, nil).Once()
		f.tx.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.repo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.outbox.On("Create", ctx, mock.Anything).Return(nil).Once()

		identity, err := f.useCase.Signup(ctx, input)
		require.NoError(t, err)
		assert.Nil(t, identity.CompanyName)
	})

	t.Run("Failure_RecruiterWithoutCompany", func(t *testing.T) {
		f := newFixture(t, false)
		input := &authDomain.SignupInput{
			Name:     "Ada",
			Email:    "ada@acme.test",
			Password: "secret123",
			Role:     "recruiter",
		}

		_, err := f.useCase.Signup(ctx, input)
		assert.ErrorIs(t, err, authDomain.ErrCompanyNameRequired)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failure_DuplicateEmail", func(t *testing.T) {
		f := newFixture(t, false)
		input := &authDomain.SignupInput{
			Name:        "Ada",
			Email:       "ada@acme.test",
			Password:    "secret123",
			Role:        "recruiter",
			CompanyName: "Acme",
		}

		f.hasher.On("Hash", "secret123").Return(argonDigest, nil).Once()
		f.tx.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.repo.On("Create", ctx, mock.Anything).Return(authDomain.ErrDuplicateEmail).Once()

		_, err := f.useCase.Signup(ctx, input)
		assert.ErrorIs(t, err, authDomain.ErrDuplicateEmail)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("Failure_PrivilegedRole", func(t *testing.T) {
		f := newFixture(t, false)
		input := &authDomain.SignupInput{
			Name:     "Root",
			Email:    "root@acme.test",
			Password: "secret123",
			Role:     "superadmin",
		}

		_, err := f.useCase.Signup(ctx, input)
		assert.ErrorIs(t, err, authDomain.ErrInvalidRole)
	})

	t.Run("Failure_UnknownRole", func(t *testing.T) {
		f := newFixture(t, false)
		input := &authDomain.SignupInput{
			Name:     "Ada",
			Email:    "ada@acme.test",
			Password: "secret123",
			Role:     "janitor",
		}

		_, err := f.useCase.Signup(ctx, input)
		assert.ErrorIs(t, err, authDomain.ErrInvalidRole)
	})

	t.Run("Failure_WeakPassword", func(t *testing.T) {
		f := newFixture(t, false)
		input := &authDomain.SignupInput{
			Name:        "Ada",
			Email:       "ada@acme.test",
			Password:    "short",
			Role:        "recruiter",
			CompanyName: "Acme",
		}

		_, err := f.useCase.Signup(ctx, input)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failure_InvalidEmail", func(t *testing.T) {
		f := newFixture(t, false)
		input := &authDomain.SignupInput{
			Name:     "Acme HR",
			Email:    "not-an-email",
			Password: "secret123",
			Role:     "company",
		}

		_, err := f.useCase.Signup(ctx, input)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestAuthUseCase_CreateIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Superadmin", func(t *testing.T) {
		f := newFixture(t, false)
		input := &authDomain.SignupInput{
			Name:     "Root",
			Email:    "root@acme.test",
			Password: "secret123",
			Role:     "superadmin",
		}

		f.hasher.On("Hash", "secret123").Return(argonDigest, nil).Once()
		f.tx.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.repo.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.outbox.On("Create", ctx, mock.Anything).Return(nil).Once()

		identity, err := f.useCase.CreateIdentity(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, authDomain.RoleSuperadmin, identity.Role)
	})
}

func TestAuthUseCase_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, false)
		identity := recruiterIdentity()

		f.repo.On("GetByEmail", ctx, "ada@acme.test").Return(identity, nil).Once()
		f.hasher.On("Verify", "secret123", argonDigest).Return(true).Once()
		f.hasher.On("NeedsRehash", argonDigest).Return(false).Once()

		pair, err := f.useCase.Login(ctx, "ada@acme.test", "secret123")
		require.NoError(t, err)
		assert.Equal(t, authDomain.TokenTypeBearer, pair.TokenType)
		assert.Equal(t, authDomain.RoleRecruiter, pair.Role)
		assert.Equal(t, "ada@acme.test", pair.Email)

		access, err := f.tokens.Verify(pair.AccessToken, authDomain.PurposeAccess)
		require.NoError(t, err)
		assert.Equal(t, identity.ID, access.Subject)
		assert.Equal(t, authDomain.RoleRecruiter, access.Role)

		refresh, err := f.tokens.Verify(pair.RefreshToken, authDomain.PurposeRefresh)
		require.NoError(t, err)
		assert.Equal(t, identity.ID, refresh.Subject)
	})

	t.Run("Success_UpgradesLegacyHash", func(t *testing.T) {
		f := newFixture(t, false)
		identity := recruiterIdentity()
		identity.PasswordHash = bcryptDigest

		f.repo.On("GetByEmail", ctx, "ada@acme.test").Return(identity, nil).Once()
		f.hasher.On("Verify", "secret123", bcryptDigest).Return(true).Once()
		f.hasher.On("NeedsRehash", bcryptDigest).Return(true).Once()
		f.hasher.On("Hash", "secret123").Return(argonDigest, nil).Once()
		f.repo.On("UpdatePasswordHash", ctx, identity.ID, argonDigest, fixedNow).Return(nil).Once()

		_, err := f.useCase.Login(ctx, "ada@acme.test", "secret123")
		require.NoError(t, err)
		assert.Equal(t, argonDigest, identity.PasswordHash)
	})

	t.Run("Success_LegacyHashUpgradeFailureIgnored", func(t *testing.T) {
		f := newFixture(t, false)
		identity := recruiterIdentity()
		identity.PasswordHash = bcryptDigest

		f.repo.On("GetByEmail", ctx, "ada@acme.test").Return(identity, nil).Once()
		f.hasher.On("Verify", "secret123", bcryptDigest).Return(true).Once()
		f.hasher.On("NeedsRehash", bcryptDigest).Return(true).Once()
		f.hasher.On("Hash", "secret123").Return(argonDigest, nil).Once()
		f.repo.On("UpdatePasswordHash", ctx, identity.ID, argonDigest, fixedNow).
			Return(errors.New("db down")).
			Once()

		pair, err := f.useCase.Login(ctx, "ada@acme.test", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.Equal(t, bcryptDigest, identity.PasswordHash)
	})

	t.Run("Failure_WrongPassword", func(t *testing.T) {
		f := newFixture(t, false)
		identity := recruiterIdentity()

		f.repo.On("GetByEmail", ctx, "ada@acme.test").Return(identity, nil).Once()
		f.hasher.On("Verify", "wrong", argonDigest).Return(false).Once()

		pair, err := f.useCase.Login(ctx, "ada@acme.test", "wrong")
		assert.Nil(t, pair)
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("Failure_UnknownEmailIndistinguishable", func(t *testing.T) {
		f := newFixture(t, false)

		f.repo.On("GetByEmail", ctx, "ghost@acme.test").Return(nil, authDomain.ErrIdentityNotFound).Once()
		f.hasher.On("Hash", mock.AnythingOfType("string")).Return(argonDigest, nil).Once()
		f.hasher.On("Verify", "secret123", argonDigest).Return(false).Once()

		pair, err := f.useCase.Login(ctx, "ghost@acme.test", "secret123")
		assert.Nil(t, pair)
		assert.Equal(t, authDomain.ErrInvalidCredentials, err)
	})

	t.Run("Failure_RepositoryError", func(t *testing.T) {
		f := newFixture(t, false)
		dbErr := errors.New("db down")

		f.repo.On("GetByEmail", ctx, "ada@acme.test").Return(nil, dbErr).Once()

		_, err := f.useCase.Login(ctx, "ada@acme.test", "secret123")
		assert.Equal(t, dbErr, err)
	})
}

func TestAuthUseCase_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_UsesCurrentRole", func(t *testing.T) {
		f := newFixture(t, false)
		identity := recruiterIdentity()
		refresh, err := f.tokens.IssueRefresh(identity.ID)
		require.NoError(t, err)

		promoted := *identity
		promoted.Role = authDomain.RoleAdmin
		f.repo.On("GetByID", ctx, identity.ID).Return(&promoted, nil).Once()

		pair, err := f.useCase.Refresh(ctx, refresh)
		require.NoError(t, err)
		assert.Empty(t, pair.RefreshToken)

		claims, err := f.tokens.Verify(pair.AccessToken, authDomain.PurposeAccess)
		require.NoError(t, err)
		assert.Equal(t, authDomain.RoleAdmin, claims.Role)
	})

	t.Run("Failure_AccessTokenRejected", func(t *testing.T) {
		f := newFixture(t, false)
		access, err := f.tokens.IssueAccess(uuid.New(), authDomain.RoleRecruiter, time.Minute)
		require.NoError(t, err)

		_, err = f.useCase.Refresh(ctx, access)
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})

	t.Run("Failure_SubjectGone", func(t *testing.T) {
		f := newFixture(t, false)
		id := uuid.New()
		refresh, err := f.tokens.IssueRefresh(id)
		require.NoError(t, err)

		f.repo.On("GetByID", ctx, id).Return(nil, authDomain.ErrIdentityNotFound).Once()

		_, err = f.useCase.Refresh(ctx, refresh)
		assert.ErrorIs(t, err, authDomain.ErrInvalidToken)
	})
}

func TestAuthUseCase_ForgotPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_QueuesResetEmail", func(t *testing.T) {
		f := newFixture(t, false)
		identity := recruiterIdentity()

		var captured *outboxDomain.OutboxEvent
		f.repo.On("GetByEmail", ctx, "ada@acme.test").Return(identity, nil).Once()
		f.outbox.On("Create", ctx, eventOfType(outboxDomain.EventTypePasswordResetRequested)).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(*outboxDomain.OutboxEvent)
			}).
			Return(nil).
			Once()

		require.NoError(t, f.useCase.ForgotPassword(ctx, "ada@acme.test"))
		require.NotNil(t, captured)

		var payload outboxDomain.PasswordResetRequestedPayload
		require.NoError(t, json.Unmarshal([]byte(captured.Payload), &payload))
		assert.Equal(t, "ada@acme.test", payload.Email)
		assert.Equal(t, identity.ID.String(), payload.IdentityID)
		assert.True(t, fixedNow.Equal(captured.CreatedAt))

		var raw map[string]any
		require.NoError(t, json.Unmarshal([]byte(captured.Payload), &raw))
		assert.ElementsMatch(t, []string{"identity_id", "email"}, keysOf(raw))
		assert.NotContains(t, captured.Payload, "token")
		assert.NotContains(t, captured.Payload, "eyJ")
	})

	t.Run("Failure_UnknownEmail", func(t *testing.T) {
		f := newFixture(t, false)
		f.repo.On("GetByEmail", ctx, "ghost@acme.test").Return(nil, authDomain.ErrIdentityNotFound).Once()

		err := f.useCase.ForgotPassword(ctx, "ghost@acme.test")
		assert.ErrorIs(t, err, authDomain.ErrIdentityNotFound)
	})

	t.Run("Success_UnknownEmailMasked", func(t *testing.T) {
		f := newFixture(t, true)
		f.repo.On("GetByEmail", ctx, "ghost@acme.test").Return(nil, authDomain.ErrIdentityNotFound).Once()

		assert.NoError(t, f.useCase.ForgotPassword(ctx, "ghost@acme.test"))
	})
}

func TestAuthUseCase_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, false)
		identity := recruiterIdentity()
		reset, err := f.tokens.IssueReset(identity.ID)
		require.NoError(t, err)

		f.hasher.On("Hash", "newpass123").Return("$argon2id$new", nil).Once()
		f.tx.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.repo.On("GetByID", ctx, identity.ID).Return(identity, nil).Once()
		f.repo.On("UpdatePasswordHash", ctx, identity.ID, "$argon2id$new", fixedNow).Return(nil).Once()
		f.outbox.On("Create", ctx, eventOfType(outboxDomain.EventTypePasswordResetCompleted)).Return(nil).Once()

		assert.NoError(t, f.useCase.ResetPassword(ctx, reset, "newpass123"))
	})

	t.Run("Failure_GarbageToken", func(t *testing.T) {
		f := newFixture(t, false)

		err := f.useCase.ResetPassword(ctx, "not-a-token", "newpass123")
		assert.ErrorIs(t, err, authDomain.ErrInvalidResetToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failure_AccessTokenAsReset", func(t *testing.T) {
		f := newFixture(t, false)
		access, err := f.tokens.IssueAccess(uuid.New(), authDomain.RoleRecruiter, time.Minute)
		require.NoError(t, err)

		err = f.useCase.ResetPassword(ctx, access, "newpass123")
		assert.ErrorIs(t, err, authDomain.ErrInvalidResetToken)
	})

	t.Run("Failure_WeakPassword", func(t *testing.T) {
		f := newFixture(t, false)
		reset, err := f.tokens.IssueReset(uuid.New())
		require.NoError(t, err)

		err = f.useCase.ResetPassword(ctx, reset, "short")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Failure_SubjectGone", func(t *testing.T) {
		f := newFixture(t, false)
		id := uuid.New()
		reset, err := f.tokens.IssueReset(id)
		require.NoError(t, err)

		f.hasher.On("Hash", "newpass123").Return("$argon2id$new", nil).Once()
		f.tx.On("WithTx", ctx, mock.Anything).Return(nil).Once()
		f.repo.On("GetByID", ctx, id).Return(nil, authDomain.ErrIdentityNotFound).Once()

		err = f.useCase.ResetPassword(ctx, reset, "newpass123")
		assert.ErrorIs(t, err, authDomain.ErrIdentityNotFound)
	})
}

func TestAuthUseCase_ResolveCurrentIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t, false)
		identity := recruiterIdentity()
		access, err := f.tokens.IssueAccess(identity.ID, identity.Role, time.Minute)
		require.NoError(t, err)

		f.repo.On("GetByID", ctx, identity.ID).Return(identity, nil).Once()

		got, err := f.useCase.ResolveCurrentIdentity(ctx, access)
		require.NoError(t, err)
		assert.Equal(t, identity, got)
	})

	t.Run("Failure_RefreshTokenRejected", func(t *testing.T) {
		f := newFixture(t, false)
		refresh, err := f.tokens.IssueRefresh(uuid.New())
		require.NoError(t, err)

		_, err = f.useCase.ResolveCurrentIdentity(ctx, refresh)
		assert.ErrorIs(t, err, authDomain.ErrUnauthenticated)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Failure_SubjectGone", func(t *testing.T) {
		f := newFixture(t, false)
		id := uuid.New()
		access, err := f.tokens.IssueAccess(id, authDomain.RoleCompany, time.Minute)
		require.NoError(t, err)

		f.repo.On("GetByID", ctx, id).Return(nil, authDomain.ErrIdentityNotFound).Once()

		_, err = f.useCase.ResolveCurrentIdentity(ctx, access)
		assert.ErrorIs(t, err, authDomain.ErrIdentityNotFound)
	})
}

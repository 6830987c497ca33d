package app

import (
	"fmt"
	"sync"

	authHTTP "github.com/allisson/hireflow/internal/auth/http"
	authRepository "github.com/allisson/hireflow/internal/auth/repository"
	authService "github.com/allisson/hireflow/internal/auth/service"
	authUseCase "github.com/allisson/hireflow/internal/auth/usecase"
)

// authComponents groups the lazily built authentication dependencies.
type authComponents struct {
	passwordHasher     authService.PasswordHasher
	tokenService       authService.TokenService
	identityRepository authUseCase.IdentityRepository
	authUseCase        authUseCase.AuthUseCase
	authHandler        *authHTTP.AuthHandler
	adminHandler       *authHTTP.AdminHandler

	passwordHasherInit     sync.Once
	tokenServiceInit       sync.Once
	identityRepositoryInit sync.Once
	authUseCaseInit        sync.Once
	authHandlerInit        sync.Once
	adminHandlerInit       sync.Once
}

// PasswordHasher returns the Argon2id password hasher.
func (c *Container) PasswordHasher() (authService.PasswordHasher, error) {
	var err error
	c.passwordHasherInit.Do(func() {
		c.passwordHasher, err = authService.NewPasswordHasher()
		if err != nil {
			c.initErrors["passwordHasher"] = fmt.Errorf("failed to create password hasher: %w", err)
		}
	})
	if storedErr, exists := c.initErrors["passwordHasher"]; exists {
		return nil, storedErr
	}
	return c.passwordHasher, nil
}

// TokenService returns the token service. The signing key is resolved once,
// from plaintext configuration or through the configured KMS keeper.
func (c *Container) TokenService() (authService.TokenService, error) {
	var err error
	c.tokenServiceInit.Do(func() {
		c.tokenService, err = c.initTokenService()
		if err != nil {
			c.initErrors["tokenService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// IdentityRepository returns the identity repository based on database driver.
func (c *Container) IdentityRepository() (authUseCase.IdentityRepository, error) {
	var err error
	c.identityRepositoryInit.Do(func() {
		c.identityRepository, err = c.initIdentityRepository()
		if err != nil {
			c.initErrors["identityRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["identityRepository"]; exists {
		return nil, storedErr
	}
	return c.identityRepository, nil
}

// AuthUseCase returns the auth use case, wrapped with metrics when enabled.
func (c *Container) AuthUseCase() (authUseCase.AuthUseCase, error) {
	var err error
	c.authUseCaseInit.Do(func() {
		c.authUseCase, err = c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.authUseCase, nil
}

// AuthHandler returns the HTTP handler for /api/auth.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	var err error
	c.authHandlerInit.Do(func() {
		var uc authUseCase.AuthUseCase
		uc, err = c.AuthUseCase()
		if err != nil {
			c.initErrors["authHandler"] = fmt.Errorf("failed to get auth use case for auth handler: %w", err)
			return
		}
		c.authHandler = authHTTP.NewAuthHandler(uc, c.Logger())
	})
	if storedErr, exists := c.initErrors["authHandler"]; exists {
		return nil, storedErr
	}
	return c.authHandler, nil
}

// AdminHandler returns the HTTP handler for /api/admin.
func (c *Container) AdminHandler() (*authHTTP.AdminHandler, error) {
	var err error
	c.adminHandlerInit.Do(func() {
		var uc authUseCase.AuthUseCase
		uc, err = c.AuthUseCase()
		if err != nil {
			c.initErrors["adminHandler"] = fmt.Errorf("failed to get auth use case for admin handler: %w", err)
			return
		}
		c.adminHandler = authHTTP.NewAdminHandler(uc, c.Logger())
	})
	if storedErr, exists := c.initErrors["adminHandler"]; exists {
		return nil, storedErr
	}
	return c.adminHandler, nil
}

func (c *Container) initTokenService() (authService.TokenService, error) {
	key, err := authService.LoadSigningKey(c.ctx, authService.SigningKeySource{
		Plaintext:  c.config.AuthSigningKey,
		Ciphertext: c.config.AuthSigningKeyCiphertext,
		KMSKeyURI:  c.config.KMSKeyURI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key: %w", err)
	}

	tokens, err := authService.NewTokenService(key, authService.TokenConfig{
		RefreshTTL: c.config.AuthRefreshTokenExpiration,
		ResetTTL:   c.config.AuthResetTokenExpiration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}
	return tokens, nil
}

func (c *Container) initIdentityRepository() (authUseCase.IdentityRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for identity repository: %w", err)
	}

	return repositoryFor(
		c.config.DBDriver,
		func() authUseCase.IdentityRepository { return authRepository.NewPostgreSQLIdentityRepository(db) },
		func() authUseCase.IdentityRepository { return authRepository.NewMySQLIdentityRepository(db) },
	)
}

func (c *Container) initAuthUseCase() (authUseCase.AuthUseCase, error) {
	cfg := authUseCase.Config{
		AccessTokenTTL:   c.config.AuthAccessTokenExpiration,
		MaskUnknownEmail: c.config.AuthMaskUnknownEmail,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid auth configuration: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for auth use case: %w", err)
	}

	identityRepo, err := c.IdentityRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity repository for auth use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for auth use case: %w", err)
	}

	hasher, err := c.PasswordHasher()
	if err != nil {
		return nil, err
	}

	tokens, err := c.TokenService()
	if err != nil {
		return nil, err
	}

	baseUseCase := authUseCase.NewAuthUseCase(
		cfg,
		txManager,
		identityRepo,
		outboxRepo,
		hasher,
		tokens,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for auth use case: %w", err)
		}
		return authUseCase.NewAuthUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

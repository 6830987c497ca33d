package app

import (
	"fmt"
	"sync"

	candidateHTTP "github.com/allisson/hireflow/internal/candidate/http"
	candidateRepository "github.com/allisson/hireflow/internal/candidate/repository"
	candidateService "github.com/allisson/hireflow/internal/candidate/service"
	candidateUseCase "github.com/allisson/hireflow/internal/candidate/usecase"
)

type candidateComponents struct {
	candidateRepository candidateUseCase.CandidateRepository
	candidateUseCase    candidateUseCase.CandidateUseCase
	candidateHandler    *candidateHTTP.CandidateHandler

	candidateRepositoryInit sync.Once
	candidateUseCaseInit    sync.Once
	candidateHandlerInit    sync.Once
}

// CandidateRepository returns the candidate repository based on database driver.
func (c *Container) CandidateRepository() (candidateUseCase.CandidateRepository, error) {
	var err error
	c.candidateRepositoryInit.Do(func() {
		c.candidateRepository, err = c.initCandidateRepository()
		if err != nil {
			c.initErrors["candidateRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["candidateRepository"]; exists {
		return nil, storedErr
	}
	return c.candidateRepository, nil
}

// CandidateUseCase returns the candidate OTP use case.
func (c *Container) CandidateUseCase() (candidateUseCase.CandidateUseCase, error) {
	var err error
	c.candidateUseCaseInit.Do(func() {
		c.candidateUseCase, err = c.initCandidateUseCase()
		if err != nil {
			c.initErrors["candidateUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["candidateUseCase"]; exists {
		return nil, storedErr
	}
	return c.candidateUseCase, nil
}

// CandidateHandler returns the HTTP handler for /api/candidates.
func (c *Container) CandidateHandler() (*candidateHTTP.CandidateHandler, error) {
	var err error
	c.candidateHandlerInit.Do(func() {
		var uc candidateUseCase.CandidateUseCase
		uc, err = c.CandidateUseCase()
		if err != nil {
			c.initErrors["candidateHandler"] = fmt.Errorf(
				"failed to get candidate use case for candidate handler: %w",
				err,
			)
			return
		}
		c.candidateHandler = candidateHTTP.NewCandidateHandler(uc, c.Logger())
	})
	if storedErr, exists := c.initErrors["candidateHandler"]; exists {
		return nil, storedErr
	}
	return c.candidateHandler, nil
}

func (c *Container) initCandidateRepository() (candidateUseCase.CandidateRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for candidate repository: %w", err)
	}

	return repositoryFor(
		c.config.DBDriver,
		func() candidateUseCase.CandidateRepository {
			return candidateRepository.NewPostgreSQLCandidateRepository(db)
		},
		func() candidateUseCase.CandidateRepository {
			return candidateRepository.NewMySQLCandidateRepository(db)
		},
	)
}

func (c *Container) initCandidateUseCase() (candidateUseCase.CandidateUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for candidate use case: %w", err)
	}

	candidateRepo, err := c.CandidateRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate repository for candidate use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for candidate use case: %w", err)
	}

	generator, err := candidateService.NewNumericOTPGenerator(c.config.OTPLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create otp generator: %w", err)
	}

	baseUseCase := candidateUseCase.NewCandidateUseCase(
		txManager,
		candidateRepo,
		outboxRepo,
		generator,
		c.config.OTPExpiration,
		c.Logger(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for candidate use case: %w", err)
		}
		return candidateUseCase.NewCandidateUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

package app

import (
	"fmt"
	"sync"

	outboxRepository "github.com/allisson/hireflow/internal/outbox/repository"
	outboxService "github.com/allisson/hireflow/internal/outbox/service"
	outboxUseCase "github.com/allisson/hireflow/internal/outbox/usecase"
)

type outboxComponents struct {
	outboxRepository outboxUseCase.OutboxEventRepository
	outboxUseCase    outboxUseCase.UseCase

	outboxRepositoryInit sync.Once
	outboxUseCaseInit    sync.Once
}

// OutboxRepository returns the outbox event repository based on database driver.
// It is shared by every use case that enqueues notifications.
func (c *Container) OutboxRepository() (outboxUseCase.OutboxEventRepository, error) {
	var err error
	c.outboxRepositoryInit.Do(func() {
		c.outboxRepository, err = c.initOutboxRepository()
		if err != nil {
			c.initErrors["outboxRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxRepository"]; exists {
		return nil, storedErr
	}
	return c.outboxRepository, nil
}

// OutboxUseCase returns the notification worker.
func (c *Container) OutboxUseCase() (outboxUseCase.UseCase, error) {
	var err error
	c.outboxUseCaseInit.Do(func() {
		c.outboxUseCase, err = c.initOutboxUseCase()
		if err != nil {
			c.initErrors["outboxUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxUseCase"]; exists {
		return nil, storedErr
	}
	return c.outboxUseCase, nil
}

func (c *Container) initOutboxRepository() (outboxUseCase.OutboxEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
	}

	return repositoryFor(
		c.config.DBDriver,
		func() outboxUseCase.OutboxEventRepository {
			return outboxRepository.NewPostgreSQLOutboxEventRepository(db)
		},
		func() outboxUseCase.OutboxEventRepository {
			return outboxRepository.NewMySQLOutboxEventRepository(db)
		},
	)
}

func (c *Container) initOutboxUseCase() (outboxUseCase.UseCase, error) {
	logger := c.Logger()

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for outbox use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for outbox use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for outbox use case: %w", err)
	}

	tokens, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for outbox use case: %w", err)
	}

	processor := outboxUseCase.NewNotificationProcessor(
		outboxService.NewLogMailer(logger),
		tokens,
		c.config.AuthResetURLBase,
		logger,
	)

	return outboxUseCase.NewOutboxUseCase(
		outboxUseCase.Config{
			Interval:   c.config.WorkerInterval,
			BatchSize:  c.config.WorkerBatchSize,
			MaxRetries: c.config.WorkerMaxRetries,
		},
		txManager,
		outboxRepo,
		processor,
		businessMetrics,
		logger,
	), nil
}

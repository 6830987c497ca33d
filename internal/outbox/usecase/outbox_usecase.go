// Package usecase runs the outbox worker that delivers pending notifications.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/hireflow/internal/database"
	"github.com/allisson/hireflow/internal/metrics"
	"github.com/allisson/hireflow/internal/outbox/domain"
)

// Config holds outbox worker configuration.
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// OutboxEventRepository defines outbox event repository operations.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	Update(ctx context.Context, event *domain.OutboxEvent) error
}

// EventProcessor handles one event. A returned error counts as a failed
// delivery attempt.
type EventProcessor interface {
	Process(ctx context.Context, event *domain.OutboxEvent) error
}

// UseCase defines the outbox worker.
type UseCase interface {
	Start(ctx context.Context) error
	ProcessEvents(ctx context.Context) error
}

// OutboxUseCase polls pending events and hands them to an EventProcessor.
type OutboxUseCase struct {
	config         Config
	txManager      database.TxManager
	outboxRepo     OutboxEventRepository
	eventProcessor EventProcessor
	metrics        metrics.BusinessMetrics
	logger         *slog.Logger
	now            func() time.Time
}

// NewOutboxUseCase creates a new OutboxUseCase.
func NewOutboxUseCase(
	config Config,
	txManager database.TxManager,
	outboxRepo OutboxEventRepository,
	eventProcessor EventProcessor,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *OutboxUseCase {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &OutboxUseCase{
		config:         config,
		txManager:      txManager,
		outboxRepo:     outboxRepo,
		eventProcessor: eventProcessor,
		metrics:        businessMetrics,
		logger:         logger,
		now:            time.Now,
	}
}

// Start polls every Interval until ctx is cancelled and returns ctx.Err().
func (uc *OutboxUseCase) Start(ctx context.Context) error {
	if uc.logger != nil {
		uc.logger.Info("starting outbox worker",
			slog.Duration("interval", uc.config.Interval),
			slog.Int("batch_size", uc.config.BatchSize),
			slog.Int("max_retries", uc.config.MaxRetries),
		)
	}

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if uc.logger != nil {
				uc.logger.Info("stopping outbox worker")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := uc.ProcessEvents(ctx); err != nil && uc.logger != nil {
				uc.logger.Error("failed to process outbox events", slog.Any("error", err))
			}
		}
	}
}

// ProcessEvents claims one batch of pending events inside a transaction and
// records the outcome of each. Processor failures increment the retry count
// and mark the event failed once MaxRetries is reached; only storage errors
// abort the batch.
func (uc *OutboxUseCase) ProcessEvents(ctx context.Context) (err error) {
	start := uc.now()
	defer func() {
		metrics.Observe(ctx, uc.metrics, "outbox", "process_events", start, err)
	}()

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		events, err := uc.outboxRepo.GetPendingEvents(ctx, uc.config.BatchSize)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}

		if uc.logger != nil {
			uc.logger.Debug("processing outbox events", slog.Int("count", len(events)))
		}

		for _, event := range events {
			if err := uc.deliver(ctx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

func (uc *OutboxUseCase) deliver(ctx context.Context, event *domain.OutboxEvent) error {
	now := uc.now()
	event.UpdatedAt = now

	procErr := uc.eventProcessor.Process(ctx, event)
	if procErr == nil {
		event.Status = domain.OutboxEventStatusProcessed
		event.ProcessedAt = &now
		event.LastError = nil
		return uc.outboxRepo.Update(ctx, event)
	}

	event.Retries++
	msg := procErr.Error()
	event.LastError = &msg
	if event.Retries >= uc.config.MaxRetries {
		event.Status = domain.OutboxEventStatusFailed
	}

	if uc.logger != nil {
		uc.logger.Error("failed to process outbox event",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.EventType),
			slog.Int("retries", event.Retries),
			slog.String("status", string(event.Status)),
			slog.Any("error", procErr),
		)
	}

	return uc.outboxRepo.Update(ctx, event)
}

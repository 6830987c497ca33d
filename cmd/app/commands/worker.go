package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	outboxUseCase "github.com/allisson/hireflow/internal/outbox/usecase"
)

// RunWorker runs the outbox worker until ctx is cancelled or SIGINT/SIGTERM
// arrives. With once set it drains a single batch and returns.
func RunWorker(ctx context.Context, worker outboxUseCase.UseCase, logger *slog.Logger, once bool) error {
	if once {
		if err := worker.ProcessEvents(ctx); err != nil {
			return fmt.Errorf("failed to process outbox events: %w", err)
		}
		logger.Info("outbox batch processed")
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return ignoreCanceled(worker.Start(ctx))
}

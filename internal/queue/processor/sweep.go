package processor

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/nodepress/demo-control-plane/internal/worker"
)

type expirationSweepProcessor struct {
	workers *worker.Workers
}

func NewExpirationSweepProcessor(workers *worker.Workers) *expirationSweepProcessor {
	return &expirationSweepProcessor{
		workers: workers,
	}
}

func (p *expirationSweepProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	if err := p.workers.Sweeper.SweepExpired(ctx); err != nil {
		return fmt.Errorf("expiration sweep failed: %w", err)
	}

	return nil
}

type expirationWarningProcessor struct {
	workers *worker.Workers
}

func NewExpirationWarningProcessor(workers *worker.Workers) *expirationWarningProcessor {
	return &expirationWarningProcessor{
		workers: workers,
	}
}

func (p *expirationWarningProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	if err := p.workers.Sweeper.SweepWarnings(ctx); err != nil {
		return fmt.Errorf("expiration warning sweep failed: %w", err)
	}

	return nil
}

type verificationCleanupProcessor struct {
	workers *worker.Workers
}

func NewVerificationCleanupProcessor(workers *worker.Workers) *verificationCleanupProcessor {
	return &verificationCleanupProcessor{
		workers: workers,
	}
}

func (p *verificationCleanupProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	if err := p.workers.Sweeper.CleanupVerifications(ctx); err != nil {
		return fmt.Errorf("verification cleanup failed: %w", err)
	}

	return nil
}

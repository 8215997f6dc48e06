package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/internal/provision"
	"github.com/nodepress/demo-control-plane/internal/repository"
	"github.com/nodepress/demo-control-plane/internal/service"
	"github.com/nodepress/demo-control-plane/pkg/logger"
)

const (
	warningWindowFrom = 2 * time.Hour
	warningWindowTo   = 3 * time.Hour
)

type sweeper struct {
	tenants       repository.Tenants
	verifications repository.Verifications
	orchestrator  *provision.Orchestrator
	enqueuer      service.Enqueuer
}

func newSweeper(
	tenants repository.Tenants,
	verifications repository.Verifications,
	orchestrator *provision.Orchestrator,
	enqueuer service.Enqueuer,
) *sweeper {
	return &sweeper{
		tenants:       tenants,
		verifications: verifications,
		orchestrator:  orchestrator,
		enqueuer:      enqueuer,
	}
}

// SweepExpired tears down RUNNING tenants past their deadline and marks them
// EXPIRED, which analytics keeps distinct from operator-initiated
// TERMINATED. One tenant's failure never aborts the rest of the batch, and
// because only RUNNING tenants are selected, an overlapping run finds
// nothing left to do.
func (s *sweeper) SweepExpired(ctx context.Context) error {
	expired, err := s.tenants.ListExpired(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("list expired tenants failed: %w", err)
	}

	for _, tenant := range expired {
		if err := s.orchestrator.Teardown(ctx, tenant); err != nil {
			logger.Error("expiration teardown failed",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Error(err),
			)
			continue
		}

		if err := s.tenants.UpdateStatus(ctx, tenant.ID, domain.TenantExpired, nil); err != nil {
			logger.Error("mark tenant expired failed",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Error(err),
			)
			continue
		}

		logger.Info("tenant expired", zap.String("tenant_id", tenant.ID.String()))
	}

	return nil
}

// SweepWarnings emails tenants whose demo expires in two to three hours.
// The expiration_warned flag makes repeated runs within the window
// idempotent.
func (s *sweeper) SweepWarnings(ctx context.Context) error {
	now := time.Now()
	warnable, err := s.tenants.ListWarnable(ctx, now.Add(warningWindowFrom), now.Add(warningWindowTo))
	if err != nil {
		return fmt.Errorf("list warnable tenants failed: %w", err)
	}

	for _, tenant := range warnable {
		if err := s.enqueuer.EnqueueExpirationWarning(ctx, tenant.Email, tenant.Subdomain, tenant.ExpiresAt); err != nil {
			logger.Error("enqueue expiration warning failed",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Error(err),
			)
			continue
		}

		if err := s.tenants.MarkWarned(ctx, tenant.ID); err != nil {
			logger.Error("mark tenant warned failed",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Error(err),
			)
		}
	}

	return nil
}

// CleanupVerifications expires stale PENDING verification rows.
func (s *sweeper) CleanupVerifications(ctx context.Context) error {
	expired, err := s.verifications.ExpireStale(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("expire stale verifications failed: %w", err)
	}

	if expired > 0 {
		logger.Info("stale verifications expired", zap.Int64("count", expired))
	}

	return nil
}

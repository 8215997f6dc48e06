package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/internal/provision"
	"github.com/nodepress/demo-control-plane/internal/repository"
	"github.com/nodepress/demo-control-plane/pkg/logger"
)

type provisioner struct {
	tenants      repository.Tenants
	orchestrator *provision.Orchestrator
}

func newProvisioner(tenants repository.Tenants, orchestrator *provision.Orchestrator) *provisioner {
	return &provisioner{
		tenants:      tenants,
		orchestrator: orchestrator,
	}
}

// ProvisionTenant runs the orchestrator for a queued tenant. Only tenants
// still PENDING are acted on, so a duplicate delivery of the same task finds
// nothing to do.
func (p *provisioner) ProvisionTenant(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := p.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("provision task for unknown tenant", zap.String("tenant_id", tenantID.String()))
			return nil
		}
		return fmt.Errorf("get tenant failed: %w", err)
	}

	if tenant.Status != domain.TenantPending {
		logger.Info("skipping provision, tenant not pending",
			zap.String("tenant_id", tenantID.String()),
			zap.String("status", string(tenant.Status)),
		)
		return nil
	}

	// Orchestrator owns failure handling from here: rollback, FAILED state,
	// logging. The task must not be retried on top of that.
	if err := p.orchestrator.Provision(ctx, tenant); err != nil {
		return nil
	}

	return nil
}

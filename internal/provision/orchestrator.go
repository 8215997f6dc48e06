// Package provision builds and destroys the infrastructure of one trial
// tenant: its logical database, environment file, runtime process, proxy
// route and seeded content.
package provision

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/internal/repository"
	"github.com/nodepress/demo-control-plane/internal/tenantscope"
	"github.com/nodepress/demo-control-plane/pkg/logger"
)

type Orchestrator struct {
	tenants   repository.Tenants
	activity  repository.Activity
	contents  repository.Contents
	store     *tenantscope.Store
	databases *DatabaseManager
	runtime   Runtime
	artifacts *ArtifactWriter
}

func NewOrchestrator(
	tenants repository.Tenants,
	activity repository.Activity,
	contents repository.Contents,
	store *tenantscope.Store,
	databases *DatabaseManager,
	runtime Runtime,
	artifacts *ArtifactWriter,
) *Orchestrator {
	return &Orchestrator{
		tenants:   tenants,
		activity:  activity,
		contents:  contents,
		store:     store,
		databases: databases,
		runtime:   runtime,
		artifacts: artifacts,
	}
}

// Provision walks the tenant from PENDING to RUNNING. It runs in the
// background after the creating request has returned, so failures cannot be
// reported to a caller: they are logged with the failing step, teardown runs
// best-effort and the tenant lands in FAILED for operator follow-up. No
// automatic retry.
func (o *Orchestrator) Provision(ctx context.Context, t *domain.Tenant) error {
	if err := o.tenants.UpdateStatus(ctx, t.ID, domain.TenantProvisioning, nil); err != nil {
		return pkgerrors.Wrap(err, "mark tenant provisioning")
	}

	if err := o.provisionSteps(ctx, t); err != nil {
		o.fail(ctx, t, err)
		return err
	}

	if err := o.tenants.UpdateStatus(ctx, t.ID, domain.TenantRunning, nil); err != nil {
		return pkgerrors.Wrap(err, "mark tenant running")
	}

	logger.Info("tenant provisioned",
		zap.String("tenant_id", t.ID.String()),
		zap.String("subdomain", t.Subdomain),
	)

	return nil
}

func (o *Orchestrator) provisionSteps(ctx context.Context, t *domain.Tenant) error {
	if err := o.databases.Create(ctx, t.ResourceDBName); err != nil {
		return pkgerrors.Wrap(err, "step database")
	}

	envFile, err := o.artifacts.WriteEnvFile(t)
	if err != nil {
		return pkgerrors.Wrap(err, "step envfile")
	}

	if err := o.artifacts.WriteProxyRoute(t); err != nil {
		return pkgerrors.Wrap(err, "step proxy")
	}

	if err := o.runtime.Start(ctx, t, envFile); err != nil {
		return pkgerrors.Wrap(err, "step runtime")
	}

	if err := seedSampleContent(ctx, o.store, t); err != nil {
		return pkgerrors.Wrap(err, "step seed")
	}

	return nil
}

// fail rolls back best-effort and records the failure. Teardown's own errors
// are logged rather than allowed to mask the original one.
func (o *Orchestrator) fail(ctx context.Context, t *domain.Tenant, cause error) {
	logger.Error("provisioning failed",
		zap.String("tenant_id", t.ID.String()),
		zap.String("subdomain", t.Subdomain),
		zap.Error(cause),
	)

	if err := o.Teardown(ctx, t); err != nil {
		logger.Error("rollback teardown failed",
			zap.String("tenant_id", t.ID.String()),
			zap.Error(err),
		)
	}

	reason := cause.Error()
	if err := o.tenants.UpdateStatus(ctx, t.ID, domain.TenantFailed, &reason); err != nil {
		logger.Error("mark tenant failed errored",
			zap.String("tenant_id", t.ID.String()),
			zap.Error(err),
		)
	}
}

// Teardown reverses provisioning: stop the runtime, drop the database,
// delete artifacts, and delete every record carrying the tenant's id. Every
// step tolerates the resource already being gone, so a second invocation is
// a no-op.
func (o *Orchestrator) Teardown(ctx context.Context, t *domain.Tenant) error {
	if err := o.runtime.Stop(ctx, t); err != nil {
		return pkgerrors.Wrap(err, "stop runtime")
	}

	if err := o.databases.Drop(ctx, t.ResourceDBName); err != nil {
		return pkgerrors.Wrap(err, "drop database")
	}

	if err := o.artifacts.Remove(t); err != nil {
		return pkgerrors.Wrap(err, "remove artifacts")
	}

	deleted, err := o.contents.DeleteByTenant(ctx, t.ID)
	if err != nil {
		return pkgerrors.Wrap(err, "delete tenant content")
	}

	if err := o.activity.DeleteByTenant(ctx, t.ID); err != nil {
		return pkgerrors.Wrap(err, "delete tenant activity")
	}

	logger.Info("tenant torn down",
		zap.String("tenant_id", t.ID.String()),
		zap.Int64("content_rows_deleted", deleted),
	)

	return nil
}

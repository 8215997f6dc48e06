package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nodepress/demo-control-plane/internal/domain"
)

func TestProvisionTenant_WalksPendingTenantToRunning(t *testing.T) {
	f := newWorkerFixture(t)
	p := newProvisioner(f.tenants, f.orchestrator)

	tenant := runningTenant("alpha")
	tenant.Status = domain.TenantPending

	f.tenants.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.tenants.On("UpdateStatus", mock.Anything, tenant.ID, domain.TenantProvisioning, (*string)(nil)).Return(nil).Once()
	f.tenants.On("UpdateStatus", mock.Anything, tenant.ID, domain.TenantRunning, (*string)(nil)).Return(nil).Once()
	f.contents.On("Create", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, p.ProvisionTenant(context.Background(), tenant.ID))

	assert.Equal(t, []string{"alpha"}, f.runtime.started)
	f.tenants.AssertExpectations(t)
}

func TestProvisionTenant_UnknownTenantIsDropped(t *testing.T) {
	f := newWorkerFixture(t)
	p := newProvisioner(f.tenants, f.orchestrator)

	id := uuid.New()
	f.tenants.On("GetByID", mock.Anything, id).Return(nil, domain.ErrNotFound)

	assert.NoError(t, p.ProvisionTenant(context.Background(), id))
	assert.Empty(t, f.runtime.started)
}

func TestProvisionTenant_SkipsNonPendingTenant(t *testing.T) {
	f := newWorkerFixture(t)
	p := newProvisioner(f.tenants, f.orchestrator)

	tenant := runningTenant("alpha")
	f.tenants.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil)

	require.NoError(t, p.ProvisionTenant(context.Background(), tenant.ID))

	assert.Empty(t, f.runtime.started)
	f.tenants.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProvisionTenant_FailureIsNotRetried(t *testing.T) {
	f := newWorkerFixture(t)
	p := newProvisioner(f.tenants, f.orchestrator)

	tenant := runningTenant("alpha")
	tenant.Status = domain.TenantPending
	f.runtime.startErrs["alpha"] = errors.New("port already bound")

	f.tenants.On("GetByID", mock.Anything, tenant.ID).Return(tenant, nil)
	f.tenants.On("UpdateStatus", mock.Anything, tenant.ID, domain.TenantProvisioning, (*string)(nil)).Return(nil).Once()
	f.tenants.On("UpdateStatus", mock.Anything, tenant.ID, domain.TenantFailed, mock.Anything).Return(nil).Once()
	f.contents.On("DeleteByTenant", mock.Anything, tenant.ID).Return(int64(0), nil)
	f.activity.On("DeleteByTenant", mock.Anything, tenant.ID).Return(nil)

	// The orchestrator already owns the failure; the task reports success so
	// the queue does not re-deliver it.
	assert.NoError(t, p.ProvisionTenant(context.Background(), tenant.ID))
	f.tenants.AssertExpectations(t)
}

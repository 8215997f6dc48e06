package provision

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/internal/repository/mocks"
	"github.com/nodepress/demo-control-plane/internal/tenantscope"
)

type fakeAdmin struct {
	queries []string
}

func (f *fakeAdmin) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.queries = append(f.queries, query)
	return driver.RowsAffected(0), nil
}

type fakeRuntime struct {
	started  []string
	stopped  []string
	startErr error
	stopErr  error
}

func (f *fakeRuntime) Start(ctx context.Context, t *domain.Tenant, envFile string) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started = append(f.started, t.Subdomain)
	return nil
}

func (f *fakeRuntime) Stop(ctx context.Context, t *domain.Tenant) error {
	if f.stopErr != nil {
		return f.stopErr
	}
	f.stopped = append(f.stopped, t.Subdomain)
	return nil
}

type orchestratorFixture struct {
	tenants  *mocks.Tenants
	activity *mocks.Activity
	contents *mocks.Contents
	admin    *fakeAdmin
	runtime  *fakeRuntime
	orch     *Orchestrator
}

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	f := &orchestratorFixture{
		tenants:  new(mocks.Tenants),
		activity: new(mocks.Activity),
		contents: new(mocks.Contents),
		admin:    &fakeAdmin{},
		runtime:  &fakeRuntime{},
	}

	f.orch = NewOrchestrator(
		f.tenants,
		f.activity,
		f.contents,
		tenantscope.NewStore(f.contents),
		NewDatabaseManager(f.admin),
		f.runtime,
		NewArtifactWriter(t.TempDir(), "demo.example.com"),
	)

	return f
}

func provisionTenant() *domain.Tenant {
	t := artifactTenant()
	t.Status = domain.TenantPending
	t.ExpiresAt = time.Now().Add(24 * time.Hour)
	return t
}

func TestProvision_WalksToRunning(t *testing.T) {
	f := newOrchestratorFixture(t)
	tenant := provisionTenant()

	f.tenants.On("UpdateStatus", mock.Anything, tenant.ID, domain.TenantProvisioning, (*string)(nil)).Return(nil).Once()
	f.tenants.On("UpdateStatus", mock.Anything, tenant.ID, domain.TenantRunning, (*string)(nil)).Return(nil).Once()

	var seeded []*domain.ContentItem
	f.contents.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		seeded = append(seeded, args.Get(1).(*domain.ContentItem))
	}).Return(nil)

	require.NoError(t, f.orch.Provision(context.Background(), tenant))

	require.Len(t, f.admin.queries, 1)
	assert.Contains(t, f.admin.queries[0], "CREATE DATABASE IF NOT EXISTS `demo_acme_0189f7a0`")
	assert.Equal(t, []string{"acme"}, f.runtime.started)

	require.NotEmpty(t, seeded)
	for _, item := range seeded {
		require.NotNil(t, item.TenantID)
		assert.Equal(t, tenant.ID, *item.TenantID)
		assert.True(t, item.Published)
	}

	f.tenants.AssertExpectations(t)
}

func TestProvision_FailureRollsBackAndMarksFailed(t *testing.T) {
	f := newOrchestratorFixture(t)
	f.runtime.startErr = errors.New("port already bound")
	tenant := provisionTenant()

	f.tenants.On("UpdateStatus", mock.Anything, tenant.ID, domain.TenantProvisioning, (*string)(nil)).Return(nil).Once()

	var failureReason *string
	f.tenants.On("UpdateStatus", mock.Anything, tenant.ID, domain.TenantFailed, mock.Anything).Run(func(args mock.Arguments) {
		failureReason = args.Get(3).(*string)
	}).Return(nil).Once()

	f.contents.On("DeleteByTenant", mock.Anything, tenant.ID).Return(int64(0), nil)
	f.activity.On("DeleteByTenant", mock.Anything, tenant.ID).Return(nil)

	err := f.orch.Provision(context.Background(), tenant)
	require.Error(t, err)

	require.NotNil(t, failureReason)
	assert.Contains(t, *failureReason, "port already bound")

	// Rollback dropped the database and stopped the runtime.
	assert.Equal(t, []string{"acme"}, f.runtime.stopped)
	require.Len(t, f.admin.queries, 2)
	assert.Contains(t, f.admin.queries[1], "DROP DATABASE IF EXISTS `demo_acme_0189f7a0`")

	f.tenants.AssertExpectations(t)
}

func TestTeardown_RemovesEverything(t *testing.T) {
	f := newOrchestratorFixture(t)
	tenant := provisionTenant()

	f.contents.On("DeleteByTenant", mock.Anything, tenant.ID).Return(int64(7), nil)
	f.activity.On("DeleteByTenant", mock.Anything, tenant.ID).Return(nil)

	require.NoError(t, f.orch.Teardown(context.Background(), tenant))

	assert.Equal(t, []string{"acme"}, f.runtime.stopped)
	require.Len(t, f.admin.queries, 1)
	assert.Contains(t, f.admin.queries[0], "DROP DATABASE IF EXISTS")

	f.contents.AssertExpectations(t)
	f.activity.AssertExpectations(t)
}

func TestTeardown_IsIdempotent(t *testing.T) {
	f := newOrchestratorFixture(t)
	tenant := provisionTenant()

	f.contents.On("DeleteByTenant", mock.Anything, tenant.ID).Return(int64(0), nil)
	f.activity.On("DeleteByTenant", mock.Anything, tenant.ID).Return(nil)

	require.NoError(t, f.orch.Teardown(context.Background(), tenant))
	require.NoError(t, f.orch.Teardown(context.Background(), tenant))
}

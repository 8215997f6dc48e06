package worker

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/internal/provision"
	"github.com/nodepress/demo-control-plane/internal/repository/mocks"
	"github.com/nodepress/demo-control-plane/internal/tenantscope"
)

type stubEnqueuer struct {
	mock.Mock
}

func (m *stubEnqueuer) EnqueueVerificationEmail(ctx context.Context, email, name, token string) error {
	args := m.Called(ctx, email, name, token)
	return args.Error(0)
}

func (m *stubEnqueuer) EnqueueCredentialsEmail(ctx context.Context, email, subdomain, adminEmail, adminPassword string, expiresAt time.Time) error {
	args := m.Called(ctx, email, subdomain, adminEmail, adminPassword, expiresAt)
	return args.Error(0)
}

func (m *stubEnqueuer) EnqueueExpirationWarning(ctx context.Context, email, subdomain string, expiresAt time.Time) error {
	args := m.Called(ctx, email, subdomain, expiresAt)
	return args.Error(0)
}

func (m *stubEnqueuer) EnqueueProvision(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

type stubAdmin struct{}

func (stubAdmin) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return driver.RowsAffected(0), nil
}

// stubRuntime fails per subdomain so batch tests can mix outcomes.
type stubRuntime struct {
	started   []string
	stopped   []string
	startErrs map[string]error
	stopErrs  map[string]error
}

func (f *stubRuntime) Start(ctx context.Context, t *domain.Tenant, envFile string) error {
	if err := f.startErrs[t.Subdomain]; err != nil {
		return err
	}
	f.started = append(f.started, t.Subdomain)
	return nil
}

func (f *stubRuntime) Stop(ctx context.Context, t *domain.Tenant) error {
	if err := f.stopErrs[t.Subdomain]; err != nil {
		return err
	}
	f.stopped = append(f.stopped, t.Subdomain)
	return nil
}

type workerFixture struct {
	tenants       *mocks.Tenants
	verifications *mocks.Verifications
	activity      *mocks.Activity
	contents      *mocks.Contents
	runtime       *stubRuntime
	enqueuer      *stubEnqueuer
	orchestrator  *provision.Orchestrator
}

func newWorkerFixture(t *testing.T) *workerFixture {
	f := &workerFixture{
		tenants:       new(mocks.Tenants),
		verifications: new(mocks.Verifications),
		activity:      new(mocks.Activity),
		contents:      new(mocks.Contents),
		runtime:       &stubRuntime{startErrs: map[string]error{}, stopErrs: map[string]error{}},
		enqueuer:      new(stubEnqueuer),
	}

	f.orchestrator = provision.NewOrchestrator(
		f.tenants,
		f.activity,
		f.contents,
		tenantscope.NewStore(f.contents),
		provision.NewDatabaseManager(stubAdmin{}),
		f.runtime,
		provision.NewArtifactWriter(t.TempDir(), "demo.example.com"),
	)

	return f
}

func runningTenant(subdomain string) *domain.Tenant {
	return &domain.Tenant{
		ID:             uuid.New(),
		Subdomain:      subdomain,
		Email:          subdomain + "@acme.com",
		ResourcePort:   9100,
		ResourceDBName: "demo_" + subdomain,
		Status:         domain.TenantRunning,
		ExpiresAt:      time.Now().Add(-time.Minute),
	}
}

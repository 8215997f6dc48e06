package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nodepress/demo-control-plane/internal/config"
	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/internal/repository"
	"github.com/nodepress/demo-control-plane/internal/tenantscope"
	"github.com/nodepress/demo-control-plane/pkg/hash"
)

type Services struct {
	Gateway   Gateway
	Lifecycle Lifecycle
	Activity  Activity
}

// Enqueuer dispatches background work so request handlers never wait on
// SMTP or provisioning.
type Enqueuer interface {
	EnqueueVerificationEmail(ctx context.Context, email, name, token string) error
	EnqueueCredentialsEmail(ctx context.Context, email, subdomain, adminEmail, adminPassword string, expiresAt time.Time) error
	EnqueueExpirationWarning(ctx context.Context, email, subdomain string, expiresAt time.Time) error
	EnqueueProvision(ctx context.Context, tenantID uuid.UUID) error
}

// Teardowner is the orchestrator's teardown path, invoked synchronously by
// terminate and by the expiration sweep.
type Teardowner interface {
	Teardown(ctx context.Context, t *domain.Tenant) error
}

// AllocLocker serializes port and subdomain allocation across concurrent
// creations.
type AllocLocker interface {
	Acquire(ctx context.Context) (release func(), err error)
}

type Deps struct {
	Config     *config.Config
	Repos      *repository.Repositories
	Store      *tenantscope.Store
	Hasher     hash.PasswordHasher
	Resolver   MXResolver
	Enqueuer   Enqueuer
	Teardowner Teardowner
	Locker     AllocLocker
}

func NewServices(deps Deps) *Services {
	lifecycle := newLifecycleService(
		deps.Repos.Tenants,
		deps.Repos.Activity,
		deps.Store,
		deps.Hasher,
		deps.Enqueuer,
		deps.Teardowner,
		deps.Locker,
		deps.Config.Demo,
	)

	return &Services{
		Gateway:   newGatewayService(deps.Repos.Verifications, lifecycle, newEmailPolicy(deps.Resolver), deps.Enqueuer, deps.Config.Demo),
		Lifecycle: lifecycle,
		Activity:  newActivityService(deps.Repos.Tenants, deps.Repos.Activity),
	}
}

type RequestDemoInput struct {
	Email              string
	Name               string
	Company            *string
	Phone              *string
	PreferredSubdomain *string
}

// TenantCredentials is what a verified requester needs to enter their demo.
// AdminPassword is only populated on the first successful verification; an
// idempotent replay returns the rest from the stored tenant.
type TenantCredentials struct {
	TenantID      uuid.UUID
	Subdomain     string
	AccessURL     string
	AdminEmail    string
	AdminPassword string
	AccessToken   string
	ExpiresAt     time.Time
}

type Gateway interface {
	RequestDemo(ctx context.Context, input RequestDemoInput) error
	VerifyToken(ctx context.Context, token string) (*TenantCredentials, error)
}

type CreateTenantInput struct {
	Name               string
	Email              string
	Company            *string
	Phone              *string
	PreferredSubdomain *string
}

// CreatedTenant carries the one-time plaintext admin password alongside the
// persisted row.
type CreatedTenant struct {
	Tenant        *domain.Tenant
	AdminPassword string
}

type TenantDetail struct {
	Tenant       *domain.Tenant
	ContentCount int64
}

type AnalyticsSummary struct {
	TenantsByStatus map[domain.TenantStatus]int64
	FeatureUsage    map[string]int64
	TotalTenants    int64
	UpgradeRequests int64
	ConversionRate  float64
}

type Lifecycle interface {
	CreateTenant(ctx context.Context, input CreateTenantInput) (*CreatedTenant, error)
	ExtendTenant(ctx context.Context, id uuid.UUID, hours int) (*domain.Tenant, error)
	TerminateTenant(ctx context.Context, id uuid.UUID) error
	RequestUpgrade(ctx context.Context, accessToken string, notes *string) error
	ListTenants(ctx context.Context, filters *repository.TenantFilters) ([]*domain.Tenant, error)
	GetTenantDetail(ctx context.Context, id uuid.UUID) (*TenantDetail, error)
	GetAnalyticsSummary(ctx context.Context) (*AnalyticsSummary, error)
	GetByAccessToken(ctx context.Context, accessToken string) (*domain.Tenant, error)
}

type Activity interface {
	TrackFeature(ctx context.Context, accessToken, feature, action string, metadata *string) error
	OpenSession(ctx context.Context, tenantID uuid.UUID, userAgent, ip string) error
	RecordAccess(ctx context.Context, tenantID uuid.UUID, method, path string, status int) error
	RecordLogin(ctx context.Context, accessToken, email string, success bool, ip string) error
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nodepress/demo-control-plane/internal/domain"
)

type Repositories struct {
	Verifications Verifications
	Tenants       Tenants
	Activity      Activity
	Contents      Contents
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Verifications: newVerificationRepository(db),
		Tenants:       newTenantRepository(db),
		Activity:      newActivityRepository(db),
		Contents:      newContentRepository(db),
	}
}

type Verifications interface {
	Create(ctx context.Context, v *domain.VerificationRequest) error
	GetByToken(ctx context.Context, token string) (*domain.VerificationRequest, error)
	GetPendingByEmail(ctx context.Context, email string) (*domain.VerificationRequest, error)
	Update(ctx context.Context, v *domain.VerificationRequest) error
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

type TenantFilters struct {
	Status *domain.TenantStatus
	Email  *string
	Limit  int
	Offset int
}

type Tenants interface {
	Create(ctx context.Context, t *domain.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	GetByAccessToken(ctx context.Context, token string) (*domain.Tenant, error)
	Update(ctx context.Context, t *domain.Tenant) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TenantStatus, failureReason *string) error
	List(ctx context.Context, filters *TenantFilters) ([]*domain.Tenant, error)
	CountByStatuses(ctx context.Context, statuses []domain.TenantStatus) (int64, error)
	ExistsActiveByEmail(ctx context.Context, email string) (bool, error)
	SubdomainTaken(ctx context.Context, subdomain string) (bool, error)
	UsedPorts(ctx context.Context) ([]int, error)
	ListExpired(ctx context.Context, now time.Time) ([]*domain.Tenant, error)
	ListWarnable(ctx context.Context, from, to time.Time) ([]*domain.Tenant, error)
	MarkWarned(ctx context.Context, id uuid.UUID) error
	TouchAccess(ctx context.Context, id uuid.UUID, now time.Time) error
	StatusCounts(ctx context.Context) (map[domain.TenantStatus]int64, error)
	UpgradeCounts(ctx context.Context) (total int64, upgraded int64, err error)
}

type Activity interface {
	CreateSession(ctx context.Context, s *domain.TenantSession) error
	CreateFeatureUsage(ctx context.Context, ev *domain.FeatureUsageEvent) error
	CreateAccessLog(ctx context.Context, l *domain.AccessLog) error
	CreateLoginAttempt(ctx context.Context, a *domain.LoginAttempt) error
	FeatureUsageHistogram(ctx context.Context) (map[string]int64, error)
	DeleteByTenant(ctx context.Context, tenantID uuid.UUID) error
}

// ContentFilters is the raw filter set for tenant-scoped content rows. The
// Tenant field is always set by the tenantscope facade, never by callers:
// nil means production rows (tenant_id IS NULL).
type ContentFilters struct {
	Tenant    *uuid.UUID
	Kind      *domain.ContentKind
	Published *bool
	Limit     int
	Offset    int
}

type Contents interface {
	Create(ctx context.Context, item *domain.ContentItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error)
	List(ctx context.Context, filters *ContentFilters) ([]*domain.ContentItem, error)
	Count(ctx context.Context, filters *ContentFilters) (int64, error)
	UpdateScoped(ctx context.Context, item *domain.ContentItem, tenant *uuid.UUID) error
	DeleteScoped(ctx context.Context, id uuid.UUID, tenant *uuid.UUID) error
	DeleteByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

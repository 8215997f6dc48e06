// Package mocks provides testify doubles for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/internal/repository"
)

type Verifications struct {
	mock.Mock
}

func (m *Verifications) Create(ctx context.Context, v *domain.VerificationRequest) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *Verifications) GetByToken(ctx context.Context, token string) (*domain.VerificationRequest, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRequest), args.Error(1)
}

func (m *Verifications) GetPendingByEmail(ctx context.Context, email string) (*domain.VerificationRequest, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationRequest), args.Error(1)
}

func (m *Verifications) Update(ctx context.Context, v *domain.VerificationRequest) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *Verifications) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type Tenants struct {
	mock.Mock
}

func (m *Tenants) Create(ctx context.Context, t *domain.Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *Tenants) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *Tenants) GetByAccessToken(ctx context.Context, token string) (*domain.Tenant, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *Tenants) Update(ctx context.Context, t *domain.Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *Tenants) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TenantStatus, failureReason *string) error {
	args := m.Called(ctx, id, status, failureReason)
	return args.Error(0)
}

func (m *Tenants) List(ctx context.Context, filters *repository.TenantFilters) ([]*domain.Tenant, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Tenant), args.Error(1)
}

func (m *Tenants) CountByStatuses(ctx context.Context, statuses []domain.TenantStatus) (int64, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Tenants) ExistsActiveByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *Tenants) SubdomainTaken(ctx context.Context, subdomain string) (bool, error) {
	args := m.Called(ctx, subdomain)
	return args.Bool(0), args.Error(1)
}

func (m *Tenants) UsedPorts(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *Tenants) ListExpired(ctx context.Context, now time.Time) ([]*domain.Tenant, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Tenant), args.Error(1)
}

func (m *Tenants) ListWarnable(ctx context.Context, from, to time.Time) ([]*domain.Tenant, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Tenant), args.Error(1)
}

func (m *Tenants) MarkWarned(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Tenants) TouchAccess(ctx context.Context, id uuid.UUID, now time.Time) error {
	args := m.Called(ctx, id, now)
	return args.Error(0)
}

func (m *Tenants) StatusCounts(ctx context.Context) (map[domain.TenantStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.TenantStatus]int64), args.Error(1)
}

func (m *Tenants) UpgradeCounts(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

type Activity struct {
	mock.Mock
}

func (m *Activity) CreateSession(ctx context.Context, s *domain.TenantSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *Activity) CreateFeatureUsage(ctx context.Context, ev *domain.FeatureUsageEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *Activity) CreateAccessLog(ctx context.Context, l *domain.AccessLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *Activity) CreateLoginAttempt(ctx context.Context, a *domain.LoginAttempt) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *Activity) FeatureUsageHistogram(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *Activity) DeleteByTenant(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

type Contents struct {
	mock.Mock
}

func (m *Contents) Create(ctx context.Context, item *domain.ContentItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *Contents) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentItem), args.Error(1)
}

func (m *Contents) List(ctx context.Context, filters *repository.ContentFilters) ([]*domain.ContentItem, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentItem), args.Error(1)
}

func (m *Contents) Count(ctx context.Context, filters *repository.ContentFilters) (int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Contents) UpdateScoped(ctx context.Context, item *domain.ContentItem, tenant *uuid.UUID) error {
	args := m.Called(ctx, item, tenant)
	return args.Error(0)
}

func (m *Contents) DeleteScoped(ctx context.Context, id uuid.UUID, tenant *uuid.UUID) error {
	args := m.Called(ctx, id, tenant)
	return args.Error(0)
}

func (m *Contents) DeleteByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

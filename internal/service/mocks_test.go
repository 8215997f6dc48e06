package service

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/internal/repository"
)

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueVerificationEmail(ctx context.Context, email, name, token string) error {
	args := m.Called(ctx, email, name, token)
	return args.Error(0)
}

func (m *mockEnqueuer) EnqueueCredentialsEmail(ctx context.Context, email, subdomain, adminEmail, adminPassword string, expiresAt time.Time) error {
	args := m.Called(ctx, email, subdomain, adminEmail, adminPassword, expiresAt)
	return args.Error(0)
}

func (m *mockEnqueuer) EnqueueExpirationWarning(ctx context.Context, email, subdomain string, expiresAt time.Time) error {
	args := m.Called(ctx, email, subdomain, expiresAt)
	return args.Error(0)
}

func (m *mockEnqueuer) EnqueueProvision(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

type mockTeardowner struct {
	mock.Mock
}

func (m *mockTeardowner) Teardown(ctx context.Context, t *domain.Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

type mockLifecycle struct {
	mock.Mock
}

func (m *mockLifecycle) CreateTenant(ctx context.Context, input CreateTenantInput) (*CreatedTenant, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CreatedTenant), args.Error(1)
}

func (m *mockLifecycle) ExtendTenant(ctx context.Context, id uuid.UUID, hours int) (*domain.Tenant, error) {
	args := m.Called(ctx, id, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *mockLifecycle) TerminateTenant(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockLifecycle) RequestUpgrade(ctx context.Context, accessToken string, notes *string) error {
	args := m.Called(ctx, accessToken, notes)
	return args.Error(0)
}

func (m *mockLifecycle) ListTenants(ctx context.Context, filters *repository.TenantFilters) ([]*domain.Tenant, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Tenant), args.Error(1)
}

func (m *mockLifecycle) GetTenantDetail(ctx context.Context, id uuid.UUID) (*TenantDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TenantDetail), args.Error(1)
}

func (m *mockLifecycle) GetAnalyticsSummary(ctx context.Context) (*AnalyticsSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*AnalyticsSummary), args.Error(1)
}

func (m *mockLifecycle) GetByAccessToken(ctx context.Context, accessToken string) (*domain.Tenant, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

// fakeResolver answers MX lookups from a canned response.
type fakeResolver struct {
	records []*net.MX
	err     error
}

func (r *fakeResolver) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	return r.records, r.err
}

func resolverWithMX() *fakeResolver {
	return &fakeResolver{records: []*net.MX{{Host: "mx.example.com", Pref: 10}}}
}

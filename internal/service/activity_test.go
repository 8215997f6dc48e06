package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/internal/repository/mocks"
)

func TestTrackFeature_RecordsEventAndTouchesAccess(t *testing.T) {
	tenants := new(mocks.Tenants)
	activity := new(mocks.Activity)
	svc := newActivityService(tenants, activity)

	tenant := &domain.Tenant{ID: uuid.New(), Status: domain.TenantRunning}
	tenants.On("GetByAccessToken", mock.Anything, "access").Return(tenant, nil)

	var recorded *domain.FeatureUsageEvent
	activity.On("CreateFeatureUsage", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		recorded = args.Get(1).(*domain.FeatureUsageEvent)
	}).Return(nil)
	tenants.On("TouchAccess", mock.Anything, tenant.ID, mock.Anything).Return(nil)

	err := svc.TrackFeature(context.Background(), "access", "posts", "create", nil)
	require.NoError(t, err)

	require.NotNil(t, recorded)
	assert.Equal(t, tenant.ID, recorded.TenantID)
	assert.Equal(t, "posts", recorded.Feature)
	assert.Equal(t, "create", recorded.Action)
	tenants.AssertExpectations(t)
}

func TestTrackFeature_UnknownAccessToken(t *testing.T) {
	tenants := new(mocks.Tenants)
	svc := newActivityService(tenants, new(mocks.Activity))

	tenants.On("GetByAccessToken", mock.Anything, "nope").Return(nil, domain.ErrNotFound)

	err := svc.TrackFeature(context.Background(), "nope", "posts", "create", nil)

	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestTrackFeature_TerminalTenant(t *testing.T) {
	tenants := new(mocks.Tenants)
	activity := new(mocks.Activity)
	svc := newActivityService(tenants, activity)

	tenant := &domain.Tenant{ID: uuid.New(), Status: domain.TenantExpired}
	tenants.On("GetByAccessToken", mock.Anything, "access").Return(tenant, nil)

	err := svc.TrackFeature(context.Background(), "access", "posts", "create", nil)

	assert.ErrorIs(t, err, ErrTenantNotActive)
	activity.AssertNotCalled(t, "CreateFeatureUsage", mock.Anything, mock.Anything)
}

func TestOpenSession_StoresAgentAndIP(t *testing.T) {
	activity := new(mocks.Activity)
	svc := newActivityService(new(mocks.Tenants), activity)

	tenantID := uuid.New()
	var recorded *domain.TenantSession
	activity.On("CreateSession", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		recorded = args.Get(1).(*domain.TenantSession)
	}).Return(nil)

	err := svc.OpenSession(context.Background(), tenantID, "Mozilla/5.0", "203.0.113.9")
	require.NoError(t, err)

	require.NotNil(t, recorded)
	assert.Equal(t, tenantID, recorded.TenantID)
	assert.Equal(t, "Mozilla/5.0", recorded.UserAgent)
	assert.Equal(t, "203.0.113.9", recorded.IP)
}

func TestRecordAccess_WritesLogAndTouchesAccess(t *testing.T) {
	tenants := new(mocks.Tenants)
	activity := new(mocks.Activity)
	svc := newActivityService(tenants, activity)

	tenantID := uuid.New()
	var recorded *domain.AccessLog
	activity.On("CreateAccessLog", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		recorded = args.Get(1).(*domain.AccessLog)
	}).Return(nil)
	tenants.On("TouchAccess", mock.Anything, tenantID, mock.Anything).Return(nil)

	err := svc.RecordAccess(context.Background(), tenantID, "POST", "/api/v1/demos/track", 200)
	require.NoError(t, err)

	require.NotNil(t, recorded)
	assert.Equal(t, tenantID, recorded.TenantID)
	assert.Equal(t, "POST", recorded.Method)
	assert.Equal(t, "/api/v1/demos/track", recorded.Path)
	assert.Equal(t, 200, recorded.Status)
	tenants.AssertExpectations(t)
}

func TestRecordLogin_ResolvesTenantByAccessToken(t *testing.T) {
	tenants := new(mocks.Tenants)
	activity := new(mocks.Activity)
	svc := newActivityService(tenants, activity)

	tenant := &domain.Tenant{ID: uuid.New(), Status: domain.TenantRunning}
	tenants.On("GetByAccessToken", mock.Anything, "access").Return(tenant, nil)

	var recorded *domain.LoginAttempt
	activity.On("CreateLoginAttempt", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		recorded = args.Get(1).(*domain.LoginAttempt)
	}).Return(nil)

	err := svc.RecordLogin(context.Background(), "access", "admin@acme.demo", false, "203.0.113.9")
	require.NoError(t, err)

	require.NotNil(t, recorded)
	assert.Equal(t, tenant.ID, recorded.TenantID)
	assert.Equal(t, "admin@acme.demo", recorded.Email)
	assert.False(t, recorded.Success)
}

func TestRecordLogin_TerminalTenant(t *testing.T) {
	tenants := new(mocks.Tenants)
	activity := new(mocks.Activity)
	svc := newActivityService(tenants, activity)

	tenant := &domain.Tenant{ID: uuid.New(), Status: domain.TenantTerminated}
	tenants.On("GetByAccessToken", mock.Anything, "access").Return(tenant, nil)

	err := svc.RecordLogin(context.Background(), "access", "admin@acme.demo", true, "203.0.113.9")

	assert.ErrorIs(t, err, ErrTenantNotActive)
	activity.AssertNotCalled(t, "CreateLoginAttempt", mock.Anything, mock.Anything)
}

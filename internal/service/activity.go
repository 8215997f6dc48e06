package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/internal/repository"
)

type activityService struct {
	tenants  repository.Tenants
	activity repository.Activity
}

func newActivityService(tenants repository.Tenants, activity repository.Activity) *activityService {
	return &activityService{
		tenants:  tenants,
		activity: activity,
	}
}

// TrackFeature records one feature-usage event for the tenant owning the
// access token and bumps its last-accessed marker.
func (s *activityService) TrackFeature(ctx context.Context, accessToken, feature, action string, metadata *string) error {
	tenant, err := s.tenants.GetByAccessToken(ctx, accessToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrTenantNotFound
		}
		return fmt.Errorf("get tenant by access token failed: %w", err)
	}

	if tenant.Status.Terminal() {
		return ErrTenantNotActive
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate event id failed: %w", err)
	}

	ev := &domain.FeatureUsageEvent{
		ID:       id,
		TenantID: tenant.ID,
		Feature:  feature,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.activity.CreateFeatureUsage(ctx, ev); err != nil {
		return fmt.Errorf("create feature usage failed: %w", err)
	}

	if err := s.tenants.TouchAccess(ctx, tenant.ID, time.Now()); err != nil {
		return fmt.Errorf("touch tenant access failed: %w", err)
	}

	return nil
}

// OpenSession records a browser session against a tenant, once per
// successful verification.
func (s *activityService) OpenSession(ctx context.Context, tenantID uuid.UUID, userAgent, ip string) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate session id failed: %w", err)
	}

	session := &domain.TenantSession{
		ID:        id,
		TenantID:  tenantID,
		UserAgent: userAgent,
		IP:        ip,
	}

	if err := s.activity.CreateSession(ctx, session); err != nil {
		return fmt.Errorf("create session failed: %w", err)
	}

	return nil
}

// RecordAccess appends one access-log row and bumps the tenant's
// last-accessed marker.
func (s *activityService) RecordAccess(ctx context.Context, tenantID uuid.UUID, method, path string, status int) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate access log id failed: %w", err)
	}

	l := &domain.AccessLog{
		ID:       id,
		TenantID: tenantID,
		Method:   method,
		Path:     path,
		Status:   status,
	}

	if err := s.activity.CreateAccessLog(ctx, l); err != nil {
		return fmt.Errorf("create access log failed: %w", err)
	}

	if err := s.tenants.TouchAccess(ctx, tenantID, time.Now()); err != nil {
		return fmt.Errorf("touch tenant access failed: %w", err)
	}

	return nil
}

// RecordLogin stores an admin login attempt reported by a demo instance.
func (s *activityService) RecordLogin(ctx context.Context, accessToken, email string, success bool, ip string) error {
	tenant, err := s.tenants.GetByAccessToken(ctx, accessToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrTenantNotFound
		}
		return fmt.Errorf("get tenant by access token failed: %w", err)
	}

	if tenant.Status.Terminal() {
		return ErrTenantNotActive
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate login attempt id failed: %w", err)
	}

	attempt := &domain.LoginAttempt{
		ID:       id,
		TenantID: tenant.ID,
		Email:    email,
		Success:  success,
		IP:       ip,
	}

	if err := s.activity.CreateLoginAttempt(ctx, attempt); err != nil {
		return fmt.Errorf("create login attempt failed: %w", err)
	}

	return nil
}

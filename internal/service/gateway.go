package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/google/uuid"

	"github.com/nodepress/demo-control-plane/internal/config"
	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/internal/repository"
	"github.com/nodepress/demo-control-plane/pkg/logger"
	"github.com/nodepress/demo-control-plane/pkg/secret"
)

const (
	maxVerifyAttempts   = 5
	maxEmailsPerWindow  = 3
	resendRateLimitSpan = time.Hour
)

type gatewayService struct {
	verifications repository.Verifications
	lifecycle     Lifecycle
	policy        *emailPolicy
	enqueuer      Enqueuer
	demoConfig    config.DemoConfig
}

func newGatewayService(
	verifications repository.Verifications,
	lifecycle Lifecycle,
	policy *emailPolicy,
	enqueuer Enqueuer,
	demoConfig config.DemoConfig,
) *gatewayService {
	return &gatewayService{
		verifications: verifications,
		lifecycle:     lifecycle,
		policy:        policy,
		enqueuer:      enqueuer,
		demoConfig:    demoConfig,
	}
}

// RequestDemo validates the requester's email and either creates a new
// verification cycle or resends the pending one under the resend limit.
func (s *gatewayService) RequestDemo(ctx context.Context, input RequestDemoInput) error {
	email := normalizeEmail(input.Email)

	if err := s.policy.Check(ctx, email); err != nil {
		return err
	}

	pending, err := s.verifications.GetPendingByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get pending verification failed: %w", err)
	}

	now := time.Now()

	if pending != nil && !pending.TokenExpired(now) {
		return s.resend(ctx, pending, now)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate verification id failed: %w", err)
	}

	token, err := secret.NewToken()
	if err != nil {
		return fmt.Errorf("generate verification token failed: %w", err)
	}

	sentAt := now
	v := &domain.VerificationRequest{
		ID:                 id,
		Email:              email,
		Name:               input.Name,
		Company:            input.Company,
		Phone:              input.Phone,
		PreferredSubdomain: input.PreferredSubdomain,
		Token:              token,
		TokenExpiresAt:     now.Add(s.demoConfig.VerificationTTL),
		Status:             domain.VerificationPending,
		EmailSentCount:     1,
		LastEmailSentAt:    &sentAt,
	}

	if err := s.verifications.Create(ctx, v); err != nil {
		return fmt.Errorf("create verification request failed: %w", err)
	}

	s.sendVerificationEmail(ctx, v)

	return nil
}

// resend re-delivers the pending token, allowing at most three emails per
// rolling hour. Past the limit the user is told to check spam instead.
func (s *gatewayService) resend(ctx context.Context, v *domain.VerificationRequest, now time.Time) error {
	withinWindow := v.LastEmailSentAt != nil && now.Sub(*v.LastEmailSentAt) < resendRateLimitSpan

	if withinWindow && v.EmailSentCount >= maxEmailsPerWindow {
		return fmt.Errorf("%w: check your spam folder before requesting another email", ErrRateLimited)
	}

	if withinWindow {
		v.EmailSentCount++
	} else {
		v.EmailSentCount = 1
	}
	v.LastEmailSentAt = &now

	if err := s.verifications.Update(ctx, v); err != nil {
		return fmt.Errorf("update verification for resend failed: %w", err)
	}

	s.sendVerificationEmail(ctx, v)

	return nil
}

// sendVerificationEmail queues the email; delivery trouble is logged, never
// fatal to the verification flow.
func (s *gatewayService) sendVerificationEmail(ctx context.Context, v *domain.VerificationRequest) {
	if err := s.enqueuer.EnqueueVerificationEmail(ctx, v.Email, v.Name, v.Token); err != nil {
		logger.Error("enqueue verification email failed",
			zap.String("email", v.Email),
			zap.Error(err),
		)
	}
}

// VerifyToken exchanges a verification token for tenant credentials,
// creating the tenant on first success. Replays on a completed row return
// the stored credentials without the one-time password.
func (s *gatewayService) VerifyToken(ctx context.Context, token string) (*TenantCredentials, error) {
	v, err := s.verifications.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("get verification by token failed: %w", err)
	}

	now := time.Now()

	switch v.Status {
	case domain.VerificationCompleted:
		return s.replayCredentials(ctx, v)
	case domain.VerificationBlocked:
		return nil, ErrVerificationBlocked
	case domain.VerificationExpired:
		return nil, ErrVerificationExpired
	}

	if v.TokenExpired(now) {
		v.Status = domain.VerificationExpired
		if err := s.verifications.Update(ctx, v); err != nil {
			logger.Error("expire verification failed", zap.String("email", v.Email), zap.Error(err))
		}
		return nil, ErrVerificationExpired
	}

	v.AttemptCount++
	if v.AttemptCount > maxVerifyAttempts {
		v.Status = domain.VerificationBlocked
		if err := s.verifications.Update(ctx, v); err != nil {
			return nil, fmt.Errorf("block verification failed: %w", err)
		}
		return nil, ErrVerificationBlocked
	}

	v.Status = domain.VerificationVerified
	if err := s.verifications.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("update verification failed: %w", err)
	}

	created, err := s.lifecycle.CreateTenant(ctx, CreateTenantInput{
		Name:               v.Name,
		Email:              v.Email,
		Company:            v.Company,
		Phone:              v.Phone,
		PreferredSubdomain: v.PreferredSubdomain,
	})
	if err != nil {
		if errors.Is(err, ErrTenantConflict) || errors.Is(err, ErrCapacityExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrProvisioningFailed, err)
	}

	tenant := created.Tenant
	v.LinkedTenantID = &tenant.ID
	v.Status = domain.VerificationCompleted
	if err := s.verifications.Update(ctx, v); err != nil {
		logger.Error("complete verification failed", zap.String("email", v.Email), zap.Error(err))
	}

	creds := s.credentials(tenant)
	creds.AdminPassword = created.AdminPassword

	if err := s.enqueuer.EnqueueCredentialsEmail(ctx, tenant.Email, tenant.Subdomain, tenant.AdminEmail, created.AdminPassword, tenant.ExpiresAt); err != nil {
		logger.Error("enqueue credentials email failed", zap.String("email", tenant.Email), zap.Error(err))
	}

	return creds, nil
}

func (s *gatewayService) replayCredentials(ctx context.Context, v *domain.VerificationRequest) (*TenantCredentials, error) {
	if v.LinkedTenantID == nil {
		return nil, ErrInvalidToken
	}

	detail, err := s.lifecycle.GetTenantDetail(ctx, *v.LinkedTenantID)
	if err != nil {
		return nil, fmt.Errorf("get linked tenant failed: %w", err)
	}

	return s.credentials(detail.Tenant), nil
}

func (s *gatewayService) credentials(t *domain.Tenant) *TenantCredentials {
	return &TenantCredentials{
		TenantID:    t.ID,
		Subdomain:   t.Subdomain,
		AccessURL:   fmt.Sprintf("https://%s.%s", t.Subdomain, s.demoConfig.BaseDomain),
		AdminEmail:  t.AdminEmail,
		AccessToken: t.AccessToken,
		ExpiresAt:   t.ExpiresAt,
	}
}

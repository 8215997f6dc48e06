package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nodepress/demo-control-plane/internal/config"
	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/internal/repository"
	"github.com/nodepress/demo-control-plane/internal/tenantscope"
	"github.com/nodepress/demo-control-plane/pkg/hash"
	"github.com/nodepress/demo-control-plane/pkg/logger"
	"github.com/nodepress/demo-control-plane/pkg/secret"
)

const (
	adminPasswordLength = 16
	fallbackSubdomain   = "demo"
	maxSubdomainLength  = 32
)

type lifecycleService struct {
	tenants    repository.Tenants
	activity   repository.Activity
	store      *tenantscope.Store
	hasher     hash.PasswordHasher
	enqueuer   Enqueuer
	teardowner Teardowner
	locker     AllocLocker
	demoConfig config.DemoConfig
}

func newLifecycleService(
	tenants repository.Tenants,
	activity repository.Activity,
	store *tenantscope.Store,
	hasher hash.PasswordHasher,
	enqueuer Enqueuer,
	teardowner Teardowner,
	locker AllocLocker,
	demoConfig config.DemoConfig,
) *lifecycleService {
	return &lifecycleService{
		tenants:    tenants,
		activity:   activity,
		store:      store,
		hasher:     hasher,
		enqueuer:   enqueuer,
		teardowner: teardowner,
		locker:     locker,
		demoConfig: demoConfig,
	}
}

// CreateTenant allocates a subdomain and resource port, persists the tenant
// as PENDING and queues provisioning; the caller gets credentials back
// without waiting for infrastructure.
//
// The cap check and the insert are not one atomic unit. The allocation lock
// serializes creations in practice, and the unique keys on subdomain and
// resource_port catch whatever slips through, so a transient overshoot of
// the cap by a racing request is tolerated rather than guarded by consensus.
func (s *lifecycleService) CreateTenant(ctx context.Context, input CreateTenantInput) (*CreatedTenant, error) {
	email := normalizeEmail(input.Email)

	active, err := s.tenants.ExistsActiveByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check active tenant failed: %w", err)
	}
	if active {
		return nil, ErrTenantConflict
	}

	count, err := s.tenants.CountByStatuses(ctx, domain.ActiveStatuses)
	if err != nil {
		return nil, fmt.Errorf("count active tenants failed: %w", err)
	}
	if count >= int64(s.demoConfig.MaxConcurrentTenants) {
		return nil, ErrCapacityExceeded
	}

	release, err := s.locker.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire allocation lock failed: %w", err)
	}
	defer release()

	created, err := s.allocateAndInsert(ctx, input, email)
	if errors.Is(err, domain.ErrDuplicateEntry) {
		// Unique key caught a racing allocation; one re-scan is enough at
		// the request rates this control plane is sized for.
		created, err = s.allocateAndInsert(ctx, input, email)
	}
	if err != nil {
		return nil, err
	}

	if err := s.enqueuer.EnqueueProvision(ctx, created.Tenant.ID); err != nil {
		return nil, fmt.Errorf("enqueue provisioning failed: %w", err)
	}

	logger.Info("tenant created",
		zap.String("tenant_id", created.Tenant.ID.String()),
		zap.String("subdomain", created.Tenant.Subdomain),
		zap.Int("port", created.Tenant.ResourcePort),
	)

	return created, nil
}

func (s *lifecycleService) allocateAndInsert(ctx context.Context, input CreateTenantInput, email string) (*CreatedTenant, error) {
	subdomain, err := s.allocateSubdomain(ctx, input)
	if err != nil {
		return nil, err
	}

	port, err := s.allocatePort(ctx)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate tenant id failed: %w", err)
	}

	password, err := secret.NewPassword(adminPasswordLength)
	if err != nil {
		return nil, fmt.Errorf("generate admin password failed: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash admin password failed: %w", err)
	}

	accessToken, err := secret.NewToken()
	if err != nil {
		return nil, fmt.Errorf("generate access token failed: %w", err)
	}

	tenant := &domain.Tenant{
		ID:                id,
		Subdomain:         subdomain,
		Name:              input.Name,
		Email:             email,
		Company:           input.Company,
		Phone:             input.Phone,
		ResourcePort:      port,
		ResourceDBName:    databaseName(subdomain, id),
		AdminEmail:        email,
		AdminPasswordHash: passwordHash,
		AccessToken:       accessToken,
		Status:            domain.TenantPending,
		ExpiresAt:         time.Now().Add(time.Duration(s.demoConfig.DurationHours) * time.Hour),
	}

	if err := s.tenants.Create(ctx, tenant); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, domain.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("insert tenant failed: %w", err)
	}

	return &CreatedTenant{Tenant: tenant, AdminPassword: password}, nil
}

var subdomainStrip = regexp.MustCompile(`[^a-z0-9-]+`)

// sanitizeSubdomain reduces a requested name to [a-z0-9-], falling back to
// "demo" when nothing usable is left.
func sanitizeSubdomain(preferred string) string {
	s := strings.ToLower(strings.TrimSpace(preferred))
	s = strings.ReplaceAll(s, " ", "-")
	s = subdomainStrip.ReplaceAllString(s, "")
	s = strings.Trim(s, "-")

	if len(s) > maxSubdomainLength {
		s = strings.Trim(s[:maxSubdomainLength], "-")
	}
	if s == "" {
		return fallbackSubdomain
	}

	return s
}

func (s *lifecycleService) allocateSubdomain(ctx context.Context, input CreateTenantInput) (string, error) {
	preferred := input.Name
	if input.PreferredSubdomain != nil && *input.PreferredSubdomain != "" {
		preferred = *input.PreferredSubdomain
	}
	base := sanitizeSubdomain(preferred)

	candidate := base
	for suffix := 1; ; suffix++ {
		taken, err := s.tenants.SubdomainTaken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check subdomain failed: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}

func (s *lifecycleService) allocatePort(ctx context.Context) (int, error) {
	used, err := s.tenants.UsedPorts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list used ports failed: %w", err)
	}

	inUse := make(map[int]struct{}, len(used))
	for _, p := range used {
		inUse[p] = struct{}{}
	}

	for port := s.demoConfig.PortRangeStart; port <= s.demoConfig.PortRangeEnd; port++ {
		if _, ok := inUse[port]; !ok {
			return port, nil
		}
	}

	return 0, ErrNoFreePort
}

// databaseName derives the per-tenant logical database name. The id fragment
// keeps it unique even when a terminal tenant reused the subdomain; the
// character set stays within what the orchestrator's validator accepts.
func databaseName(subdomain string, id uuid.UUID) string {
	slug := strings.ReplaceAll(subdomain, "-", "_")
	frag := strings.ReplaceAll(id.String(), "-", "")[:8]
	return fmt.Sprintf("demo_%s_%s", slug, frag)
}

// ExtendTenant pushes the deadline forward, clamped to the configured
// maximum, and re-arms the tenant for a fresh expiration warning.
func (s *lifecycleService) ExtendTenant(ctx context.Context, id uuid.UUID, hours int) (*domain.Tenant, error) {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("get tenant failed: %w", err)
	}

	if hours > s.demoConfig.MaxDurationHours {
		hours = s.demoConfig.MaxDurationHours
	}
	if hours < 1 {
		hours = 1
	}

	tenant.ExpiresAt = tenant.ExpiresAt.Add(time.Duration(hours) * time.Hour)
	tenant.Status = domain.TenantRunning
	tenant.ExpirationWarned = false

	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, fmt.Errorf("update tenant failed: %w", err)
	}

	logger.Info("tenant extended",
		zap.String("tenant_id", tenant.ID.String()),
		zap.Int("hours", hours),
		zap.Time("expires_at", tenant.ExpiresAt),
	)

	return tenant, nil
}

// TerminateTenant tears the environment down and marks the row TERMINATED.
// Safe to call on any state, including repeat calls on a terminated tenant.
func (s *lifecycleService) TerminateTenant(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrTenantNotFound
		}
		return fmt.Errorf("get tenant failed: %w", err)
	}

	if tenant.Status == domain.TenantTerminated {
		return nil
	}

	if err := s.teardowner.Teardown(ctx, tenant); err != nil {
		return fmt.Errorf("teardown tenant failed: %w", err)
	}

	if err := s.tenants.UpdateStatus(ctx, id, domain.TenantTerminated, nil); err != nil {
		return fmt.Errorf("mark tenant terminated failed: %w", err)
	}

	logger.Info("tenant terminated", zap.String("tenant_id", id.String()))

	return nil
}

func (s *lifecycleService) RequestUpgrade(ctx context.Context, accessToken string, notes *string) error {
	tenant, err := s.GetByAccessToken(ctx, accessToken)
	if err != nil {
		return err
	}

	now := time.Now()
	tenant.UpgradeRequested = true
	tenant.UpgradeRequestedAt = &now
	tenant.UpgradeNotes = notes

	if err := s.tenants.Update(ctx, tenant); err != nil {
		return fmt.Errorf("update tenant failed: %w", err)
	}

	logger.Info("upgrade requested",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("email", tenant.Email),
	)

	return nil
}

func (s *lifecycleService) ListTenants(ctx context.Context, filters *repository.TenantFilters) ([]*domain.Tenant, error) {
	return s.tenants.List(ctx, filters)
}

func (s *lifecycleService) GetTenantDetail(ctx context.Context, id uuid.UUID) (*TenantDetail, error) {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("get tenant failed: %w", err)
	}

	contentCount, err := s.store.Count(ctx, tenantscope.ForTenant(tenant.ID), nil)
	if err != nil {
		return nil, fmt.Errorf("count tenant content failed: %w", err)
	}

	return &TenantDetail{Tenant: tenant, ContentCount: contentCount}, nil
}

func (s *lifecycleService) GetAnalyticsSummary(ctx context.Context) (*AnalyticsSummary, error) {
	counts, err := s.tenants.StatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("status counts failed: %w", err)
	}

	histogram, err := s.activity.FeatureUsageHistogram(ctx)
	if err != nil {
		return nil, fmt.Errorf("feature histogram failed: %w", err)
	}

	total, upgrades, err := s.tenants.UpgradeCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("upgrade counts failed: %w", err)
	}

	summary := &AnalyticsSummary{
		TenantsByStatus: counts,
		FeatureUsage:    histogram,
		TotalTenants:    total,
		UpgradeRequests: upgrades,
	}
	if total > 0 {
		summary.ConversionRate = float64(upgrades) / float64(total)
	}

	return summary, nil
}

func (s *lifecycleService) GetByAccessToken(ctx context.Context, accessToken string) (*domain.Tenant, error) {
	tenant, err := s.tenants.GetByAccessToken(ctx, accessToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("get tenant by access token failed: %w", err)
	}

	return tenant, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nodepress/demo-control-plane/internal/domain"
)

type activityRepository struct {
	db *sqlx.DB
}

func newActivityRepository(db *sqlx.DB) *activityRepository {
	return &activityRepository{
		db: db,
	}
}

func (r *activityRepository) CreateSession(ctx context.Context, s *domain.TenantSession) error {
	const op = "repository.activity.CreateSession"

	const query = `
    INSERT INTO tenant_session (id, tenant_id, user_agent, ip)
    VALUES (uuid_to_bin(:id), uuid_to_bin(:tenant_id), :user_agent, :ip)
    `

	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("%s: insert session failed: %w", op, err)
	}

	return nil
}

func (r *activityRepository) CreateFeatureUsage(ctx context.Context, ev *domain.FeatureUsageEvent) error {
	const op = "repository.activity.CreateFeatureUsage"

	const query = `
    INSERT INTO tenant_feature_usage (id, tenant_id, feature, action, metadata)
    VALUES (uuid_to_bin(:id), uuid_to_bin(:tenant_id), :feature, :action, :metadata)
    `

	if _, err := r.db.NamedExecContext(ctx, query, ev); err != nil {
		return fmt.Errorf("%s: insert feature usage failed: %w", op, err)
	}

	return nil
}

func (r *activityRepository) CreateAccessLog(ctx context.Context, l *domain.AccessLog) error {
	const op = "repository.activity.CreateAccessLog"

	const query = `
    INSERT INTO tenant_access_log (id, tenant_id, method, path, status)
    VALUES (uuid_to_bin(:id), uuid_to_bin(:tenant_id), :method, :path, :status)
    `

	if _, err := r.db.NamedExecContext(ctx, query, l); err != nil {
		return fmt.Errorf("%s: insert access log failed: %w", op, err)
	}

	return nil
}

func (r *activityRepository) CreateLoginAttempt(ctx context.Context, a *domain.LoginAttempt) error {
	const op = "repository.activity.CreateLoginAttempt"

	const query = `
    INSERT INTO tenant_login_attempt (id, tenant_id, email, success, ip)
    VALUES (uuid_to_bin(:id), uuid_to_bin(:tenant_id), :email, :success, :ip)
    `

	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("%s: insert login attempt failed: %w", op, err)
	}

	return nil
}

func (r *activityRepository) FeatureUsageHistogram(ctx context.Context) (map[string]int64, error) {
	const op = "repository.activity.FeatureUsageHistogram"

	const query = `SELECT feature, COUNT(*) as total FROM tenant_feature_usage GROUP BY feature`

	rows := []struct {
		Feature string `db:"feature"`
		Total   int64  `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%s: select feature histogram failed: %w", op, err)
	}

	histogram := make(map[string]int64, len(rows))
	for _, row := range rows {
		histogram[row.Feature] = row.Total
	}

	return histogram, nil
}

// DeleteByTenant removes every activity row of one tenant. Part of teardown,
// so absence of rows is not an error.
func (r *activityRepository) DeleteByTenant(ctx context.Context, tenantID uuid.UUID) error {
	const op = "repository.activity.DeleteByTenant"

	for _, table := range []string{
		"tenant_session",
		"tenant_access_log",
		"tenant_feature_usage",
		"tenant_login_attempt",
	} {
		query := fmt.Sprintf("DELETE FROM %s WHERE tenant_id = uuid_to_bin(?)", table)
		if _, err := r.db.ExecContext(ctx, query, tenantID); err != nil {
			return fmt.Errorf("%s: delete from %s failed: %w", op, table, err)
		}
	}

	return nil
}

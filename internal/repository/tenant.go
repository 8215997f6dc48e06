package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nodepress/demo-control-plane/internal/db"
	"github.com/nodepress/demo-control-plane/internal/domain"
)

type tenantRepository struct {
	db *sqlx.DB
}

func newTenantRepository(db *sqlx.DB) *tenantRepository {
	return &tenantRepository{
		db: db,
	}
}

const tenantColumns = `
    bin_to_uuid(id) as id, subdomain, name, email, company, phone,
    resource_port, resource_db_name, admin_email, admin_password_hash,
    access_token, status, expires_at, created_at, started_at,
    last_accessed_at, request_count, upgrade_requested, upgrade_requested_at,
    upgrade_notes, expiration_warned, failure_reason`

func (r *tenantRepository) Create(ctx context.Context, t *domain.Tenant) error {
	const op = "repository.tenant.Create"

	const query = `
    INSERT INTO tenant_instance
        (id, subdomain, name, email, company, phone, resource_port, resource_db_name,
         admin_email, admin_password_hash, access_token, status, expires_at)
    VALUES
        (uuid_to_bin(:id), :subdomain, :name, :email, :company, :phone, :resource_port, :resource_db_name,
         :admin_email, :admin_password_hash, :access_token, :status, :expires_at)
    `

	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		if db.IsDuplicate(err) {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("%s: insert tenant failed: %w", op, err)
	}

	return nil
}

func (r *tenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	const op = "repository.tenant.GetByID"

	query := `SELECT` + tenantColumns + `
    FROM tenant_instance
    WHERE id = uuid_to_bin(?)
    `

	var t domain.Tenant
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select tenant failed: %w", op, err)
	}

	return &t, nil
}

func (r *tenantRepository) GetByAccessToken(ctx context.Context, token string) (*domain.Tenant, error) {
	const op = "repository.tenant.GetByAccessToken"

	query := `SELECT` + tenantColumns + `
    FROM tenant_instance
    WHERE access_token = ?
    `

	var t domain.Tenant
	if err := r.db.GetContext(ctx, &t, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select tenant by access token failed: %w", op, err)
	}

	return &t, nil
}

func (r *tenantRepository) Update(ctx context.Context, t *domain.Tenant) error {
	const op = "repository.tenant.Update"

	const query = `
    UPDATE tenant_instance
    SET status = :status,
        expires_at = :expires_at,
        started_at = :started_at,
        access_token = :access_token,
        upgrade_requested = :upgrade_requested,
        upgrade_requested_at = :upgrade_requested_at,
        upgrade_notes = :upgrade_notes,
        expiration_warned = :expiration_warned,
        failure_reason = :failure_reason
    WHERE id = uuid_to_bin(:id)
    `

	res, err := r.db.NamedExecContext(ctx, query, t)
	if err != nil {
		return fmt.Errorf("%s: update tenant failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}

func (r *tenantRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TenantStatus, failureReason *string) error {
	const op = "repository.tenant.UpdateStatus"

	const query = `
    UPDATE tenant_instance
    SET status = ?,
        failure_reason = COALESCE(?, failure_reason),
        started_at = CASE WHEN ? = 'RUNNING' AND started_at IS NULL THEN NOW() ELSE started_at END
    WHERE id = uuid_to_bin(?)
    `

	res, err := r.db.ExecContext(ctx, query, status, failureReason, status, id)
	if err != nil {
		return fmt.Errorf("%s: update tenant status failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows == 0 {
		return domain.ErrNoRowsAffected
	}

	return nil
}

func (r *tenantRepository) List(ctx context.Context, filters *TenantFilters) ([]*domain.Tenant, error) {
	const op = "repository.tenant.List"

	query := `SELECT` + tenantColumns + ` FROM tenant_instance WHERE 1=1`
	args := make([]interface{}, 0, 4)

	if filters != nil {
		if filters.Status != nil {
			query += " AND status = ?"
			args = append(args, *filters.Status)
		}
		if filters.Email != nil {
			query += " AND email = ?"
			args = append(args, *filters.Email)
		}
	}

	query += " ORDER BY created_at DESC"

	if filters != nil && filters.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filters.Limit, filters.Offset)
	}

	var tenants []*domain.Tenant
	if err := r.db.SelectContext(ctx, &tenants, query, args...); err != nil {
		return nil, fmt.Errorf("%s: select tenants failed: %w", op, err)
	}

	return tenants, nil
}

func (r *tenantRepository) CountByStatuses(ctx context.Context, statuses []domain.TenantStatus) (int64, error) {
	const op = "repository.tenant.CountByStatuses"

	query, args, err := sqlx.In(`SELECT COUNT(*) FROM tenant_instance WHERE status IN (?)`, statuses)
	if err != nil {
		return 0, fmt.Errorf("%s: build query failed: %w", op, err)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("%s: count tenants failed: %w", op, err)
	}

	return count, nil
}

func (r *tenantRepository) ExistsActiveByEmail(ctx context.Context, email string) (bool, error) {
	const op = "repository.tenant.ExistsActiveByEmail"

	query, args, err := sqlx.In(
		`SELECT COUNT(*) FROM tenant_instance WHERE email = ? AND status IN (?)`,
		email, domain.ActiveStatuses,
	)
	if err != nil {
		return false, fmt.Errorf("%s: build query failed: %w", op, err)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return false, fmt.Errorf("%s: count active tenants failed: %w", op, err)
	}

	return count > 0, nil
}

func (r *tenantRepository) SubdomainTaken(ctx context.Context, subdomain string) (bool, error) {
	const op = "repository.tenant.SubdomainTaken"

	query, args, err := sqlx.In(
		`SELECT COUNT(*) FROM tenant_instance WHERE subdomain = ? AND status IN (?)`,
		subdomain, domain.NonTerminalStatuses,
	)
	if err != nil {
		return false, fmt.Errorf("%s: build query failed: %w", op, err)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return false, fmt.Errorf("%s: count subdomains failed: %w", op, err)
	}

	return count > 0, nil
}

func (r *tenantRepository) UsedPorts(ctx context.Context) ([]int, error) {
	const op = "repository.tenant.UsedPorts"

	query, args, err := sqlx.In(
		`SELECT resource_port FROM tenant_instance WHERE status IN (?)`,
		domain.NonTerminalStatuses,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: build query failed: %w", op, err)
	}

	var ports []int
	if err := r.db.SelectContext(ctx, &ports, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("%s: select used ports failed: %w", op, err)
	}

	return ports, nil
}

func (r *tenantRepository) ListExpired(ctx context.Context, now time.Time) ([]*domain.Tenant, error) {
	const op = "repository.tenant.ListExpired"

	query := `SELECT` + tenantColumns + `
    FROM tenant_instance
    WHERE status = ? AND expires_at < ?
    `

	var tenants []*domain.Tenant
	if err := r.db.SelectContext(ctx, &tenants, query, domain.TenantRunning, now); err != nil {
		return nil, fmt.Errorf("%s: select expired tenants failed: %w", op, err)
	}

	return tenants, nil
}

func (r *tenantRepository) ListWarnable(ctx context.Context, from, to time.Time) ([]*domain.Tenant, error) {
	const op = "repository.tenant.ListWarnable"

	query := `SELECT` + tenantColumns + `
    FROM tenant_instance
    WHERE status = ? AND expiration_warned = FALSE AND expires_at BETWEEN ? AND ?
    `

	var tenants []*domain.Tenant
	if err := r.db.SelectContext(ctx, &tenants, query, domain.TenantRunning, from, to); err != nil {
		return nil, fmt.Errorf("%s: select warnable tenants failed: %w", op, err)
	}

	return tenants, nil
}

func (r *tenantRepository) MarkWarned(ctx context.Context, id uuid.UUID) error {
	const op = "repository.tenant.MarkWarned"

	const query = `UPDATE tenant_instance SET expiration_warned = TRUE WHERE id = uuid_to_bin(?)`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: mark tenant warned failed: %w", op, err)
	}

	return nil
}

func (r *tenantRepository) TouchAccess(ctx context.Context, id uuid.UUID, now time.Time) error {
	const op = "repository.tenant.TouchAccess"

	const query = `
    UPDATE tenant_instance
    SET last_accessed_at = ?, request_count = request_count + 1
    WHERE id = uuid_to_bin(?)
    `

	if _, err := r.db.ExecContext(ctx, query, now, id); err != nil {
		return fmt.Errorf("%s: touch tenant access failed: %w", op, err)
	}

	return nil
}

func (r *tenantRepository) StatusCounts(ctx context.Context) (map[domain.TenantStatus]int64, error) {
	const op = "repository.tenant.StatusCounts"

	const query = `SELECT status, COUNT(*) as total FROM tenant_instance GROUP BY status`

	rows := []struct {
		Status domain.TenantStatus `db:"status"`
		Total  int64               `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%s: select status counts failed: %w", op, err)
	}

	counts := make(map[domain.TenantStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}

	return counts, nil
}

func (r *tenantRepository) UpgradeCounts(ctx context.Context) (int64, int64, error) {
	const op = "repository.tenant.UpgradeCounts"

	const query = `
    SELECT COUNT(*) as total, COALESCE(SUM(upgrade_requested), 0) as upgraded
    FROM tenant_instance
    `

	var row struct {
		Total    int64 `db:"total"`
		Upgraded int64 `db:"upgraded"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return 0, 0, fmt.Errorf("%s: select upgrade counts failed: %w", op, err)
	}

	return row.Total, row.Upgraded, nil
}

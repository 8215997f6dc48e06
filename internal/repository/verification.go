package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nodepress/demo-control-plane/internal/domain"
)

type verificationRepository struct {
	db *sqlx.DB
}

func newVerificationRepository(db *sqlx.DB) *verificationRepository {
	return &verificationRepository{
		db: db,
	}
}

const verificationColumns = `
    bin_to_uuid(id) as id, email, name, company, phone, preferred_subdomain,
    token, token_expires_at, status, attempt_count, email_sent_count,
    last_email_sent_at, bin_to_uuid(linked_tenant_id) as linked_tenant_id,
    created_at, updated_at`

func (r *verificationRepository) Create(ctx context.Context, v *domain.VerificationRequest) error {
	const op = "repository.verification.Create"

	const query = `
    INSERT INTO verification_request
        (id, email, name, company, phone, preferred_subdomain, token, token_expires_at, status)
    VALUES
        (uuid_to_bin(:id), :email, :name, :company, :phone, :preferred_subdomain, :token, :token_expires_at, :status)
    `

	res, err := r.db.NamedExecContext(ctx, query, v)
	if err != nil {
		return fmt.Errorf("%s: insert verification request failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows != 1 {
		return fmt.Errorf("%s: expected 1 row affected, got %d", op, rows)
	}

	return nil
}

func (r *verificationRepository) GetByToken(ctx context.Context, token string) (*domain.VerificationRequest, error) {
	const op = "repository.verification.GetByToken"

	query := `SELECT` + verificationColumns + `
    FROM verification_request
    WHERE token = ?
    `

	var v domain.VerificationRequest
	if err := r.db.GetContext(ctx, &v, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select verification request failed: %w", op, err)
	}

	return &v, nil
}

func (r *verificationRepository) GetPendingByEmail(ctx context.Context, email string) (*domain.VerificationRequest, error) {
	const op = "repository.verification.GetPendingByEmail"

	query := `SELECT` + verificationColumns + `
    FROM verification_request
    WHERE email = ? AND status = ?
    ORDER BY created_at DESC
    LIMIT 1
    `

	var v domain.VerificationRequest
	if err := r.db.GetContext(ctx, &v, query, email, domain.VerificationPending); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select pending verification failed: %w", op, err)
	}

	return &v, nil
}

func (r *verificationRepository) Update(ctx context.Context, v *domain.VerificationRequest) error {
	const op = "repository.verification.Update"

	const query = `
    UPDATE verification_request
    SET status = :status,
        attempt_count = :attempt_count,
        email_sent_count = :email_sent_count,
        last_email_sent_at = :last_email_sent_at,
        linked_tenant_id = uuid_to_bin(:linked_tenant_id),
        updated_at = NOW()
    WHERE id = uuid_to_bin(:id)
    `

	res, err := r.db.NamedExecContext(ctx, query, v)
	if err != nil {
		return fmt.Errorf("%s: update verification request failed: %w", op, err)
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

// ExpireStale flips PENDING rows whose token TTL elapsed to EXPIRED. Acting
// only on rows still PENDING keeps concurrent sweep passes harmless.
func (r *verificationRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	const op = "repository.verification.ExpireStale"

	const query = `
    UPDATE verification_request
    SET status = ?, updated_at = NOW()
    WHERE status = ? AND token_expires_at < ?
    `

	res, err := r.db.ExecContext(ctx, query, domain.VerificationExpired, domain.VerificationPending, now)
	if err != nil {
		return 0, fmt.Errorf("%s: expire stale verifications failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	return rows, nil
}

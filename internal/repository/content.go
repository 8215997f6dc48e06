package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nodepress/demo-control-plane/internal/domain"
)

type contentRepository struct {
	db *sqlx.DB
}

func newContentRepository(db *sqlx.DB) *contentRepository {
	return &contentRepository{
		db: db,
	}
}

const contentColumns = `
    bin_to_uuid(id) as id, bin_to_uuid(tenant_id) as tenant_id, kind, title,
    slug, body, published, created_at, updated_at`

func (r *contentRepository) Create(ctx context.Context, item *domain.ContentItem) error {
	const op = "repository.content.Create"

	const query = `
    INSERT INTO content_item (id, tenant_id, kind, title, slug, body, published)
    VALUES (uuid_to_bin(:id), uuid_to_bin(:tenant_id), :kind, :title, :slug, :body, :published)
    `

	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("%s: insert content item failed: %w", op, err)
	}

	return nil
}

func (r *contentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	const op = "repository.content.GetByID"

	query := `SELECT` + contentColumns + `
    FROM content_item
    WHERE id = uuid_to_bin(?)
    `

	var item domain.ContentItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: select content item failed: %w", op, err)
	}

	return &item, nil
}

func tenantPredicate(tenant *uuid.UUID, args *[]interface{}) string {
	if tenant == nil {
		return " AND tenant_id IS NULL"
	}
	*args = append(*args, *tenant)
	return " AND tenant_id = uuid_to_bin(?)"
}

func contentFilterClause(filters *ContentFilters, args *[]interface{}) string {
	clause := tenantPredicate(filters.Tenant, args)
	if filters.Kind != nil {
		clause += " AND kind = ?"
		*args = append(*args, *filters.Kind)
	}
	if filters.Published != nil {
		clause += " AND published = ?"
		*args = append(*args, *filters.Published)
	}
	return clause
}

func (r *contentRepository) List(ctx context.Context, filters *ContentFilters) ([]*domain.ContentItem, error) {
	const op = "repository.content.List"

	args := make([]interface{}, 0, 4)
	query := `SELECT` + contentColumns + ` FROM content_item WHERE 1=1`
	query += contentFilterClause(filters, &args)
	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filters.Limit, filters.Offset)
	}

	var items []*domain.ContentItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("%s: select content items failed: %w", op, err)
	}

	return items, nil
}

func (r *contentRepository) Count(ctx context.Context, filters *ContentFilters) (int64, error) {
	const op = "repository.content.Count"

	args := make([]interface{}, 0, 4)
	query := `SELECT COUNT(*) FROM content_item WHERE 1=1`
	query += contentFilterClause(filters, &args)

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("%s: count content items failed: %w", op, err)
	}

	return count, nil
}

func (r *contentRepository) UpdateScoped(ctx context.Context, item *domain.ContentItem, tenant *uuid.UUID) error {
	const op = "repository.content.UpdateScoped"

	args := []interface{}{item.Title, item.Slug, item.Body, item.Published, item.ID}
	query := `
    UPDATE content_item
    SET title = ?, slug = ?, body = ?, published = ?, updated_at = NOW()
    WHERE id = uuid_to_bin(?)`
	query += tenantPredicate(tenant, &args)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: update content item failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *contentRepository) DeleteScoped(ctx context.Context, id uuid.UUID, tenant *uuid.UUID) error {
	const op = "repository.content.DeleteScoped"

	args := []interface{}{id}
	query := `DELETE FROM content_item WHERE id = uuid_to_bin(?)`
	query += tenantPredicate(tenant, &args)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: delete content item failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// DeleteByTenant removes every content row of one tenant by exact tenant id.
// This is the only write path allowed to cross scopes, and only downwards:
// it is invoked by teardown, never by request handling.
func (r *contentRepository) DeleteByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	const op = "repository.content.DeleteByTenant"

	const query = `DELETE FROM content_item WHERE tenant_id = uuid_to_bin(?)`

	res, err := r.db.ExecContext(ctx, query, tenantID)
	if err != nil {
		return 0, fmt.Errorf("%s: delete tenant content failed: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: get rows affected failed: %w", op, err)
	}

	return rows, nil
}

package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodepress/demo-control-plane/internal/domain"
)

func TestContentList_ProductionFilterPinsNullTenant(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newContentRepository(db)

	mock.ExpectQuery(`FROM content_item WHERE 1=1 AND tenant_id IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "kind", "title", "slug", "body", "published"}))

	_, err := repo.List(context.Background(), &ContentFilters{})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentList_TenantFilterPinsTenantID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newContentRepository(db)

	tenantID := uuid.New()
	mock.ExpectQuery(`FROM content_item WHERE 1=1 AND tenant_id = uuid_to_bin`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "kind", "title", "slug", "body", "published"}).
			AddRow(uuid.NewString(), tenantID.String(), "post", "Hello", "hello", "body", true))

	items, err := repo.List(context.Background(), &ContentFilters{Tenant: &tenantID})

	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].TenantID)
	assert.Equal(t, tenantID, *items[0].TenantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentCount_AppliesKindAndPublishedFilters(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newContentRepository(db)

	tenantID := uuid.New()
	kind := domain.ContentProduct
	published := true

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(tenantID, "product", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.Count(context.Background(), &ContentFilters{
		Tenant:    &tenantID,
		Kind:      &kind,
		Published: &published,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestContentDeleteScoped_MissingOrForeignRowIsNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newContentRepository(db)

	tenantID := uuid.New()
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM content_item WHERE id = uuid_to_bin`).
		WithArgs(id, tenantID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteScoped(context.Background(), id, &tenantID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContentDeleteByTenant_ReturnsDeletedCount(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newContentRepository(db)

	tenantID := uuid.New()
	mock.ExpectExec(`DELETE FROM content_item WHERE tenant_id = uuid_to_bin`).
		WithArgs(tenantID).
		WillReturnResult(sqlmock.NewResult(0, 7))

	deleted, err := repo.DeleteByTenant(context.Background(), tenantID)

	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
}

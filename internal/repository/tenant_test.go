package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodepress/demo-control-plane/internal/domain"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "mysql"), mock
}

func TestTenantCreate_MapsDuplicateKeyToSentinel(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newTenantRepository(db)

	mock.ExpectExec("INSERT INTO tenant_instance").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'acme' for key 'subdomain'"})

	err := repo.Create(context.Background(), &domain.Tenant{
		ID:        uuid.New(),
		Subdomain: "acme",
		Status:    domain.TenantPending,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantGetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newTenantRepository(db)

	id := uuid.New()
	mock.ExpectQuery("FROM tenant_instance").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTenantSubdomainTaken_CountsOnlyNonTerminalRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newTenantRepository(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("acme", "PENDING", "PROVISIONING", "RUNNING", "PAUSED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := repo.SubdomainTaken(context.Background(), "acme")

	require.NoError(t, err)
	assert.True(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantExistsActiveByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newTenantRepository(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("jane@acme.com", "PENDING", "PROVISIONING", "RUNNING").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	active, err := repo.ExistsActiveByEmail(context.Background(), "jane@acme.com")

	require.NoError(t, err)
	assert.False(t, active)
}

func TestTenantUpdateStatus_ReportsMissingRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newTenantRepository(db)

	id := uuid.New()
	mock.ExpectExec("UPDATE tenant_instance").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), id, domain.TenantRunning, nil)

	assert.ErrorIs(t, err, domain.ErrNoRowsAffected)
}

func TestTenantUsedPorts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newTenantRepository(db)

	mock.ExpectQuery("SELECT resource_port FROM tenant_instance").
		WillReturnRows(sqlmock.NewRows([]string{"resource_port"}).AddRow(9100).AddRow(9105))

	ports, err := repo.UsedPorts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []int{9100, 9105}, ports)
}

func TestTenantStatusCounts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newTenantRepository(db)

	mock.ExpectQuery("GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "total"}).
			AddRow("RUNNING", 4).
			AddRow("EXPIRED", 9))

	counts, err := repo.StatusCounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), counts[domain.TenantRunning])
	assert.Equal(t, int64(9), counts[domain.TenantExpired])
}

func TestTenantUpgradeCounts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newTenantRepository(db)

	mock.ExpectQuery("COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"total", "upgraded"}).AddRow(10, 3))

	total, upgraded, err := repo.UpgradeCounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
	assert.Equal(t, int64(3), upgraded)
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodepress/demo-control-plane/internal/domain"
)

func TestVerificationGetByToken_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newVerificationRepository(db)

	mock.ExpectQuery("FROM verification_request").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByToken(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerificationGetPendingByEmail_FiltersOnStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newVerificationRepository(db)

	mock.ExpectQuery("FROM verification_request").
		WithArgs("jane@acme.com", "PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"email", "token", "status"}).
			AddRow("jane@acme.com", "tok", "PENDING"))

	v, err := repo.GetPendingByEmail(context.Background(), "jane@acme.com")

	require.NoError(t, err)
	assert.Equal(t, "tok", v.Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerificationExpireStale_TargetsOnlyPendingRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := newVerificationRepository(db)

	now := time.Now()
	mock.ExpectExec("UPDATE verification_request").
		WithArgs("EXPIRED", "PENDING", now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	expired, err := repo.ExpireStale(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, int64(3), expired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

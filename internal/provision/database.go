package provision

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// AdminExecer runs database-administration statements; *sqlx.DB satisfies it.
type AdminExecer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

const adminStatementTimeout = 15 * time.Second

// DatabaseManager creates and drops the per-tenant logical databases. Names
// cannot be bound as statement parameters, so they are whitelisted by
// ValidateIdentifier before interpolation.
type DatabaseManager struct {
	admin AdminExecer
}

func NewDatabaseManager(admin AdminExecer) *DatabaseManager {
	return &DatabaseManager{
		admin: admin,
	}
}

func (m *DatabaseManager) Create(ctx context.Context, name string) error {
	if err := ValidateIdentifier(name); err != nil {
		return pkgerrors.Wrap(err, "validate database name")
	}

	ctx, cancel := context.WithTimeout(ctx, adminStatementTimeout)
	defer cancel()

	query := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4", name)
	if _, err := m.admin.ExecContext(ctx, query); err != nil {
		return pkgerrors.Wrapf(err, "create database %s", name)
	}

	return nil
}

// Drop is idempotent by IF EXISTS.
func (m *DatabaseManager) Drop(ctx context.Context, name string) error {
	if err := ValidateIdentifier(name); err != nil {
		return pkgerrors.Wrap(err, "validate database name")
	}

	ctx, cancel := context.WithTimeout(ctx, adminStatementTimeout)
	defer cancel()

	query := fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", name)
	if _, err := m.admin.ExecContext(ctx, query); err != nil {
		return pkgerrors.Wrapf(err, "drop database %s", name)
	}

	return nil
}

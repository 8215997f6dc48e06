package domain

import (
	"time"

	"github.com/google/uuid"
)

type TenantStatus string

const (
	TenantPending      TenantStatus = "PENDING"
	TenantProvisioning TenantStatus = "PROVISIONING"
	TenantRunning      TenantStatus = "RUNNING"
	TenantPaused       TenantStatus = "PAUSED"
	TenantExpired      TenantStatus = "EXPIRED"
	TenantTerminated   TenantStatus = "TERMINATED"
	TenantFailed       TenantStatus = "FAILED"
)

// ActiveStatuses are the states counted against the concurrency cap and the
// one-active-demo-per-email rule.
var ActiveStatuses = []TenantStatus{TenantPending, TenantProvisioning, TenantRunning}

// NonTerminalStatuses are the states whose subdomain and resource port are
// still considered allocated.
var NonTerminalStatuses = []TenantStatus{TenantPending, TenantProvisioning, TenantRunning, TenantPaused}

func (s TenantStatus) Terminal() bool {
	switch s {
	case TenantExpired, TenantTerminated, TenantFailed:
		return true
	}
	return false
}

// Tenant is one isolated trial environment. The lifecycle service owns the
// row exclusively; it is removed only after the orchestrator confirms
// teardown.
type Tenant struct {
	ID                 uuid.UUID    `db:"id"`
	Subdomain          string       `db:"subdomain"`
	Name               string       `db:"name"`
	Email              string       `db:"email"`
	Company            *string      `db:"company"`
	Phone              *string      `db:"phone"`
	ResourcePort       int          `db:"resource_port"`
	ResourceDBName     string       `db:"resource_db_name"`
	AdminEmail         string       `db:"admin_email"`
	AdminPasswordHash  string       `db:"admin_password_hash"`
	AccessToken        string       `db:"access_token"`
	Status             TenantStatus `db:"status"`
	ExpiresAt          time.Time    `db:"expires_at"`
	CreatedAt          time.Time    `db:"created_at"`
	StartedAt          *time.Time   `db:"started_at"`
	LastAccessedAt     *time.Time   `db:"last_accessed_at"`
	RequestCount       int64        `db:"request_count"`
	UpgradeRequested   bool         `db:"upgrade_requested"`
	UpgradeRequestedAt *time.Time   `db:"upgrade_requested_at"`
	UpgradeNotes       *string      `db:"upgrade_notes"`
	ExpirationWarned   bool         `db:"expiration_warned"`
	FailureReason      *string      `db:"failure_reason"`
}

func (t *Tenant) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

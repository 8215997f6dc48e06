package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity records are append-only children of a tenant, written by the
// request path and read by analytics. They are deleted en masse when the
// owning tenant is torn down.

type TenantSession struct {
	ID        uuid.UUID  `db:"id"`
	TenantID  uuid.UUID  `db:"tenant_id"`
	UserAgent string     `db:"user_agent"`
	IP        string     `db:"ip"`
	CreatedAt time.Time  `db:"created_at"`
	EndedAt   *time.Time `db:"ended_at"`
}

type AccessLog struct {
	ID        uuid.UUID `db:"id"`
	TenantID  uuid.UUID `db:"tenant_id"`
	Method    string    `db:"method"`
	Path      string    `db:"path"`
	Status    int       `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

type FeatureUsageEvent struct {
	ID        uuid.UUID `db:"id"`
	TenantID  uuid.UUID `db:"tenant_id"`
	Feature   string    `db:"feature"`
	Action    string    `db:"action"`
	Metadata  *string   `db:"metadata"`
	CreatedAt time.Time `db:"created_at"`
}

type LoginAttempt struct {
	ID        uuid.UUID `db:"id"`
	TenantID  uuid.UUID `db:"tenant_id"`
	Email     string    `db:"email"`
	Success   bool      `db:"success"`
	IP        string    `db:"ip"`
	CreatedAt time.Time `db:"created_at"`
}

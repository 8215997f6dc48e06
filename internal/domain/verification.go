package domain

import (
	"time"

	"github.com/google/uuid"
)

type VerificationStatus string

const (
	VerificationPending   VerificationStatus = "PENDING"
	VerificationVerified  VerificationStatus = "VERIFIED"
	VerificationCompleted VerificationStatus = "COMPLETED"
	VerificationExpired   VerificationStatus = "EXPIRED"
	VerificationBlocked   VerificationStatus = "BLOCKED"
)

// VerificationRequest is one email-verification cycle gating demo creation.
// At most one PENDING row with an unexpired token exists per email; the row
// is terminal at COMPLETED, EXPIRED or BLOCKED.
type VerificationRequest struct {
	ID                 uuid.UUID          `db:"id"`
	Email              string             `db:"email"`
	Name               string             `db:"name"`
	Company            *string            `db:"company"`
	Phone              *string            `db:"phone"`
	PreferredSubdomain *string            `db:"preferred_subdomain"`
	Token              string             `db:"token"`
	TokenExpiresAt     time.Time          `db:"token_expires_at"`
	Status             VerificationStatus `db:"status"`
	AttemptCount       int                `db:"attempt_count"`
	EmailSentCount     int                `db:"email_sent_count"`
	LastEmailSentAt    *time.Time         `db:"last_email_sent_at"`
	LinkedTenantID     *uuid.UUID         `db:"linked_tenant_id"`
	CreatedAt          time.Time          `db:"created_at"`
	UpdatedAt          *time.Time         `db:"updated_at"`
}

func (v *VerificationRequest) TokenExpired(now time.Time) bool {
	return now.After(v.TokenExpiresAt)
}

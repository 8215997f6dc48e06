package service

import "errors"

var (
	ErrInvalidEmailDomain   = errors.New("email domain is not allowed for trials")
	ErrUnreachableDomain    = errors.New("email domain has no mail exchanger")
	ErrRateLimited          = errors.New("verification email rate limit reached")
	ErrInvalidToken         = errors.New("verification token not found")
	ErrVerificationExpired  = errors.New("verification token expired")
	ErrVerificationBlocked  = errors.New("verification blocked after too many attempts")
	ErrProvisioningFailed   = errors.New("demo environment provisioning failed")
	ErrTenantConflict       = errors.New("an active demo already exists for this email")
	ErrCapacityExceeded     = errors.New("demo capacity exceeded, try again later")
	ErrTenantNotFound       = errors.New("tenant not found")
	ErrTenantNotActive      = errors.New("tenant is not active")
	ErrNoFreePort           = errors.New("no free resource port in configured range")
	ErrAllocationContention = errors.New("resource allocation contention, try again")
)

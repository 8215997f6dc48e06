package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nodepress/demo-control-plane/internal/config"
)

var ErrAccessTokenExpired = errors.New("token has invalid claims: token is expired")

// SessionClaims mark whether a token belongs to a trial tenant. Demo-tagged
// sessions never receive production-admin bypass, so the flag travels in the
// token itself.
type SessionClaims struct {
	IsTenant bool   `json:"is_tenant"`
	TenantID string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager provides logic for session token generation and parsing.
type TokenManager interface {
	NewTenantJWT(tenantID uuid.UUID) (string, time.Duration, error)
	NewAdminJWT(subject string) (string, time.Duration, error)
	Parse(accessToken string) (*SessionClaims, error)
}

type Manager struct {
	signingKey     string
	accessTokenTTL time.Duration
}

func NewManager(cfg config.JWTConfig) (*Manager, error) {
	if cfg.SigningKey == "" {
		return nil, errors.New("empty signing key")
	}

	if cfg.AccessTokenTTL == 0 {
		return nil, errors.New("empty access token ttl")
	}

	return &Manager{
		signingKey:     cfg.SigningKey,
		accessTokenTTL: cfg.AccessTokenTTL,
	}, nil
}

func (m *Manager) NewTenantJWT(tenantID uuid.UUID) (string, time.Duration, error) {
	claims := SessionClaims{
		IsTenant: true,
		TenantID: tenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.accessTokenTTL)),
			Subject:   tenantID.String(),
		},
	}

	return m.sign(claims)
}

func (m *Manager) NewAdminJWT(subject string) (string, time.Duration, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.accessTokenTTL)),
			Subject:   subject,
		},
	}

	return m.sign(claims)
}

func (m *Manager) sign(claims SessionClaims) (string, time.Duration, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	accessToken, err := token.SignedString([]byte(m.signingKey))
	if err != nil {
		return "", 0, errors.New("sign jwt failed")
	}

	return accessToken, m.accessTokenTTL, nil
}

func (m *Manager) Parse(accessToken string) (*SessionClaims, error) {
	var claims SessionClaims
	_, err := jwt.ParseWithClaims(accessToken, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(m.signingKey), nil
	})
	if err != nil {
		return nil, err
	}

	return &claims, nil
}

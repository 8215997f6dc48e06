package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodepress/demo-control-plane/internal/config"
)

func testManager(t *testing.T) *Manager {
	m, err := NewManager(config.JWTConfig{
		SigningKey:     "test-signing-key",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)
	return m
}

func TestNewManager_RequiresKeyAndTTL(t *testing.T) {
	_, err := NewManager(config.JWTConfig{AccessTokenTTL: time.Hour})
	assert.Error(t, err)

	_, err = NewManager(config.JWTConfig{SigningKey: "key"})
	assert.Error(t, err)
}

func TestTenantJWT_CarriesTenantMarker(t *testing.T) {
	m := testManager(t)
	tenantID := uuid.New()

	token, ttl, err := m.NewTenantJWT(tenantID)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)

	claims, err := m.Parse(token)
	require.NoError(t, err)

	assert.True(t, claims.IsTenant)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, tenantID.String(), claims.Subject)
}

func TestAdminJWT_HasNoTenantMarker(t *testing.T) {
	m := testManager(t)

	token, _, err := m.NewAdminJWT("ops@nodepress.app")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)

	assert.False(t, claims.IsTenant)
	assert.Empty(t, claims.TenantID)
	assert.Equal(t, "ops@nodepress.app", claims.Subject)
}

func TestParse_RejectsForeignSignature(t *testing.T) {
	m := testManager(t)
	other, err := NewManager(config.JWTConfig{SigningKey: "another-key", AccessTokenTTL: time.Hour})
	require.NoError(t, err)

	token, _, err := other.NewTenantJWT(uuid.New())
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

package provision

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodepress/demo-control-plane/internal/domain"
)

func artifactTenant() *domain.Tenant {
	return &domain.Tenant{
		ID:             uuid.New(),
		Subdomain:      "acme",
		ResourcePort:   9105,
		ResourceDBName: "demo_acme_0189f7a0",
		ExpiresAt:      time.Now().Add(24 * time.Hour),
	}
}

func TestWriteEnvFile_DisablesOutboundIntegrations(t *testing.T) {
	base := t.TempDir()
	writer := NewArtifactWriter(base, "demo.example.com")
	tenant := artifactTenant()

	envPath, err := writer.WriteEnvFile(tenant)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "acme", "instance.env"), envPath)

	content, err := os.ReadFile(envPath)
	require.NoError(t, err)

	env := string(content)
	assert.Contains(t, env, "DEMO_MODE=true\n")
	assert.Contains(t, env, "PORT=9105\n")
	assert.Contains(t, env, "DB_NAME=demo_acme_0189f7a0\n")
	assert.Contains(t, env, "PUBLIC_URL=https://acme.demo.example.com\n")
	assert.Contains(t, env, "SMTP_ENABLED=false\n")
	assert.Contains(t, env, "PAYMENTS_ENABLED=false\n")
	assert.Contains(t, env, "WEBHOOKS_ENABLED=false\n")
	assert.Contains(t, env, "APP_SECRET=")
}

func TestWriteEnvFile_SecretsDifferPerTenant(t *testing.T) {
	writer := NewArtifactWriter(t.TempDir(), "demo.example.com")

	first := artifactTenant()
	second := artifactTenant()
	second.Subdomain = "other"

	firstPath, err := writer.WriteEnvFile(first)
	require.NoError(t, err)
	secondPath, err := writer.WriteEnvFile(second)
	require.NoError(t, err)

	a, _ := os.ReadFile(firstPath)
	b, _ := os.ReadFile(secondPath)
	assert.NotEqual(t, string(a), string(b))
}

func TestWriteProxyRoute(t *testing.T) {
	base := t.TempDir()
	writer := NewArtifactWriter(base, "demo.example.com")
	tenant := artifactTenant()

	_, err := writer.WriteEnvFile(tenant)
	require.NoError(t, err)
	require.NoError(t, writer.WriteProxyRoute(tenant))

	conf, err := os.ReadFile(filepath.Join(base, "acme", "proxy.conf"))
	require.NoError(t, err)
	assert.Contains(t, string(conf), "server_name acme.demo.example.com;")
	assert.Contains(t, string(conf), "proxy_pass http://127.0.0.1:9105;")
}

func TestRemove_IsRepeatable(t *testing.T) {
	base := t.TempDir()
	writer := NewArtifactWriter(base, "demo.example.com")
	tenant := artifactTenant()

	_, err := writer.WriteEnvFile(tenant)
	require.NoError(t, err)

	require.NoError(t, writer.Remove(tenant))
	_, err = os.Stat(filepath.Join(base, "acme"))
	assert.True(t, os.IsNotExist(err))

	// Second call on the already-removed directory.
	require.NoError(t, writer.Remove(tenant))
}

func TestArtifactWriter_RejectsEscapingSubdomain(t *testing.T) {
	writer := NewArtifactWriter(t.TempDir(), "demo.example.com")
	tenant := artifactTenant()
	tenant.Subdomain = "../outside"

	_, err := writer.WriteEnvFile(tenant)
	assert.Error(t, err)

	assert.Error(t, writer.WriteProxyRoute(tenant))
	assert.Error(t, writer.Remove(tenant))
}

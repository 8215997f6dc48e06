package provision

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/pkg/secret"
)

// ArtifactWriter manages the per-tenant files on disk: the environment file
// the runtime boots from and the reverse-proxy route. Outbound email and
// payment credentials are written disabled so a trial can never reach real
// customers or money.
type ArtifactWriter struct {
	baseDir    string
	baseDomain string
}

func NewArtifactWriter(baseDir, baseDomain string) *ArtifactWriter {
	return &ArtifactWriter{
		baseDir:    baseDir,
		baseDomain: baseDomain,
	}
}

func (w *ArtifactWriter) tenantDir(t *domain.Tenant) (string, error) {
	return ContainedPath(w.baseDir, t.Subdomain)
}

// WriteEnvFile renders the runtime environment for one tenant and returns
// the file path.
func (w *ArtifactWriter) WriteEnvFile(t *domain.Tenant) (string, error) {
	dir, err := w.tenantDir(t)
	if err != nil {
		return "", pkgerrors.Wrap(err, "resolve tenant dir")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", pkgerrors.Wrap(err, "create tenant dir")
	}

	appSecret, err := secret.NewToken()
	if err != nil {
		return "", pkgerrors.Wrap(err, "generate app secret")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "DEMO_MODE=true\n")
	fmt.Fprintf(&b, "INSTANCE_NAME=%s\n", t.Subdomain)
	fmt.Fprintf(&b, "PUBLIC_URL=https://%s.%s\n", t.Subdomain, w.baseDomain)
	fmt.Fprintf(&b, "PORT=%d\n", t.ResourcePort)
	fmt.Fprintf(&b, "DB_NAME=%s\n", t.ResourceDBName)
	fmt.Fprintf(&b, "APP_SECRET=%s\n", appSecret)
	fmt.Fprintf(&b, "TENANT_ID=%s\n", t.ID)
	fmt.Fprintf(&b, "EXPIRES_AT=%s\n", t.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"))
	// Outbound integrations stay off in trials.
	fmt.Fprintf(&b, "SMTP_ENABLED=false\n")
	fmt.Fprintf(&b, "PAYMENTS_ENABLED=false\n")
	fmt.Fprintf(&b, "WEBHOOKS_ENABLED=false\n")

	envPath := filepath.Join(dir, "instance.env")
	if err := os.WriteFile(envPath, []byte(b.String()), 0o640); err != nil {
		return "", pkgerrors.Wrap(err, "write env file")
	}

	return envPath, nil
}

// WriteProxyRoute writes the reverse-proxy server block routing the tenant's
// subdomain to its allocated port.
func (w *ArtifactWriter) WriteProxyRoute(t *domain.Tenant) error {
	dir, err := w.tenantDir(t)
	if err != nil {
		return pkgerrors.Wrap(err, "resolve tenant dir")
	}

	conf := fmt.Sprintf(`server {
    listen 443 ssl;
    server_name %s.%s;

    location / {
        proxy_pass http://127.0.0.1:%d;
        proxy_set_header Host $host;
        proxy_set_header X-Real-IP $remote_addr;
    }
}
`, t.Subdomain, w.baseDomain, t.ResourcePort)

	if err := os.WriteFile(filepath.Join(dir, "proxy.conf"), []byte(conf), 0o640); err != nil {
		return pkgerrors.Wrap(err, "write proxy route")
	}

	return nil
}

// Remove deletes the tenant's artifact directory. Absence is not an error;
// teardown must be repeatable.
func (w *ArtifactWriter) Remove(t *domain.Tenant) error {
	dir, err := w.tenantDir(t)
	if err != nil {
		return pkgerrors.Wrap(err, "resolve tenant dir")
	}

	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrap(err, "remove tenant dir")
	}

	return nil
}

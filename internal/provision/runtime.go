package provision

import (
	"context"
	"os/exec"
	"strconv"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/pkg/logger"
)

// CommandRunner executes external commands with an argument vector; no shell
// string interpolation ever. Tests substitute a fake.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func NewExecRunner() CommandRunner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Runtime starts and stops the isolated per-tenant runtime unit.
type Runtime interface {
	Start(ctx context.Context, t *domain.Tenant, envFile string) error
	Stop(ctx context.Context, t *domain.Tenant) error
}

// processRuntime drives a supervised OS process per tenant through the
// runtime control binary. A container runtime would satisfy the same
// interface.
type processRuntime struct {
	bin     string
	runner  CommandRunner
	timeout time.Duration
}

func NewProcessRuntime(bin string, runner CommandRunner, timeout time.Duration) Runtime {
	return &processRuntime{
		bin:     bin,
		runner:  runner,
		timeout: timeout,
	}
}

func (r *processRuntime) Start(ctx context.Context, t *domain.Tenant, envFile string) error {
	if err := ValidateIdentifier(t.Subdomain); err != nil {
		return pkgerrors.Wrap(err, "validate subdomain")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.runner.Run(ctx, r.bin,
		"start",
		"--instance", t.Subdomain,
		"--port", strconv.Itoa(t.ResourcePort),
		"--env-file", envFile,
	)
	if err != nil {
		return pkgerrors.Wrapf(err, "start runtime for %s: %s", t.Subdomain, string(out))
	}

	return nil
}

// Stop is idempotent: the control binary reports a nonzero exit for an
// already-stopped instance, which is swallowed here.
func (r *processRuntime) Stop(ctx context.Context, t *domain.Tenant) error {
	if err := ValidateIdentifier(t.Subdomain); err != nil {
		return pkgerrors.Wrap(err, "validate subdomain")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.runner.Run(ctx, r.bin, "stop", "--instance", t.Subdomain)
	if err != nil {
		var exitErr *exec.ExitError
		if pkgerrors.As(err, &exitErr) {
			logger.Debug("runtime stop reported non-running instance",
				zap.String("subdomain", t.Subdomain),
				zap.String("output", string(out)),
			)
			return nil
		}
		return pkgerrors.Wrapf(err, "stop runtime for %s", t.Subdomain)
	}

	return nil
}

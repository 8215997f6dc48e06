package worker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nodepress/demo-control-plane/internal/config"
	"github.com/nodepress/demo-control-plane/internal/provision"
	"github.com/nodepress/demo-control-plane/internal/repository"
	"github.com/nodepress/demo-control-plane/internal/service"
	emailProvider "github.com/nodepress/demo-control-plane/pkg/email"
)

type Workers struct {
	EmailSender EmailSender
	Provisioner Provisioner
	Sweeper     Sweeper
}

type Deps struct {
	Repos        *repository.Repositories
	Orchestrator *provision.Orchestrator
	Enqueuer     service.Enqueuer
	EmailSender  emailProvider.Sender
	Config       *config.Config
}

type EmailSender interface {
	SendVerificationEmail(ctx context.Context, email, name, token string) error
	SendCredentialsEmail(ctx context.Context, email, subdomain, adminEmail, adminPassword string, expiresAt time.Time) error
	SendExpirationWarning(ctx context.Context, email, subdomain string, expiresAt time.Time) error
}

type Provisioner interface {
	ProvisionTenant(ctx context.Context, tenantID uuid.UUID) error
}

type Sweeper interface {
	SweepExpired(ctx context.Context) error
	SweepWarnings(ctx context.Context) error
	CleanupVerifications(ctx context.Context) error
}

func NewWorkers(deps Deps) *Workers {
	return &Workers{
		EmailSender: newEmailSender(deps.EmailSender, deps.Config.Email, deps.Config.Demo),
		Provisioner: newProvisioner(deps.Repos.Tenants, deps.Orchestrator),
		Sweeper:     newSweeper(deps.Repos.Tenants, deps.Repos.Verifications, deps.Orchestrator, deps.Enqueuer),
	}
}

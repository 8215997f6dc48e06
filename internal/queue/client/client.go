package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/nodepress/demo-control-plane/internal/queue/task"
)

// Dispatcher enqueues background tasks; it is the service layer's Enqueuer.
type Dispatcher struct {
	client *asynq.Client
}

func NewDispatcher(client *asynq.Client) *Dispatcher {
	return &Dispatcher{
		client: client,
	}
}

func (d *Dispatcher) EnqueueVerificationEmail(ctx context.Context, email, name, token string) error {
	t, err := task.NewSendVerificationEmailTask(email, name, token)
	if err != nil {
		return fmt.Errorf("build verification email task failed: %w", err)
	}

	return d.enqueue(ctx, t)
}

func (d *Dispatcher) EnqueueCredentialsEmail(ctx context.Context, email, subdomain, adminEmail, adminPassword string, expiresAt time.Time) error {
	t, err := task.NewSendCredentialsEmailTask(email, subdomain, adminEmail, adminPassword, expiresAt)
	if err != nil {
		return fmt.Errorf("build credentials email task failed: %w", err)
	}

	return d.enqueue(ctx, t)
}

func (d *Dispatcher) EnqueueExpirationWarning(ctx context.Context, email, subdomain string, expiresAt time.Time) error {
	t, err := task.NewSendExpirationWarningTask(email, subdomain, expiresAt)
	if err != nil {
		return fmt.Errorf("build expiration warning task failed: %w", err)
	}

	return d.enqueue(ctx, t)
}

func (d *Dispatcher) EnqueueProvision(ctx context.Context, tenantID uuid.UUID) error {
	t, err := task.NewProvisionTenantTask(tenantID)
	if err != nil {
		return fmt.Errorf("build provision task failed: %w", err)
	}

	return d.enqueue(ctx, t)
}

func (d *Dispatcher) enqueue(ctx context.Context, t *asynq.Task) error {
	if _, err := d.client.EnqueueContext(ctx, t); err != nil {
		return fmt.Errorf("enqueue %s failed: %w", t.Type(), err)
	}

	return nil
}

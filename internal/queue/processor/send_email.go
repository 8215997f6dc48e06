package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/nodepress/demo-control-plane/internal/queue/task"
	"github.com/nodepress/demo-control-plane/internal/worker"
)

type sendVerificationEmailProcessor struct {
	workers *worker.Workers
}

func NewSendVerificationEmailProcessor(workers *worker.Workers) *sendVerificationEmailProcessor {
	return &sendVerificationEmailProcessor{
		workers: workers,
	}
}

func (p *sendVerificationEmailProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.SendVerificationEmail
	err := json.Unmarshal(t.Payload(), &data)
	if err != nil {
		return fmt.Errorf("process verification email task json unmarshal failed: %w", err)
	}

	if err = p.workers.EmailSender.SendVerificationEmail(ctx, data.Email, data.Name, data.Token); err != nil {
		return fmt.Errorf("send verification email failed: %w", err)
	}

	return nil
}

type sendCredentialsEmailProcessor struct {
	workers *worker.Workers
}

func NewSendCredentialsEmailProcessor(workers *worker.Workers) *sendCredentialsEmailProcessor {
	return &sendCredentialsEmailProcessor{
		workers: workers,
	}
}

func (p *sendCredentialsEmailProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.SendCredentialsEmail
	err := json.Unmarshal(t.Payload(), &data)
	if err != nil {
		return fmt.Errorf("process credentials email task json unmarshal failed: %w", err)
	}

	if err = p.workers.EmailSender.SendCredentialsEmail(ctx, data.Email, data.Subdomain, data.AdminEmail, data.AdminPassword, data.ExpiresAt); err != nil {
		return fmt.Errorf("send credentials email failed: %w", err)
	}

	return nil
}

type sendExpirationWarningProcessor struct {
	workers *worker.Workers
}

func NewSendExpirationWarningProcessor(workers *worker.Workers) *sendExpirationWarningProcessor {
	return &sendExpirationWarningProcessor{
		workers: workers,
	}
}

func (p *sendExpirationWarningProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.SendExpirationWarning
	err := json.Unmarshal(t.Payload(), &data)
	if err != nil {
		return fmt.Errorf("process expiration warning task json unmarshal failed: %w", err)
	}

	if err = p.workers.EmailSender.SendExpirationWarning(ctx, data.Email, data.Subdomain, data.ExpiresAt); err != nil {
		return fmt.Errorf("send expiration warning failed: %w", err)
	}

	return nil
}

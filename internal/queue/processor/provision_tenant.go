package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/nodepress/demo-control-plane/internal/queue/task"
	"github.com/nodepress/demo-control-plane/internal/worker"
)

type provisionTenantProcessor struct {
	workers *worker.Workers
}

func NewProvisionTenantProcessor(workers *worker.Workers) *provisionTenantProcessor {
	return &provisionTenantProcessor{
		workers: workers,
	}
}

func (p *provisionTenantProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.ProvisionTenant
	err := json.Unmarshal(t.Payload(), &data)
	if err != nil {
		return fmt.Errorf("process provision tenant task json unmarshal failed: %w", err)
	}

	if err = p.workers.Provisioner.ProvisionTenant(ctx, data.TenantID); err != nil {
		return fmt.Errorf("provision tenant failed: %w", err)
	}

	return nil
}

package task

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	ProvisionTenantTaskName  = "provisionTenantTask"
	ProvisionTenantQueueName = "provisionQueue"
)

type ProvisionTenant struct {
	TenantID uuid.UUID `json:"tenant_id"`
}

// NewProvisionTenantTask schedules background provisioning of one tenant.
// MaxRetry is zero: a failed run has already moved the tenant to FAILED and
// rolled back, so a retry would act on a tenant no longer in PENDING.
func NewProvisionTenantTask(tenantID uuid.UUID) (*asynq.Task, error) {
	data := ProvisionTenant{
		TenantID: tenantID,
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		ProvisionTenantTaskName,
		payload,
		asynq.MaxRetry(0),
		asynq.Queue(ProvisionTenantQueueName),
	), nil
}

package task

import "github.com/hibiken/asynq"

const (
	ExpirationSweepTaskName     = "expirationSweepTask"
	ExpirationWarningTaskName   = "expirationWarningTask"
	VerificationCleanupTaskName = "verificationCleanupTask"
	SweepQueueName              = "sweepQueue"
)

// Sweep tasks carry no payload; each run scans for whatever is currently
// stale. Registered with the scheduler, not enqueued by request handlers.

func NewExpirationSweepTask() *asynq.Task {
	return asynq.NewTask(ExpirationSweepTaskName, nil, asynq.MaxRetry(0), asynq.Queue(SweepQueueName))
}

func NewExpirationWarningTask() *asynq.Task {
	return asynq.NewTask(ExpirationWarningTaskName, nil, asynq.MaxRetry(0), asynq.Queue(SweepQueueName))
}

func NewVerificationCleanupTask() *asynq.Task {
	return asynq.NewTask(VerificationCleanupTaskName, nil, asynq.MaxRetry(0), asynq.Queue(SweepQueueName))
}

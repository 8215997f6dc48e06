package asynqserver

import (
	"github.com/hibiken/asynq"

	"github.com/nodepress/demo-control-plane/internal/cache"
	"github.com/nodepress/demo-control-plane/internal/config"
	"github.com/nodepress/demo-control-plane/internal/queue/processor"
	"github.com/nodepress/demo-control-plane/internal/queue/task"
	"github.com/nodepress/demo-control-plane/internal/worker"
)

func New(cfg config.Cache, workers *worker.Workers) (*asynq.Server, *asynq.ServeMux) {
	mux, queues := getQueues(workers)
	srv := asynq.NewServer(
		RedisOptions(cfg),
		asynq.Config{
			Concurrency: 10,
			LogLevel:    asynq.ErrorLevel,
			Queues:      queues,
		},
	)

	return srv, mux
}

func RedisOptions(cfg config.Cache) asynq.RedisConnOpt {
	var opts asynq.RedisConnOpt
	if cfg.Type == cache.RedisTypeCluster {
		opts = asynq.RedisClusterClientOpt{Addrs: cfg.RedisCluster.Addresses}
	} else {
		opts = asynq.RedisClientOpt{Addr: cfg.Redis.Address}
	}
	return opts
}

func getQueues(workers *worker.Workers) (*asynq.ServeMux, map[string]int) {
	mux := asynq.NewServeMux()
	mux.Handle(task.ProvisionTenantTaskName, processor.NewProvisionTenantProcessor(workers))
	mux.Handle(task.SendVerificationEmailTaskName, processor.NewSendVerificationEmailProcessor(workers))
	mux.Handle(task.SendCredentialsEmailTaskName, processor.NewSendCredentialsEmailProcessor(workers))
	mux.Handle(task.SendExpirationWarningTaskName, processor.NewSendExpirationWarningProcessor(workers))
	mux.Handle(task.ExpirationSweepTaskName, processor.NewExpirationSweepProcessor(workers))
	mux.Handle(task.ExpirationWarningTaskName, processor.NewExpirationWarningProcessor(workers))
	mux.Handle(task.VerificationCleanupTaskName, processor.NewVerificationCleanupProcessor(workers))
	queues := map[string]int{
		task.ProvisionTenantQueueName: 3,
		task.SendEmailQueueName:       2,
		task.SweepQueueName:           1,
	}
	return mux, queues
}

// NewScheduler registers the periodic sweep jobs: the hourly expiration
// sweep, the half-hourly expiration warning and the hourly verification
// cleanup.
func NewScheduler(cfg config.Cache) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(RedisOptions(cfg), &asynq.SchedulerOpts{
		LogLevel: asynq.ErrorLevel,
	})

	if _, err := scheduler.Register("@every 1h", task.NewExpirationSweepTask()); err != nil {
		return nil, err
	}
	if _, err := scheduler.Register("@every 30m", task.NewExpirationWarningTask()); err != nil {
		return nil, err
	}
	if _, err := scheduler.Register("@every 1h", task.NewVerificationCleanupTask()); err != nil {
		return nil, err
	}

	return scheduler, nil
}

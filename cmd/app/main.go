package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	apiHttp "github.com/nodepress/demo-control-plane/internal/api/http"
	"github.com/nodepress/demo-control-plane/internal/cache"
	"github.com/nodepress/demo-control-plane/internal/config"
	"github.com/nodepress/demo-control-plane/internal/db"
	"github.com/nodepress/demo-control-plane/internal/provision"
	queueClient "github.com/nodepress/demo-control-plane/internal/queue/asynqserver"
	dispatch "github.com/nodepress/demo-control-plane/internal/queue/client"
	"github.com/nodepress/demo-control-plane/internal/repository"
	"github.com/nodepress/demo-control-plane/internal/server"
	"github.com/nodepress/demo-control-plane/internal/service"
	"github.com/nodepress/demo-control-plane/internal/tenantscope"
	"github.com/nodepress/demo-control-plane/internal/worker"
	"github.com/nodepress/demo-control-plane/pkg/auth"
	"github.com/nodepress/demo-control-plane/pkg/email/smtp"
	"github.com/nodepress/demo-control-plane/pkg/hash"
	"github.com/nodepress/demo-control-plane/pkg/logger"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	appLogger := logger.SetupLogger(cfg.Env)

	appLogger.Infow("starting demo control plane", "env", cfg.Env)
	appLogger.Debug("debug messages are enabled")

	// Init databases: the scoped pool for control-plane tables and the
	// schema-less admin pool for per-tenant CREATE/DROP DATABASE.
	dbMySQL, err := db.New(cfg.Database)
	if err != nil {
		appLogger.Errorw("mysql connect problem", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbMySQL.Close(); err != nil {
			appLogger.Errorw("error when closing", "error", err)
		}
	}()

	adminMySQL, err := db.NewAdmin(cfg.Database)
	if err != nil {
		appLogger.Errorw("mysql admin connect problem", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := adminMySQL.Close(); err != nil {
			appLogger.Errorw("error when closing admin pool", "error", err)
		}
	}()
	appLogger.Info("mysql connections done")

	redisClient, err := cache.NewRedis(cfg.Cache)
	if err != nil {
		appLogger.Errorw("redis connect problem", "error", err)
		os.Exit(1)
	}
	appLogger.Info("redis connection done")

	hasher := hash.NewSHA256Hasher(cfg.Auth.PasswordSalt)

	emailSender, err := smtp.NewSMTPSender(cfg.SMTP.From, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
	if err != nil {
		appLogger.Errorw("smtp sender creation failed", "error", err)
		return
	}

	tokenManager, err := auth.NewManager(cfg.Auth.JWT)
	if err != nil {
		appLogger.Errorw("auth manager creation err", "error", err)
		return
	}

	// Queue client
	asynqClient := asynq.NewClient(queueClient.RedisOptions(cfg.Cache))
	defer func() {
		if err := asynqClient.Close(); err != nil {
			appLogger.Errorw("error when closing asynq client", "error", err)
		}
	}()
	dispatcher := dispatch.NewDispatcher(asynqClient)

	// Repos, tenant-scoped store & provisioning
	repos := repository.NewRepositories(dbMySQL)
	store := tenantscope.NewStore(repos.Contents)

	orchestrator := provision.NewOrchestrator(
		repos.Tenants,
		repos.Activity,
		repos.Contents,
		store,
		provision.NewDatabaseManager(adminMySQL),
		provision.NewProcessRuntime(cfg.Demo.RuntimeBin, provision.NewExecRunner(), cfg.Demo.ProvisionTimeout),
		provision.NewArtifactWriter(cfg.Demo.ResourceDir, cfg.Demo.BaseDomain),
	)

	// Services & API handlers
	services := service.NewServices(service.Deps{
		Config:     cfg,
		Repos:      repos,
		Store:      store,
		Hasher:     hasher,
		Resolver:   service.NewNetResolver(),
		Enqueuer:   dispatcher,
		Teardowner: orchestrator,
		Locker:     service.NewRedisAllocLocker(redisClient),
	})
	handlers := apiHttp.NewHandlers(services, tokenManager, cfg)

	// Background workers: asynq server plus the periodic sweep scheduler
	workers := worker.NewWorkers(worker.Deps{
		Repos:        repos,
		Orchestrator: orchestrator,
		Enqueuer:     dispatcher,
		EmailSender:  emailSender,
		Config:       cfg,
	})

	asynqSrv, mux := queueClient.New(cfg.Cache, workers)
	go func() {
		if err := asynqSrv.Run(mux); err != nil {
			appLogger.Errorw("error occurred while running asynq server", "error", err)
		}
	}()

	scheduler, err := queueClient.NewScheduler(cfg.Cache)
	if err != nil {
		appLogger.Errorw("scheduler creation err", "error", err)
		os.Exit(1)
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			appLogger.Errorw("error occurred while running scheduler", "error", err)
		}
	}()

	// HTTP Server
	srv := server.NewServer(cfg, handlers.Init(cfg))
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			appLogger.Errorw("error occurred while running http server", "error", err)
		}
	}()
	appLogger.Info("server started")

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	scheduler.Shutdown()
	asynqSrv.Shutdown()

	if err := srv.Stop(ctx); err != nil {
		appLogger.Errorw("failed to stop server", "error", err)
	}

	appLogger.Info("app stopped")
}

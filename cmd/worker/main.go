package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/andescargo/cargoview/internal/app"
	"github.com/andescargo/cargoview/internal/cache"
	"github.com/andescargo/cargoview/internal/invoices"
	"github.com/andescargo/cargoview/internal/provider"
	"github.com/andescargo/cargoview/internal/shared"
	"github.com/andescargo/cargoview/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	store := cache.NewRedisStore(redisClient)
	providerClient := provider.NewClient(cfg.ProviderBaseURL, cfg.ProviderTimeout, logger)
	invoiceService := invoices.NewService(providerClient, store, logger, invoices.Options{
		UserTTL:         cfg.InvoiceCacheTTL,
		AdminTTL:        cfg.AdminCacheTTL,
		PageSize:        cfg.PageSize,
		PrefetchPages:   cfg.PrefetchPages,
		DisplayCurrency: cfg.DisplayCurrency,
	})

	serviceCreds := shared.Credentials{
		Token:    cfg.ProviderServiceToken,
		Username: cfg.ProviderServiceUser,
	}
	warmup := jobs.NewInvoiceWarmupJob(invoiceService, serviceCreds, logger)

	warmupTask, err := jobs.NewAdminWarmupTask(jobs.AdminWarmupPayload{Reason: "schedule"})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAdminWarmup, Handler: warmup.HandleAdminWarmup},
			{Type: jobs.TaskUserRefresh, Handler: warmup.HandleUserRefresh},
		},
		Cron: []jobs.CronRegistration{
			// Keep the shared admin cache warm across its 5 minute TTL.
			{Spec: "*/5 * * * *", Task: warmupTask},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("redis", cfg.RedisAddr))
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

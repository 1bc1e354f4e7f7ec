package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/andescargo/cargoview/internal/app"
	"github.com/andescargo/cargoview/internal/cache"
	"github.com/andescargo/cargoview/internal/documents"
	"github.com/andescargo/cargoview/internal/invoices"
	"github.com/andescargo/cargoview/internal/provider"
	"github.com/andescargo/cargoview/internal/quotes"
	"github.com/andescargo/cargoview/internal/shipments"
	"github.com/andescargo/cargoview/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
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
	shipmentService := shipments.NewService(providerClient, store, logger, cfg.InvoiceCacheTTL)
	quoteService := quotes.NewService(providerClient, store, logger, cfg.QuoteCacheTTL)
	documentService := documents.NewService(providerClient, logger)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		InvoicesHandler:  invoices.NewHandler(logger, invoiceService),
		ShipmentsHandler: shipments.NewHandler(logger, shipmentService),
		QuotesHandler:    quotes.NewHandler(logger, quoteService),
		DocumentsHandler: documents.NewHandler(logger, documentService),
		JobHandler:       jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbridge/stockbridge/internal/app"
	"github.com/stockbridge/stockbridge/internal/audit"
	"github.com/stockbridge/stockbridge/internal/integrations/erp"
	"github.com/stockbridge/stockbridge/internal/integrations/inventory"
	"github.com/stockbridge/stockbridge/internal/movement"
	"github.com/stockbridge/stockbridge/internal/observability"
	"github.com/stockbridge/stockbridge/internal/pending"
	"github.com/stockbridge/stockbridge/internal/platform/cache"
	"github.com/stockbridge/stockbridge/internal/reconcile"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	var store pending.Store
	if cfg.PendingStore == "memory" {
		store = pending.NewMemoryStore()
	} else {
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Error("connect redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		store = pending.NewRedisStore(redisClient, cfg.PendingNamespace)
	}

	var auditLog *audit.Logger
	if cfg.PGDSN != "" {
		dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer dbpool.Close()
		auditLog = audit.NewLogger(dbpool)
	}

	httpClient := &http.Client{Timeout: cfg.GatewayTimeout}

	inventoryClient := inventory.NewClient(inventory.Config{
		BaseURL:        cfg.InventoryAPIURL,
		RefreshURL:     cfg.InventoryRefreshURL,
		OrganizationID: cfg.InventoryOrgID,
		ClientID:       cfg.InventoryClientID,
		ClientSecret:   cfg.InventoryClientSecret,
		RefreshToken:   cfg.InventoryRefreshToken,
		AccessToken:    cfg.InventoryAccessToken,
	}, httpClient, logger)

	erpClient := erp.NewClient(erp.Config{
		URL:      cfg.ERPURL,
		Database: cfg.ERPDatabase,
		UserID:   cfg.ERPUserID,
		Password: cfg.ERPPassword,
	}, httpClient, logger)

	tables := cfg.Tables()
	metrics := observability.NewMetrics()

	movementService := movement.NewService(logger, inventoryClient, erpClient, store, tables, cfg.PendingMoveTTL)
	movementHandler := movement.NewHandler(logger, movementService, metrics, auditLog)

	reconcileService := reconcile.NewService(logger, inventoryClient, erpClient, tables)
	reconcileHandler := reconcile.NewHandler(logger, reconcileService, metrics, auditLog)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		MovementHandler:  movementHandler,
		ReconcileHandler: reconcileHandler,
		PendingStore:     store,
		Metrics:          metrics,
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

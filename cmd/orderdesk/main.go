package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/orderdesk/internal/app"
	"github.com/odyssey-erp/orderdesk/internal/audit"
	"github.com/odyssey-erp/orderdesk/internal/delivery"
	"github.com/odyssey-erp/orderdesk/internal/masterdata/products"
	"github.com/odyssey-erp/orderdesk/internal/observability"
	"github.com/odyssey-erp/orderdesk/internal/platform/cache"
	"github.com/odyssey-erp/orderdesk/internal/platform/db"
	"github.com/odyssey-erp/orderdesk/internal/sales/clients"
	"github.com/odyssey-erp/orderdesk/internal/sales/detailorders"
	"github.com/odyssey-erp/orderdesk/internal/sales/orders"
	"github.com/odyssey-erp/orderdesk/internal/shared"
	"github.com/odyssey-erp/orderdesk/jobs"
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

	pool, err := db.New(ctx, cfg.PoolConfig())
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Error("migrate schema", slog.Any("error", err))
			os.Exit(1)
		}
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, idempotency checks will pass through", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	idempotency := shared.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL, logger)
	auditLogger := shared.NewAuditLogger(pool)
	metrics := observability.NewMetrics()
	metrics.ObservePool(observability.PGXPoolStats(pool))

	productService := products.NewService(products.NewRepository(pool))
	clientService := clients.NewService(clients.NewRepository(pool))
	orderService := orders.NewService(orders.NewRepository(pool), clientService)
	deliveryService := delivery.NewService(delivery.NewRepository(pool), orderService)
	detailService := detailorders.NewService(detailorders.NewRepository(pool), auditLogger, metrics, logger)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		Metrics:             metrics,
		ProductsHandler:     products.NewHandler(logger, productService),
		ClientsHandler:      clients.NewHandler(logger, clientService),
		OrdersHandler:       orders.NewHandler(logger, orderService),
		DeliveriesHandler:   delivery.NewHandler(logger, deliveryService),
		DetailOrdersHandler: detailorders.NewHandler(logger, detailService, idempotency),
		AuditHandler:        audit.NewHandler(logger, audit.NewService(audit.NewRepository(pool))),
		JobHandler:          jobs.NewHandler(inspector, jobClient, logger),
	})

	if err := app.Serve(ctx, logger, app.NewServer(cfg, router)); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

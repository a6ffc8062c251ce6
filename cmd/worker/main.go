package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/fitdesk/fitdesk/internal/app"
	"github.com/fitdesk/fitdesk/internal/inventory"
	"github.com/fitdesk/fitdesk/internal/masterdata/locations"
	"github.com/fitdesk/fitdesk/internal/masterdata/products"
	"github.com/fitdesk/fitdesk/internal/masterdata/vendors"
	"github.com/fitdesk/fitdesk/internal/platform/cache"
	"github.com/fitdesk/fitdesk/internal/platform/db"
	"github.com/fitdesk/fitdesk/internal/platform/httpx"
	"github.com/fitdesk/fitdesk/internal/shared"
	"github.com/fitdesk/fitdesk/jobs"
)

// catalog adapts the master data services to the inventory catalog port.
type catalog struct {
	products  *products.Service
	locations *locations.Service
	vendors   *vendors.Service
}

func (c catalog) ProductInfo(ctx context.Context, id int64) (inventory.ProductInfo, error) {
	p, err := c.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return inventory.ProductInfo{}, fmt.Errorf("%w: product %d", inventory.ErrNotFound, id)
		}
		return inventory.ProductInfo{}, err
	}
	return inventory.ProductInfo{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Price:        p.Price,
		CostPrice:    p.CostPrice,
		ReorderPoint: p.ReorderPoint,
		ReorderQty:   p.ReorderQty,
		Active:       p.Active,
	}, nil
}

func (c catalog) LocationExists(ctx context.Context, id int64) (bool, error) {
	_, err := c.locations.Get(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c catalog) VendorExists(ctx context.Context, id int64) (bool, error) {
	_, err := c.vendors.Get(ctx, id)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

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

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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

	sequence := shared.NewSequence(pool)
	auditLogger := shared.NewAuditLogger(pool)
	idempotencyStore := shared.NewIdempotencyStore(pool)

	productsService := products.NewService(products.NewRepository(pool, sequence))
	locationsService := locations.NewService(locations.NewRepository(pool))
	vendorsService := vendors.NewService(vendors.NewRepository(pool))

	inventoryService := inventory.NewService(
		inventory.NewRepository(pool, sequence),
		catalog{products: productsService, locations: locationsService, vendors: vendorsService},
		auditLogger,
		nil,
		idempotencyStore,
		inventory.ServiceConfig{PartialReceiptRatio: cfg.ReceiptWarnRatio},
	)

	jobMetrics := jobs.NewMetrics(nil)
	lowStockJob := jobs.NewLowStockScanJob(inventoryService, redisClient, logger, jobMetrics)
	cleanupJob := jobs.NewIdempotencyCleanupJob(idempotencyStore, logger, jobMetrics)

	scanTask, err := jobs.NewLowStockScanTask(jobs.LowStockScanPayload{})
	if err != nil {
		logger.Error("build scan task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeLowStockScan, Handler: lowStockJob.Handle},
			{Type: jobs.TaskTypeIdempotencyCleanup, Handler: cleanupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.LowStockCron, Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 3 * * 0", Task: jobs.NewIdempotencyCleanupTask()},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker exited", slog.Any("error", err))
		os.Exit(1)
	}
}

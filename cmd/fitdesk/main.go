package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/fitdesk/fitdesk/internal/app"
	"github.com/fitdesk/fitdesk/internal/dashboard"
	"github.com/fitdesk/fitdesk/internal/inventory"
	"github.com/fitdesk/fitdesk/internal/masterdata/locations"
	"github.com/fitdesk/fitdesk/internal/masterdata/products"
	"github.com/fitdesk/fitdesk/internal/masterdata/vendors"
	"github.com/fitdesk/fitdesk/internal/observability"
	"github.com/fitdesk/fitdesk/internal/platform/db"
	"github.com/fitdesk/fitdesk/internal/platform/httpx"
	"github.com/fitdesk/fitdesk/internal/shared"
	"github.com/fitdesk/fitdesk/jobs"
	"github.com/fitdesk/fitdesk/migrations"
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
		if isNotFound(err) {
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
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c catalog) VendorExists(ctx context.Context, id int64) (bool, error) {
	_, err := c.vendors.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, httpx.ErrNotFound)
}

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

	if err := db.Migrate(cfg.PGDSN, migrations.FS); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	metrics := observability.NewMetrics()

	sequence := shared.NewSequence(pool)
	auditLogger := shared.NewAuditLogger(pool)
	idempotencyStore := shared.NewIdempotencyStore(pool)

	productsService := products.NewService(products.NewRepository(pool, sequence))
	locationsService := locations.NewService(locations.NewRepository(pool))
	vendorsService := vendors.NewService(vendors.NewRepository(pool))

	inventoryRepo := inventory.NewRepository(pool, sequence)
	inventoryService := inventory.NewService(
		inventoryRepo,
		catalog{products: productsService, locations: locationsService, vendors: vendorsService},
		auditLogger,
		metrics,
		idempotencyStore,
		inventory.ServiceConfig{PartialReceiptRatio: cfg.ReceiptWarnRatio},
	)

	dashboardService := dashboard.NewService(inventoryService, dashboard.NewRepository(pool))

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Pool:             pool,
		Metrics:          metrics,
		InventoryHandler: inventory.NewHandler(logger, inventoryService),
		ProductsHandler:  products.NewHandler(logger, productsService),
		LocationsHandler: locations.NewHandler(logger, locationsService),
		VendorsHandler:   vendors.NewHandler(logger, vendorsService),
		DashboardHandler: dashboard.NewHandler(logger, dashboardService),
		JobsClient:       jobsClient,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

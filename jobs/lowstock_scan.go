package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/fitdesk/fitdesk/internal/inventory"
)

// InventoryPort is the slice of the inventory service the scan needs.
type InventoryPort interface {
	ListLowStock(ctx context.Context, locationID int64) ([]inventory.LowStockItem, error)
	SuggestReorder(ctx context.Context, productID, locationID int64) (inventory.ReorderRequest, bool, error)
}

// LowStockScanJob raises pending reorder requests for products at or below
// their reorder point. A redis SETNX key throttles alerts to one per
// (product, location) per day, so a rescheduled scan never double-suggests.
type LowStockScanJob struct {
	Inventory InventoryPort
	Redis     *redis.Client
	Logger    *slog.Logger
	Metrics   *Metrics
	clock     func() time.Time
}

// NewLowStockScanJob initialises the scan handler.
func NewLowStockScanJob(inv InventoryPort, rdb *redis.Client, logger *slog.Logger, metrics *Metrics) *LowStockScanJob {
	return &LowStockScanJob{
		Inventory: inv,
		Redis:     rdb,
		Logger:    logger,
		Metrics:   metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the scan.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Inventory == nil {
		return errors.New("lowstock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	tracker := j.Metrics.Track(TaskTypeLowStockScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int64("location_id", payload.LocationID))
	logger.Info("starting low-stock scan")

	items, err := j.Inventory.ListLowStock(ctx, payload.LocationID)
	if err != nil {
		resultErr = err
		logger.Error("low-stock query failed", slog.Any("error", err))
		return resultErr
	}

	created := 0
	for _, item := range items {
		fresh, err := j.claimAlert(ctx, item.ProductID, item.LocationID)
		if err != nil {
			logger.Warn("alert dedup check failed", slog.Any("error", err))
			continue
		}
		if !fresh {
			continue
		}
		request, ok, err := j.Inventory.SuggestReorder(ctx, item.ProductID, item.LocationID)
		if err != nil {
			logger.Error("reorder suggestion failed",
				slog.Int64("product_id", item.ProductID),
				slog.Int64("location_id", item.LocationID),
				slog.Any("error", err))
			continue
		}
		if !ok {
			continue
		}
		created++
		logger.Info("reorder suggested",
			slog.String("number", request.Number),
			slog.String("sku", item.ProductSKU),
			slog.Int64("quantity", request.Quantity))
	}

	j.Metrics.AddSuggestions(created)
	logger.Info("low-stock scan finished",
		slog.Int("low_stock_items", len(items)),
		slog.Int("suggestions_created", created))
	return nil
}

// claimAlert returns true when this run owns today's alert for the pair.
func (j *LowStockScanJob) claimAlert(ctx context.Context, productID, locationID int64) (bool, error) {
	if j.Redis == nil {
		return true, nil
	}
	day := j.now().Format("2006-01-02")
	key := fmt.Sprintf("lowstock:alert:%d:%d:%s", productID, locationID, day)
	return j.Redis.SetNX(ctx, key, "1", 25*time.Hour).Result()
}

func (j *LowStockScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

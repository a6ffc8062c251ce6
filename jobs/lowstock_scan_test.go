package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/fitdesk/fitdesk/internal/inventory"
)

type stubInventory struct {
	items     []inventory.LowStockItem
	suggested []int64
	open      map[int64]bool
}

func (s *stubInventory) ListLowStock(ctx context.Context, locationID int64) ([]inventory.LowStockItem, error) {
	return s.items, nil
}

func (s *stubInventory) SuggestReorder(ctx context.Context, productID, locationID int64) (inventory.ReorderRequest, bool, error) {
	if s.open[productID] {
		return inventory.ReorderRequest{}, false, nil
	}
	s.suggested = append(s.suggested, productID)
	s.open[productID] = true
	return inventory.ReorderRequest{Number: "RO-0001", ProductID: productID, LocationID: locationID, Quantity: 20}, true, nil
}

func TestLowStockScanSuggestsOncePerDay(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	inv := &stubInventory{
		items: []inventory.LowStockItem{
			{ProductID: 1, LocationID: 10, ProductSKU: "SUP-0001", Quantity: 2, ReorderPoint: 5, ReorderQty: 20},
			{ProductID: 2, LocationID: 10, ProductSKU: "SUP-0002", Quantity: 0, ReorderPoint: 3, ReorderQty: 10},
		},
		open: map[int64]bool{},
	}
	job := NewLowStockScanJob(inv, rdb, nil, nil)

	task, err := NewLowStockScanTask(LowStockScanPayload{})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Len(t, inv.suggested, 2)

	// Same day: dedup keys suppress a second pass entirely.
	require.NoError(t, job.Handle(context.Background(), task))
	require.Len(t, inv.suggested, 2)

	// Next day the keys roll over, but open requests still win.
	mr.FastForward(26 * time.Hour)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Len(t, inv.suggested, 2)
}

func TestLowStockScanSkipsMalformedPayload(t *testing.T) {
	inv := &stubInventory{open: map[int64]bool{}}
	job := NewLowStockScanJob(inv, nil, nil, nil)

	task := asynq.NewTask(TaskTypeLowStockScan, []byte("{not json"))
	err := job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

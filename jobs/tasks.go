// Package jobs holds the Asynq background workers: the nightly low-stock
// scan that raises reorder suggestions, and housekeeping tasks.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeLowStockScan walks stock levels and suggests reorders.
	TaskTypeLowStockScan = "reorder:lowstock_scan"
	// TaskTypeIdempotencyCleanup prunes stale idempotency keys.
	TaskTypeIdempotencyCleanup = "maintenance:idempotency_cleanup"
)

// LowStockScanPayload optionally narrows the scan to one location.
// LocationID zero means every location.
type LowStockScanPayload struct {
	LocationID int64 `json:"location_id"`
}

// NewLowStockScanTask constructs an Asynq task.
func NewLowStockScanTask(payload LowStockScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeLowStockScan, data), nil
}

// NewIdempotencyCleanupTask constructs an Asynq task with an empty payload.
func NewIdempotencyCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskTypeIdempotencyCleanup, nil)
}

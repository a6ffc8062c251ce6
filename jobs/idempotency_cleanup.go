package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/fitdesk/fitdesk/internal/shared"
)

// Keys older than this are safe to prune: any retried receive would have
// been resolved long before.
const idempotencyRetention = 7 * 24 * time.Hour

// IdempotencyCleanupJob prunes stale idempotency keys.
type IdempotencyCleanupJob struct {
	Store   *shared.IdempotencyStore
	Logger  *slog.Logger
	Metrics *Metrics
}

// NewIdempotencyCleanupJob initialises the cleanup handler.
func NewIdempotencyCleanupJob(store *shared.IdempotencyStore, logger *slog.Logger, metrics *Metrics) *IdempotencyCleanupJob {
	return &IdempotencyCleanupJob{Store: store, Logger: logger, Metrics: metrics}
}

// Handle executes the cleanup.
func (j *IdempotencyCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Store == nil {
		return errors.New("idempotency cleanup: handler not configured")
	}
	tracker := j.Metrics.Track(TaskTypeIdempotencyCleanup)
	err := j.Store.Cleanup(ctx, idempotencyRetention)
	if err != nil && j.Logger != nil {
		j.Logger.Error("idempotency cleanup failed", slog.Any("error", err))
	}
	return tracker.End(err)
}

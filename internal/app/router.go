package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitdesk/fitdesk/internal/dashboard"
	"github.com/fitdesk/fitdesk/internal/inventory"
	"github.com/fitdesk/fitdesk/internal/masterdata/locations"
	"github.com/fitdesk/fitdesk/internal/masterdata/products"
	"github.com/fitdesk/fitdesk/internal/masterdata/vendors"
	"github.com/fitdesk/fitdesk/internal/observability"
	"github.com/fitdesk/fitdesk/internal/platform/httpx"
	"github.com/fitdesk/fitdesk/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	Pool             *pgxpool.Pool
	Metrics          *observability.Metrics
	InventoryHandler *inventory.Handler
	ProductsHandler  *products.Handler
	LocationsHandler *locations.Handler
	VendorsHandler   *vendors.Handler
	DashboardHandler *dashboard.Handler
	JobsClient       *jobs.Client
}

// NewRouter constructs the chi.Router with FitDesk defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if params.Pool != nil {
			if err := params.Pool.Ping(r.Context()); err != nil {
				params.Logger.Error("health check failed", slog.Any("error", err))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded"}`))
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		if params.InventoryHandler != nil {
			params.InventoryHandler.MountRoutes(api)
		}
		if params.ProductsHandler != nil {
			params.ProductsHandler.MountRoutes(api)
		}
		if params.LocationsHandler != nil {
			params.LocationsHandler.MountRoutes(api)
		}
		if params.VendorsHandler != nil {
			params.VendorsHandler.MountRoutes(api)
		}
		if params.DashboardHandler != nil {
			params.DashboardHandler.MountRoutes(api)
		}
		if params.JobsClient != nil {
			// Manual trigger for the low-stock scan, same task the nightly
			// cron enqueues.
			api.Post("/jobs/lowstock-scan", func(w http.ResponseWriter, r *http.Request) {
				info, err := params.JobsClient.EnqueueLowStockScan(r.Context(), jobs.LowStockScanPayload{})
				if err != nil {
					params.Logger.Error("enqueue low-stock scan", slog.Any("error", err))
					httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
					return
				}
				httpx.JSON(w, http.StatusAccepted, map[string]string{"task_id": info.ID})
			})
		}
	})

	return r
}

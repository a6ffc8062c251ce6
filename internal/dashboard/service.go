// Package dashboard aggregates cross-entity KPIs for the back-office
// landing page.
package dashboard

import (
	"context"

	"github.com/fitdesk/fitdesk/internal/inventory"
)

// Overview is the KPI snapshot rendered on the home screen.
type Overview struct {
	PendingReorders int64   `json:"pending_reorders"`
	PendingValue    float64 `json:"pending_value"`
	ReceivedLast7d  int64   `json:"received_last_7d"`
	TotalReorders   int64   `json:"total_reorders"`
	TotalOrderValue float64 `json:"total_order_value"`
	ActiveProducts  int64   `json:"active_products"`
	ActiveVendors   int64   `json:"active_vendors"`
	Locations       int64   `json:"locations"`
	LowStockItems   int64   `json:"low_stock_items"`
}

// Counts holds the master-data tallies the overview needs.
type Counts struct {
	ActiveProducts int64
	ActiveVendors  int64
	Locations      int64
	LowStockItems  int64
}

// ReorderStatsPort is satisfied by the inventory service.
type ReorderStatsPort interface {
	Stats(ctx context.Context) (inventory.ReorderStats, error)
}

// CountsPort is satisfied by the dashboard repository.
type CountsPort interface {
	Counts(ctx context.Context) (Counts, error)
}

type Service struct {
	reorders ReorderStatsPort
	counts   CountsPort
}

func NewService(reorders ReorderStatsPort, counts CountsPort) *Service {
	return &Service{reorders: reorders, counts: counts}
}

// Overview queries fresh on every call. The numbers back daily purchasing
// decisions, so staleness is worse than the extra queries.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	stats, err := s.reorders.Stats(ctx)
	if err != nil {
		return Overview{}, err
	}
	counts, err := s.counts.Counts(ctx)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		PendingReorders: stats.PendingCount,
		PendingValue:    stats.PendingValue,
		ReceivedLast7d:  stats.ReceivedLast7d,
		TotalReorders:   stats.TotalRequests,
		TotalOrderValue: stats.TotalOrderValue,
		ActiveProducts:  counts.ActiveProducts,
		ActiveVendors:   counts.ActiveVendors,
		Locations:       counts.Locations,
		LowStockItems:   counts.LowStockItems,
	}, nil
}

package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fitdesk/fitdesk/internal/inventory"
)

type stubStats struct {
	stats inventory.ReorderStats
}

func (s stubStats) Stats(ctx context.Context) (inventory.ReorderStats, error) {
	return s.stats, nil
}

type stubCounts struct {
	counts Counts
}

func (s stubCounts) Counts(ctx context.Context) (Counts, error) {
	return s.counts, nil
}

func TestOverviewMergesSources(t *testing.T) {
	svc := NewService(
		stubStats{stats: inventory.ReorderStats{
			PendingCount:    3,
			PendingValue:    642.50,
			ReceivedLast7d:  5,
			TotalRequests:   41,
			TotalOrderValue: 9800,
		}},
		stubCounts{counts: Counts{
			ActiveProducts: 120,
			ActiveVendors:  8,
			Locations:      3,
			LowStockItems:  7,
		}},
	)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 3, overview.PendingReorders)
	require.Equal(t, 642.50, overview.PendingValue)
	require.EqualValues(t, 5, overview.ReceivedLast7d)
	require.EqualValues(t, 41, overview.TotalReorders)
	require.EqualValues(t, 120, overview.ActiveProducts)
	require.EqualValues(t, 7, overview.LowStockItems)
}

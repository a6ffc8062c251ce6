package inventory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	reorders map[int64]ReorderRequest
	stock    map[string]StockLevel
	seq      map[string]int64
	nextID   int64
	catalog  *stubCatalog

	failStockUpsert bool
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		reorders: make(map[int64]ReorderRequest),
		stock:    make(map[string]StockLevel),
		seq:      make(map[string]int64),
	}
}

func stockKey(productID, locationID int64) string {
	return fmt.Sprintf("%d:%d", productID, locationID)
}

// WithTx snapshots state and restores it when fn fails, matching the
// all-or-nothing behaviour of the SQL repository.
func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	reorders := make(map[int64]ReorderRequest, len(r.reorders))
	for k, v := range r.reorders {
		reorders[k] = v
	}
	stock := make(map[string]StockLevel, len(r.stock))
	for k, v := range r.stock {
		stock[k] = v
	}
	seq := make(map[string]int64, len(r.seq))
	for k, v := range r.seq {
		seq[k] = v
	}
	nextID := r.nextID

	if err := fn(ctx, &memoryTx{repo: r}); err != nil {
		r.reorders = reorders
		r.stock = stock
		r.seq = seq
		r.nextID = nextID
		return err
	}
	return nil
}

func (r *memoryRepo) GetReorder(ctx context.Context, id int64) (ReorderRequest, error) {
	request, ok := r.reorders[id]
	if !ok {
		return ReorderRequest{}, ErrNotFound
	}
	return request, nil
}

func (r *memoryRepo) ListReorders(ctx context.Context, filter ReorderFilter) ([]ReorderListItem, error) {
	var items []ReorderListItem
	for _, request := range r.reorders {
		if filter.Status != "" && request.Status != filter.Status {
			continue
		}
		if filter.LocationID > 0 && request.LocationID != filter.LocationID {
			continue
		}
		items = append(items, ReorderListItem{ReorderRequest: request})
	}
	return items, nil
}

func (r *memoryRepo) GetStockLevel(ctx context.Context, productID, locationID int64) (StockLevel, error) {
	level, ok := r.stock[stockKey(productID, locationID)]
	if !ok {
		return StockLevel{ProductID: productID, LocationID: locationID}, nil
	}
	return level, nil
}

// ListLowStock mirrors the SQL query: active products only, a missing stock
// row counts as quantity zero, at-or-below the reorder point is low.
func (r *memoryRepo) ListLowStock(ctx context.Context, locationID int64) ([]LowStockItem, error) {
	if r.catalog == nil {
		return nil, nil
	}
	var items []LowStockItem
	for _, product := range r.catalog.products {
		if !product.Active {
			continue
		}
		for lid := range r.catalog.locations {
			if locationID > 0 && lid != locationID {
				continue
			}
			var qty int64
			if level, ok := r.stock[stockKey(product.ID, lid)]; ok {
				qty = level.Quantity
			}
			if qty <= product.ReorderPoint {
				items = append(items, LowStockItem{
					ProductID:    product.ID,
					ProductName:  product.Name,
					ProductSKU:   product.SKU,
					LocationID:   lid,
					Quantity:     qty,
					ReorderPoint: product.ReorderPoint,
					ReorderQty:   product.ReorderQty,
				})
			}
		}
	}
	return items, nil
}

func (r *memoryRepo) HasOpenReorder(ctx context.Context, productID, locationID int64) (bool, error) {
	for _, request := range r.reorders {
		if request.ProductID == productID && request.LocationID == locationID &&
			(request.Status == StatusPending || request.Status == StatusApproved) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) Stats(ctx context.Context, now time.Time) (ReorderStats, error) {
	var stats ReorderStats
	for _, request := range r.reorders {
		stats.TotalRequests++
		stats.TotalOrderValue += request.TotalCost
		if request.Status == StatusPending {
			stats.PendingCount++
			stats.PendingValue += request.TotalCost
		}
		if request.Status == StatusReceived && request.ReceivedAt.After(now.AddDate(0, 0, -7)) {
			stats.ReceivedLast7d++
		}
	}
	return stats, nil
}

func (tx *memoryTx) NextSequence(ctx context.Context, name string) (int64, error) {
	tx.repo.seq[name]++
	return tx.repo.seq[name], nil
}

func (tx *memoryTx) InsertReorder(ctx context.Context, request ReorderRequest) (int64, error) {
	tx.repo.nextID++
	request.ID = tx.repo.nextID
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}
	tx.repo.reorders[request.ID] = request
	return request.ID, nil
}

func (tx *memoryTx) SetApproval(ctx context.Context, id int64, approvedBy string, approvedAt time.Time) error {
	request := tx.repo.reorders[id]
	if request.Status != StatusPending {
		return fmt.Errorf("%w: request %d is no longer pending", ErrInvalidTransition, id)
	}
	request.Status = StatusApproved
	request.ApprovedBy = approvedBy
	request.ApprovedAt = approvedAt
	tx.repo.reorders[id] = request
	return nil
}

func (tx *memoryTx) SetRejection(ctx context.Context, id int64, notes string) error {
	request := tx.repo.reorders[id]
	if request.Status != StatusPending {
		return fmt.Errorf("%w: request %d is no longer pending", ErrInvalidTransition, id)
	}
	request.Status = StatusRejected
	request.Notes = notes
	tx.repo.reorders[id] = request
	return nil
}

func (tx *memoryTx) SetReceived(ctx context.Context, id int64, quantityReceived int64, receivedAt time.Time) error {
	request := tx.repo.reorders[id]
	if request.Status != StatusApproved {
		return fmt.Errorf("%w: request %d is not approved", ErrInvalidTransition, id)
	}
	request.Status = StatusReceived
	request.QuantityReceived = quantityReceived
	request.ReceivedAt = receivedAt
	tx.repo.reorders[id] = request
	return nil
}

func (tx *memoryTx) GetStockForUpdate(ctx context.Context, productID, locationID int64) (StockLevel, error) {
	return tx.repo.GetStockLevel(ctx, productID, locationID)
}

func (tx *memoryTx) UpsertStockLevel(ctx context.Context, productID, locationID, delta int64, restockedAt time.Time) error {
	if tx.repo.failStockUpsert {
		return errors.New("stock write failed")
	}
	key := stockKey(productID, locationID)
	level, ok := tx.repo.stock[key]
	if !ok {
		level = StockLevel{ProductID: productID, LocationID: locationID}
	}
	level.Quantity += delta
	level.LastRestockedAt = restockedAt
	tx.repo.stock[key] = level
	return nil
}

type stubCatalog struct {
	products  map[int64]ProductInfo
	locations map[int64]bool
	vendors   map[int64]bool
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		products:  map[int64]ProductInfo{},
		locations: map[int64]bool{},
		vendors:   map[int64]bool{},
	}
}

func (c *stubCatalog) ProductInfo(ctx context.Context, id int64) (ProductInfo, error) {
	product, ok := c.products[id]
	if !ok {
		return ProductInfo{}, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return product, nil
}

func (c *stubCatalog) LocationExists(ctx context.Context, id int64) (bool, error) {
	return c.locations[id], nil
}

func (c *stubCatalog) VendorExists(ctx context.Context, id int64) (bool, error) {
	return c.vendors[id], nil
}

func newTestService(repo *memoryRepo, catalog *stubCatalog) *Service {
	repo.catalog = catalog
	return NewService(repo, catalog, nil, nil, nil, ServiceConfig{})
}

func seedCatalog(catalog *stubCatalog) {
	catalog.products[1] = ProductInfo{ID: 1, SKU: "SUP-0001", Name: "Whey Protein 2kg", Price: 45, CostPrice: 10, ReorderPoint: 5, ReorderQty: 20, Active: true}
	catalog.locations[10] = true
	catalog.vendors[100] = true
}

func TestCreateReorderSnapshotsCost(t *testing.T) {
	repo := newMemoryRepo()
	catalog := newStubCatalog()
	seedCatalog(catalog)
	svc := newTestService(repo, catalog)
	ctx := context.Background()

	result, err := svc.CreateReorder(ctx, CreateReorderInput{
		ProductID: 1, LocationID: 10, VendorID: 100, Quantity: 20, RequestedBy: "admin",
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, result.Request.Status)
	require.Equal(t, "RO-0001", result.Request.Number)
	require.Equal(t, 10.0, result.Request.UnitCost)
	require.Equal(t, 200.0, result.Request.TotalCost)
	require.Empty(t, result.Advisories)

	// Later catalog price changes must not alter the stored snapshot.
	catalog.products[1] = ProductInfo{ID: 1, SKU: "SUP-0001", Name: "Whey Protein 2kg", Price: 45, CostPrice: 99, ReorderPoint: 5, ReorderQty: 20, Active: true}
	stored, err := svc.GetReorder(ctx, result.Request.ID)
	require.NoError(t, err)
	require.Equal(t, 10.0, stored.UnitCost)
	require.Equal(t, 200.0, stored.TotalCost)
}

func TestCreateReorderValidation(t *testing.T) {
	repo := newMemoryRepo()
	catalog := newStubCatalog()
	seedCatalog(catalog)
	svc := newTestService(repo, catalog)
	ctx := context.Background()

	_, err := svc.CreateReorder(ctx, CreateReorderInput{ProductID: 1, LocationID: 10, Quantity: 0, RequestedBy: "admin"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateReorder(ctx, CreateReorderInput{ProductID: 1, LocationID: 10, Quantity: 1001, RequestedBy: "admin"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateReorder(ctx, CreateReorderInput{ProductID: 404, LocationID: 10, Quantity: 5, RequestedBy: "admin"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateReorder(ctx, CreateReorderInput{ProductID: 1, LocationID: 404, Quantity: 5, RequestedBy: "admin"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateReorder(ctx, CreateReorderInput{ProductID: 1, LocationID: 10, VendorID: 404, Quantity: 5, RequestedBy: "admin"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateReorderCostAbovePriceAdvisory(t *testing.T) {
	repo := newMemoryRepo()
	catalog := newStubCatalog()
	seedCatalog(catalog)
	catalog.products[2] = ProductInfo{ID: 2, SKU: "APP-0001", Name: "Branded Towel", Price: 8, CostPrice: 12, Active: true}
	svc := newTestService(repo, catalog)

	result, err := svc.CreateReorder(context.Background(), CreateReorderInput{
		ProductID: 2, LocationID: 10, Quantity: 10, RequestedBy: "admin",
	})
	require.NoError(t, err)
	require.Len(t, result.Advisories, 1)
	require.Equal(t, AdvisoryCostAbovePrice, result.Advisories[0].Code)
}

func TestRequestNumbersAreDistinctAndIncreasing(t *testing.T) {
	repo := newMemoryRepo()
	catalog := newStubCatalog()
	seedCatalog(catalog)
	svc := newTestService(repo, catalog)
	ctx := context.Background()

	seen := map[string]bool{}
	var last string
	for i := 0; i < 12; i++ {
		result, err := svc.CreateReorder(ctx, CreateReorderInput{ProductID: 1, LocationID: 10, Quantity: 1, RequestedBy: "admin"})
		require.NoError(t, err)
		require.False(t, seen[result.Request.Number])
		seen[result.Request.Number] = true
		require.Greater(t, result.Request.Number, last)
		last = result.Request.Number
	}
	require.Equal(t, "RO-0012", last)
}

func TestApproveTransitions(t *testing.T) {
	repo := newMemoryRepo()
	catalog := newStubCatalog()
	seedCatalog(catalog)
	svc := newTestService(repo, catalog)
	ctx := context.Background()

	result, err := svc.CreateReorder(ctx, CreateReorderInput{ProductID: 1, LocationID: 10, Quantity: 20, RequestedBy: "admin"})
	require.NoError(t, err)
	id := result.Request.ID

	require.NoError(t, svc.ApproveReorder(ctx, id, "manager"))
	first, err := svc.GetReorder(ctx, id)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, first.Status)
	require.Equal(t, "manager", first.ApprovedBy)
	require.False(t, first.ApprovedAt.IsZero())

	// Second approval must fail and must not overwrite the first approver.
	err = svc.ApproveReorder(ctx, id, "other")
	require.ErrorIs(t, err, ErrInvalidTransition)
	second, err := svc.GetReorder(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "manager", second.ApprovedBy)
	require.Equal(t, first.ApprovedAt, second.ApprovedAt)

	require.ErrorIs(t, svc.ApproveReorder(ctx, 999, "manager"), ErrNotFound)
}

func TestReceiveBeforeApprovalFails(t *testing.T) {
	repo := newMemoryRepo()
	catalog := newStubCatalog()
	seedCatalog(catalog)
	svc := newTestService(repo, catalog)
	ctx := context.Background()

	result, err := svc.CreateReorder(ctx, CreateReorderInput{ProductID: 1, LocationID: 10, Quantity: 20, RequestedBy: "admin"})
	require.NoError(t, err)

	_, err = svc.ReceiveReorder(ctx, result.Request.ID, 20)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReceiveFullFlow(t *testing.T) {
	repo := newMemoryRepo()
	catalog := newStubCatalog()
	seedCatalog(catalog)
	svc := newTestService(repo, catalog)
	ctx := context.Background()

	result, err := svc.CreateReorder(ctx, CreateReorderInput{ProductID: 1, LocationID: 10, Quantity: 20, RequestedBy: "admin"})
	require.NoError(t, err)
	id := result.Request.ID
	require.NoError(t, svc.ApproveReorder(ctx, id, "admin"))

	received, err := svc.ReceiveReorder(ctx, id, 15)
	require.NoError(t, err)
	require.Equal(t, StatusReceived, received.Request.Status)
	require.EqualValues(t, 15, received.Request.QuantityReceived)
	// 15/20 = 75%, above the partial-shipment threshold.
	require.Empty(t, received.Advisories)

	level, err := svc.GetStockLevel(ctx, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 15, level.Quantity)

	// Terminal state: no further receives.
	_, err = svc.ReceiveReorder(ctx, id, 5)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReceivePartialShipmentWarning(t *testing.T) {
	repo := newMemoryRepo()
	catalog := newStubCatalog()
	seedCatalog(catalog)
	svc := newTestService(repo, catalog)
	ctx := context.Background()

	result, err := svc.CreateReorder(ctx, CreateReorderInput{ProductID: 1, LocationID: 10, Quantity: 20, RequestedBy: "admin"})
	require.NoError(t, err)
	require.NoError(t, svc.ApproveReorder(ctx, result.Request.ID, "admin"))

	received, err := svc.ReceiveReorder(ctx, result.Request.ID, 5)
	require.NoError(t, err)
	require.Equal(t, StatusReceived, received.Request.Status)
	require.Len(t, received.Advisories, 1)
	require.Equal(t, AdvisoryPartialReceipt, received.Advisories[0].Code)

	level, err := svc.GetStockLevel(ctx, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 5, level.Quantity)
}

func TestReceiveQuantityExceedsOrder(t *testing.T) {
	repo := newMemoryRepo()
	catalog := newStubCatalog()
	seedCatalog(catalog)
	svc := newTestService(repo, catalog)
	ctx := context.Background()

	result, err := svc.CreateReorder(ctx, CreateReorderInput{ProductID: 1, LocationID: 10, Quantity: 20, RequestedBy: "admin"})
	require.NoError(t, err)
	id := result.Request.ID
	require.NoError(t, svc.ApproveReorder(ctx, id, "admin"))

	_, err = svc.ReceiveReorder(ctx, id, 21)
	require.ErrorIs(t, err, ErrQuantityExceedsOrder)

	// No partial effect: status untouched, stock untouched.
	request, err := svc.GetReorder(ctx, id)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, request.Status)
	require.Zero(t, request.QuantityReceived)
	level, err := svc.GetStockLevel(ctx, 1, 10)
	require.NoError(t, err)
	require.Zero(t, level.Quantity)
}

func TestReceiveRollsBackWhenStockWriteFails(t *testing.T) {
	repo := newMemoryRepo()
	catalog := newStubCatalog()
	seedCatalog(catalog)
	svc := newTestService(repo, catalog)
	ctx := context.Background()

	result, err := svc.CreateReorder(ctx, CreateReorderInput{ProductID: 1, LocationID: 10, Quantity: 20, RequestedBy: "admin"})
	require.NoError(t, err)
	id := result.Request.ID
	require.NoError(t, svc.ApproveReorder(ctx, id, "admin"))

	repo.failStockUpsert = true
	_, err = svc.ReceiveReorder(ctx, id, 10)
	require.Error(t, err)

	request, err := svc.GetReorder(ctx, id)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, request.Status)
	require.Zero(t, request.QuantityReceived)
	level, err := svc.GetStockLevel(ctx, 1, 10)
	require.NoError(t, err)
	require.Zero(t, level.Quantity)
}

func TestRejectAppendsNotes(t *testing.T) {
	repo := newMemoryRepo()
	catalog := newStubCatalog()
	seedCatalog(catalog)
	svc := newTestService(repo, catalog)
	ctx := context.Background()

	result, err := svc.CreateReorder(ctx, CreateReorderInput{
		ProductID: 1, LocationID: 10, Quantity: 20, Notes: "Urgent restock", RequestedBy: "admin",
	})
	require.NoError(t, err)
	id := result.Request.ID

	require.NoError(t, svc.RejectReorder(ctx, id, "finance", "Budget frozen"))
	request, err := svc.GetReorder(ctx, id)
	require.NoError(t, err)
	require.Equal(t, StatusRejected, request.Status)
	require.Contains(t, request.Notes, "Urgent restock")
	require.Contains(t, request.Notes, "Rejected by: finance")
	require.Contains(t, request.Notes, "Reason: Budget frozen")

	// Rejected is terminal.
	require.ErrorIs(t, svc.ApproveReorder(ctx, id, "manager"), ErrInvalidTransition)
}

func TestAdjustStock(t *testing.T) {
	repo := newMemoryRepo()
	catalog := newStubCatalog()
	seedCatalog(catalog)
	svc := newTestService(repo, catalog)
	ctx := context.Background()

	level, err := svc.AdjustStock(ctx, AdjustStockInput{ProductID: 1, LocationID: 10, Delta: 30, Reason: "initial count", Actor: "admin"})
	require.NoError(t, err)
	require.EqualValues(t, 30, level.Quantity)

	level, err = svc.AdjustStock(ctx, AdjustStockInput{ProductID: 1, LocationID: 10, Delta: -10, Reason: "damaged", Actor: "admin"})
	require.NoError(t, err)
	require.EqualValues(t, 20, level.Quantity)

	_, err = svc.AdjustStock(ctx, AdjustStockInput{ProductID: 1, LocationID: 10, Delta: -21, Reason: "oops", Actor: "admin"})
	require.ErrorIs(t, err, ErrNegativeStock)

	_, err = svc.AdjustStock(ctx, AdjustStockInput{ProductID: 1, LocationID: 10, Delta: 10001, Reason: "bulk", Actor: "admin"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestListLowStock(t *testing.T) {
	repo := newMemoryRepo()
	catalog := newStubCatalog()
	seedCatalog(catalog)
	catalog.products[2] = ProductInfo{ID: 2, SKU: "SUP-0002", Name: "Creatine 500g", Price: 25, CostPrice: 8, ReorderPoint: 3, ReorderQty: 10, Active: true}
	catalog.products[3] = ProductInfo{ID: 3, SKU: "SUP-0003", Name: "Retired Shaker", Price: 9, CostPrice: 2, ReorderPoint: 3, ReorderQty: 10, Active: false}
	catalog.locations[11] = true
	svc := newTestService(repo, catalog)
	ctx := context.Background()

	// Product 1 sits exactly at its reorder point at location 10 and well
	// above it at location 11. Product 2 has no stock row anywhere.
	repo.stock[stockKey(1, 10)] = StockLevel{ProductID: 1, LocationID: 10, Quantity: 5}
	repo.stock[stockKey(1, 11)] = StockLevel{ProductID: 1, LocationID: 11, Quantity: 50}
	repo.stock[stockKey(3, 10)] = StockLevel{ProductID: 3, LocationID: 10, Quantity: 0}

	items, err := svc.ListLowStock(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byProduct := map[int64]LowStockItem{}
	for _, item := range items {
		require.EqualValues(t, 10, item.LocationID)
		byProduct[item.ProductID] = item
	}
	// At-threshold counts as low.
	require.EqualValues(t, 5, byProduct[1].Quantity)
	require.EqualValues(t, 5, byProduct[1].ReorderPoint)
	// Missing stock row counts as zero on hand.
	require.EqualValues(t, 0, byProduct[2].Quantity)
	require.Equal(t, "SUP-0002", byProduct[2].ProductSKU)
	// Inactive products never surface even at zero stock.
	require.NotContains(t, byProduct, int64(3))

	// Without a location filter product 2 is low at both locations while
	// product 1 is only low where its quantity sits at the threshold.
	items, err = svc.ListLowStock(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
}

func TestTransitionUpdatesRequirePriorStatus(t *testing.T) {
	repo := newMemoryRepo()
	catalog := newStubCatalog()
	seedCatalog(catalog)
	svc := newTestService(repo, catalog)
	ctx := context.Background()

	result, err := svc.CreateReorder(ctx, CreateReorderInput{ProductID: 1, LocationID: 10, Quantity: 20, RequestedBy: "admin"})
	require.NoError(t, err)
	id := result.Request.ID
	require.NoError(t, svc.ApproveReorder(ctx, id, "manager"))

	// A writer that read the request as pending before the approval
	// committed must match zero rows, not overwrite the approver.
	err = repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.SetApproval(ctx, id, "straggler", time.Now().UTC())
	})
	require.ErrorIs(t, err, ErrInvalidTransition)

	request, err := svc.GetReorder(ctx, id)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, request.Status)
	require.Equal(t, "manager", request.ApprovedBy)

	// Rejection and receipt carry the same guard.
	err = repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.SetRejection(ctx, id, "late objection")
	})
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.ReceiveReorder(ctx, id, 20)
	require.NoError(t, err)
	err = repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.SetReceived(ctx, id, 20, time.Now().UTC())
	})
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSuggestReorder(t *testing.T) {
	repo := newMemoryRepo()
	catalog := newStubCatalog()
	seedCatalog(catalog)
	svc := newTestService(repo, catalog)
	ctx := context.Background()

	request, created, err := svc.SuggestReorder(ctx, 1, 10)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, StatusPending, request.Status)
	require.EqualValues(t, 20, request.Quantity)
	require.Equal(t, "system", request.RequestedBy)

	// An open request suppresses further suggestions for the pair.
	_, created, err = svc.SuggestReorder(ctx, 1, 10)
	require.NoError(t, err)
	require.False(t, created)

	// Inactive products are never auto-ordered.
	catalog.products[3] = ProductInfo{ID: 3, SKU: "SUP-0002", Name: "Shaker", CostPrice: 2, Price: 6, ReorderQty: 50, Active: false}
	_, created, err = svc.SuggestReorder(ctx, 3, 10)
	require.NoError(t, err)
	require.False(t, created)
}

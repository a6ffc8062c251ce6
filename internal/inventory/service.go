package inventory

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/fitdesk/fitdesk/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetReorder(ctx context.Context, id int64) (ReorderRequest, error)
	ListReorders(ctx context.Context, filter ReorderFilter) ([]ReorderListItem, error)
	GetStockLevel(ctx context.Context, productID, locationID int64) (StockLevel, error)
	ListLowStock(ctx context.Context, locationID int64) ([]LowStockItem, error)
	HasOpenReorder(ctx context.Context, productID, locationID int64) (bool, error)
	Stats(ctx context.Context, now time.Time) (ReorderStats, error)
}

// CatalogPort exposes the product/location/vendor lookups the engine depends on.
type CatalogPort interface {
	ProductInfo(ctx context.Context, id int64) (ProductInfo, error)
	LocationExists(ctx context.Context, id int64) (bool, error)
	VendorExists(ctx context.Context, id int64) (bool, error)
}

// AuditPort reused from shared.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// MetricsPort records lifecycle observations.
type MetricsPort interface {
	ObserveReorderTransition(action string)
	ObserveStockReceived(qty int64)
}

// ServiceConfig groups business thresholds. Zero values fall back to the
// reference behaviour.
type ServiceConfig struct {
	// MaxOrderQuantity bounds admin-entered reorder quantities.
	MaxOrderQuantity int64
	// MaxAdjustQuantity bounds direct stock adjustments.
	MaxAdjustQuantity int64
	// PartialReceiptRatio is the share of the ordered quantity below which a
	// receipt is flagged as a partial shipment.
	PartialReceiptRatio float64
	// NumberPrefix and NumberWidth control request number formatting.
	NumberPrefix string
	NumberWidth  int
}

const (
	defaultMaxOrderQuantity  = 1000
	defaultMaxAdjustQuantity = 10000
	defaultPartialRatio      = 0.5
	defaultNumberPrefix      = "RO"
	defaultNumberWidth       = 4

	reorderSequence = "reorder_request"
)

// Service orchestrates the reorder lifecycle and stock reconciliation.
type Service struct {
	repo        RepositoryPort
	catalog     CatalogPort
	audit       AuditPort
	metrics     MetricsPort
	idempotency *shared.IdempotencyStore
	cfg         ServiceConfig
}

// NewService constructs the lifecycle engine.
func NewService(repo RepositoryPort, catalog CatalogPort, audit AuditPort, metrics MetricsPort, idem *shared.IdempotencyStore, cfg ServiceConfig) *Service {
	if cfg.MaxOrderQuantity <= 0 {
		cfg.MaxOrderQuantity = defaultMaxOrderQuantity
	}
	if cfg.MaxAdjustQuantity <= 0 {
		cfg.MaxAdjustQuantity = defaultMaxAdjustQuantity
	}
	if cfg.PartialReceiptRatio <= 0 {
		cfg.PartialReceiptRatio = defaultPartialRatio
	}
	if cfg.NumberPrefix == "" {
		cfg.NumberPrefix = defaultNumberPrefix
	}
	if cfg.NumberWidth <= 0 {
		cfg.NumberWidth = defaultNumberWidth
	}
	return &Service{repo: repo, catalog: catalog, audit: audit, metrics: metrics, idempotency: idem, cfg: cfg}
}

// CreateReorderInput describes a restock intent.
type CreateReorderInput struct {
	ProductID   int64
	LocationID  int64
	VendorID    int64
	Quantity    int64
	Notes       string
	RequestedBy string
}

// CreateResult carries the persisted request plus any advisories.
type CreateResult struct {
	Request    ReorderRequest
	Advisories []Advisory
}

// CreateReorder validates references, snapshots the product cost and inserts a
// pending ledger row. Stock is untouched until receipt.
func (s *Service) CreateReorder(ctx context.Context, input CreateReorderInput) (CreateResult, error) {
	if input.Quantity < 1 || input.Quantity > s.cfg.MaxOrderQuantity {
		return CreateResult{}, fmt.Errorf("%w: quantity must be between 1 and %d", ErrValidation, s.cfg.MaxOrderQuantity)
	}
	if input.RequestedBy == "" {
		return CreateResult{}, fmt.Errorf("%w: requester identity required", ErrValidation)
	}
	product, err := s.catalog.ProductInfo(ctx, input.ProductID)
	if err != nil {
		return CreateResult{}, err
	}
	ok, err := s.catalog.LocationExists(ctx, input.LocationID)
	if err != nil {
		return CreateResult{}, err
	}
	if !ok {
		return CreateResult{}, fmt.Errorf("%w: location %d", ErrNotFound, input.LocationID)
	}
	if input.VendorID != 0 {
		ok, err := s.catalog.VendorExists(ctx, input.VendorID)
		if err != nil {
			return CreateResult{}, err
		}
		if !ok {
			return CreateResult{}, fmt.Errorf("%w: vendor %d", ErrNotFound, input.VendorID)
		}
	}

	unitCost := product.CostPrice
	request := ReorderRequest{
		ProductID:   input.ProductID,
		LocationID:  input.LocationID,
		VendorID:    input.VendorID,
		Quantity:    input.Quantity,
		UnitCost:    unitCost,
		TotalCost:   round2(unitCost * float64(input.Quantity)),
		Status:      StatusPending,
		RequestedBy: input.RequestedBy,
		Notes:       input.Notes,
		CreatedAt:   time.Now().UTC(),
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		seq, err := tx.NextSequence(ctx, reorderSequence)
		if err != nil {
			return err
		}
		request.Number = shared.FormatNumber(s.cfg.NumberPrefix, s.cfg.NumberWidth, seq)
		id, err := tx.InsertReorder(ctx, request)
		if err != nil {
			return err
		}
		request.ID = id
		return nil
	})
	if err != nil {
		return CreateResult{}, err
	}

	var advisories []Advisory
	if unitCost > product.Price && product.Price > 0 {
		advisories = append(advisories, Advisory{
			Code:    AdvisoryCostAbovePrice,
			Message: fmt.Sprintf("unit cost %.2f exceeds selling price %.2f for %s", unitCost, product.Price, product.SKU),
		})
	}
	s.recordAudit(ctx, input.RequestedBy, "REORDER_CREATE", request.ID, map[string]any{
		"number": request.Number, "product_id": request.ProductID, "quantity": request.Quantity,
	})
	s.observe("create")
	return CreateResult{Request: request, Advisories: advisories}, nil
}

// ApproveReorder transitions pending -> approved and records the approver.
// Approval is an authorization gate only; stock stays untouched.
func (s *Service) ApproveReorder(ctx context.Context, id int64, approvedBy string) error {
	if approvedBy == "" {
		return fmt.Errorf("%w: approver identity required", ErrValidation)
	}
	request, err := s.repo.GetReorder(ctx, id)
	if err != nil {
		return err
	}
	if request.Status != StatusPending {
		return fmt.Errorf("%w: only pending requests can be approved, request %s is %s", ErrInvalidTransition, request.Number, request.Status)
	}
	now := time.Now().UTC()
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.SetApproval(ctx, id, approvedBy, now)
	})
	if err != nil {
		return err
	}
	s.recordAudit(ctx, approvedBy, "REORDER_APPROVE", id, map[string]any{"number": request.Number})
	s.observe("approve")
	return nil
}

// RejectReorder transitions pending -> rejected, appending the reason to the
// notes trail rather than overwriting prior annotations.
func (s *Service) RejectReorder(ctx context.Context, id int64, rejectedBy, reason string) error {
	if rejectedBy == "" {
		return fmt.Errorf("%w: rejecter identity required", ErrValidation)
	}
	request, err := s.repo.GetReorder(ctx, id)
	if err != nil {
		return err
	}
	if request.Status != StatusPending {
		return fmt.Errorf("%w: only pending requests can be rejected, request %s is %s", ErrInvalidTransition, request.Number, request.Status)
	}
	notes := request.Notes
	if notes != "" {
		notes += "\n"
	}
	notes += fmt.Sprintf("Rejected by: %s\nReason: %s", rejectedBy, reason)
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.SetRejection(ctx, id, notes)
	})
	if err != nil {
		return err
	}
	s.recordAudit(ctx, rejectedBy, "REORDER_REJECT", id, map[string]any{"number": request.Number, "reason": reason})
	s.observe("reject")
	return nil
}

// ReceiveResult carries the updated request and any advisories.
type ReceiveResult struct {
	Request    ReorderRequest
	Advisories []Advisory
}

// ReceiveReorder transitions approved -> received and reconciles stock.
// The status update and the stock increment commit in one transaction:
// a failure in either leaves both untouched.
func (s *Service) ReceiveReorder(ctx context.Context, id int64, quantityReceived int64) (ReceiveResult, error) {
	if quantityReceived < 1 {
		return ReceiveResult{}, fmt.Errorf("%w: received quantity must be positive", ErrValidation)
	}
	request, err := s.repo.GetReorder(ctx, id)
	if err != nil {
		return ReceiveResult{}, err
	}
	if request.Status != StatusApproved {
		return ReceiveResult{}, fmt.Errorf("%w: only approved requests can be received, request %s is %s", ErrInvalidTransition, request.Number, request.Status)
	}
	if quantityReceived > request.Quantity {
		return ReceiveResult{}, fmt.Errorf("%w: %d > %d on request %s", ErrQuantityExceedsOrder, quantityReceived, request.Quantity, request.Number)
	}

	key := uuid.NewSHA1(uuid.Nil, []byte(fmt.Sprintf("RECEIVE:%s", request.Number))).String()
	inserted := false
	if s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, key, "inventory.receive"); err != nil {
			return ReceiveResult{}, err
		}
		inserted = true
	}

	now := time.Now().UTC()
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.SetReceived(ctx, id, quantityReceived, now); err != nil {
			return err
		}
		return tx.UpsertStockLevel(ctx, request.ProductID, request.LocationID, quantityReceived, now)
	})
	if err != nil {
		if inserted {
			_ = s.idempotency.Delete(ctx, key)
		}
		return ReceiveResult{}, err
	}

	request.Status = StatusReceived
	request.QuantityReceived = quantityReceived
	request.ReceivedAt = now

	var advisories []Advisory
	if ratio := float64(quantityReceived) / float64(request.Quantity); ratio < s.cfg.PartialReceiptRatio {
		advisories = append(advisories, Advisory{
			Code:    AdvisoryPartialReceipt,
			Message: fmt.Sprintf("received %d of %d ordered units (%.0f%%)", quantityReceived, request.Quantity, ratio*100),
		})
	}
	s.recordAudit(ctx, request.RequestedBy, "REORDER_RECEIVE", id, map[string]any{
		"number": request.Number, "quantity_received": quantityReceived,
	})
	s.observe("receive")
	if s.metrics != nil {
		s.metrics.ObserveStockReceived(quantityReceived)
	}
	return ReceiveResult{Request: request, Advisories: advisories}, nil
}

// GetReorder fetches a single ledger row.
func (s *Service) GetReorder(ctx context.Context, id int64) (ReorderRequest, error) {
	return s.repo.GetReorder(ctx, id)
}

// ListReorders returns requests matching the filter, actionable first:
// pending, then approved, received, rejected, newest first within each bucket.
func (s *Service) ListReorders(ctx context.Context, filter ReorderFilter) ([]ReorderListItem, error) {
	if filter.Status != "" {
		switch filter.Status {
		case StatusPending, StatusApproved, StatusRejected, StatusReceived:
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, filter.Status)
		}
	}
	return s.repo.ListReorders(ctx, filter)
}

// Stats computes ledger aggregates on demand.
func (s *Service) Stats(ctx context.Context) (ReorderStats, error) {
	return s.repo.Stats(ctx, time.Now().UTC())
}

// GetStockLevel returns the stock row for (product, location); a missing row
// reads as zero quantity.
func (s *Service) GetStockLevel(ctx context.Context, productID, locationID int64) (StockLevel, error) {
	if productID <= 0 || locationID <= 0 {
		return StockLevel{}, fmt.Errorf("%w: product and location required", ErrValidation)
	}
	return s.repo.GetStockLevel(ctx, productID, locationID)
}

// ListLowStock reports products at or below their reorder point.
// locationID zero means all locations.
func (s *Service) ListLowStock(ctx context.Context, locationID int64) ([]LowStockItem, error) {
	return s.repo.ListLowStock(ctx, locationID)
}

// AdjustStockInput describes a direct stock correction outside the reorder path.
type AdjustStockInput struct {
	ProductID  int64
	LocationID int64
	Delta      int64
	Reason     string
	Actor      string
}

// AdjustStock applies a manual correction. Quantity can never go negative.
func (s *Service) AdjustStock(ctx context.Context, input AdjustStockInput) (StockLevel, error) {
	if input.Delta == 0 || absInt64(input.Delta) > s.cfg.MaxAdjustQuantity {
		return StockLevel{}, fmt.Errorf("%w: adjustment magnitude must be between 1 and %d units", ErrValidation, s.cfg.MaxAdjustQuantity)
	}
	if input.Actor == "" {
		return StockLevel{}, fmt.Errorf("%w: actor identity required", ErrValidation)
	}
	product, err := s.catalog.ProductInfo(ctx, input.ProductID)
	if err != nil {
		return StockLevel{}, err
	}
	ok, err := s.catalog.LocationExists(ctx, input.LocationID)
	if err != nil {
		return StockLevel{}, err
	}
	if !ok {
		return StockLevel{}, fmt.Errorf("%w: location %d", ErrNotFound, input.LocationID)
	}

	var level StockLevel
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetStockForUpdate(ctx, input.ProductID, input.LocationID)
		if err != nil {
			return err
		}
		if current.Quantity+input.Delta < 0 {
			return fmt.Errorf("%w: %d%+d for %s", ErrNegativeStock, current.Quantity, input.Delta, product.SKU)
		}
		if err := tx.UpsertStockLevel(ctx, input.ProductID, input.LocationID, input.Delta, time.Now().UTC()); err != nil {
			return err
		}
		level = current
		level.ProductID = input.ProductID
		level.LocationID = input.LocationID
		level.Quantity = current.Quantity + input.Delta
		return nil
	})
	if err != nil {
		return StockLevel{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Actor:    input.Actor,
			Action:   "STOCK_ADJUST",
			Entity:   "stock_level",
			EntityID: fmt.Sprintf("%d:%d", input.ProductID, input.LocationID),
			Meta:     map[string]any{"delta": input.Delta, "reason": input.Reason},
		})
	}
	return level, nil
}

// SuggestReorder creates a pending request for a low-stock product unless an
// open (pending or approved) request already covers the pair. Returns false
// when nothing was created.
func (s *Service) SuggestReorder(ctx context.Context, productID, locationID int64) (ReorderRequest, bool, error) {
	product, err := s.catalog.ProductInfo(ctx, productID)
	if err != nil {
		return ReorderRequest{}, false, err
	}
	if !product.Active || product.ReorderQty < 1 {
		return ReorderRequest{}, false, nil
	}
	open, err := s.repo.HasOpenReorder(ctx, productID, locationID)
	if err != nil {
		return ReorderRequest{}, false, err
	}
	if open {
		return ReorderRequest{}, false, nil
	}
	qty := product.ReorderQty
	if qty > s.cfg.MaxOrderQuantity {
		qty = s.cfg.MaxOrderQuantity
	}
	result, err := s.CreateReorder(ctx, CreateReorderInput{
		ProductID:   productID,
		LocationID:  locationID,
		Quantity:    qty,
		Notes:       fmt.Sprintf("Auto-suggested: stock at or below reorder point %d", product.ReorderPoint),
		RequestedBy: "system",
	})
	if err != nil {
		return ReorderRequest{}, false, err
	}
	return result.Request, true, nil
}

func (s *Service) recordAudit(ctx context.Context, actor, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Actor:    actor,
		Action:   action,
		Entity:   "reorder_request",
		EntityID: fmt.Sprintf("%d", entityID),
		Meta:     meta,
	})
}

func (s *Service) observe(action string) {
	if s.metrics != nil {
		s.metrics.ObserveReorderTransition(action)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

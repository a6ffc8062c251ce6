package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitdesk/fitdesk/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
	seq  *shared.Sequence
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool, seq *shared.Sequence) *Repository {
	return &Repository{pool: pool, seq: seq}
}

// TxRepository exposes transactional operations.
type TxRepository interface {
	NextSequence(ctx context.Context, name string) (int64, error)
	InsertReorder(ctx context.Context, r ReorderRequest) (int64, error)
	SetApproval(ctx context.Context, id int64, approvedBy string, approvedAt time.Time) error
	SetRejection(ctx context.Context, id int64, notes string) error
	SetReceived(ctx context.Context, id int64, quantityReceived int64, receivedAt time.Time) error
	GetStockForUpdate(ctx context.Context, productID, locationID int64) (StockLevel, error)
	UpsertStockLevel(ctx context.Context, productID, locationID, delta int64, restockedAt time.Time) error
}

type txRepo struct {
	tx  pgx.Tx
	seq *shared.Sequence
}

// WithTx wraps callback in repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepo{tx: tx, seq: r.seq}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

const reorderColumns = `id, number, product_id, location_id, COALESCE(vendor_id,0), quantity,
unit_cost, total_cost, status, requested_by, COALESCE(approved_by,''),
COALESCE(approved_at,'epoch'::timestamptz), COALESCE(quantity_received,0),
COALESCE(received_at,'epoch'::timestamptz), notes, created_at`

func scanReorder(row pgx.Row) (ReorderRequest, error) {
	var r ReorderRequest
	err := row.Scan(&r.ID, &r.Number, &r.ProductID, &r.LocationID, &r.VendorID, &r.Quantity,
		&r.UnitCost, &r.TotalCost, &r.Status, &r.RequestedBy, &r.ApprovedBy,
		&r.ApprovedAt, &r.QuantityReceived, &r.ReceivedAt, &r.Notes, &r.CreatedAt)
	return r, err
}

// GetReorder fetches one ledger row by id.
func (r *Repository) GetReorder(ctx context.Context, id int64) (ReorderRequest, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+reorderColumns+` FROM reorder_requests WHERE id=$1`, id)
	request, err := scanReorder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReorderRequest{}, ErrNotFound
		}
		return ReorderRequest{}, err
	}
	return request, nil
}

// ListReorders returns filtered rows joined with display attributes, ordered
// by status priority (pending, approved, received, rejected) then newest first.
func (r *Repository) ListReorders(ctx context.Context, filter ReorderFilter) ([]ReorderListItem, error) {
	query := `SELECT rr.id, rr.number, rr.product_id, rr.location_id, COALESCE(rr.vendor_id,0), rr.quantity,
rr.unit_cost, rr.total_cost, rr.status, rr.requested_by, COALESCE(rr.approved_by,''),
COALESCE(rr.approved_at,'epoch'::timestamptz), COALESCE(rr.quantity_received,0),
COALESCE(rr.received_at,'epoch'::timestamptz), rr.notes, rr.created_at,
p.name, p.sku, l.name, COALESCE(v.name,'')
FROM reorder_requests rr
JOIN products p ON p.id = rr.product_id
JOIN locations l ON l.id = rr.location_id
LEFT JOIN vendors v ON v.id = rr.vendor_id
WHERE 1=1`
	args := []any{}
	argNum := 1
	if filter.Status != "" {
		query += ` AND rr.status = $` + itoa(argNum)
		args = append(args, string(filter.Status))
		argNum++
	}
	if filter.LocationID > 0 {
		query += ` AND rr.location_id = $` + itoa(argNum)
		args = append(args, filter.LocationID)
		argNum++
	}
	if !filter.DateFrom.IsZero() {
		query += ` AND rr.created_at >= $` + itoa(argNum)
		args = append(args, filter.DateFrom)
		argNum++
	}
	if !filter.DateTo.IsZero() {
		query += ` AND rr.created_at <= $` + itoa(argNum)
		args = append(args, filter.DateTo)
		argNum++
	}
	query += ` ORDER BY CASE rr.status
WHEN 'pending' THEN 0 WHEN 'approved' THEN 1 WHEN 'received' THEN 2 ELSE 3 END,
rr.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ReorderListItem
	for rows.Next() {
		var item ReorderListItem
		if err := rows.Scan(&item.ID, &item.Number, &item.ProductID, &item.LocationID, &item.VendorID,
			&item.Quantity, &item.UnitCost, &item.TotalCost, &item.Status, &item.RequestedBy,
			&item.ApprovedBy, &item.ApprovedAt, &item.QuantityReceived, &item.ReceivedAt,
			&item.Notes, &item.CreatedAt,
			&item.ProductName, &item.ProductSKU, &item.LocationName, &item.VendorName); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetStockLevel reads one stock row; absence is a zero-quantity row.
func (r *Repository) GetStockLevel(ctx context.Context, productID, locationID int64) (StockLevel, error) {
	level := StockLevel{ProductID: productID, LocationID: locationID}
	err := r.pool.QueryRow(ctx, `SELECT quantity, COALESCE(last_restocked_at,'epoch'::timestamptz)
FROM stock_levels WHERE product_id=$1 AND location_id=$2`, productID, locationID).
		Scan(&level.Quantity, &level.LastRestockedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return level, nil
		}
		return StockLevel{}, err
	}
	return level, nil
}

// ListLowStock reports active products at or below their reorder point.
func (r *Repository) ListLowStock(ctx context.Context, locationID int64) ([]LowStockItem, error) {
	query := `SELECT p.id, p.name, p.sku, l.id, l.name,
COALESCE(sl.quantity,0), p.reorder_point, p.reorder_qty
FROM products p
CROSS JOIN locations l
LEFT JOIN stock_levels sl ON sl.product_id = p.id AND sl.location_id = l.id
WHERE p.active AND COALESCE(sl.quantity,0) <= p.reorder_point`
	args := []any{}
	if locationID > 0 {
		query += ` AND l.id = $1`
		args = append(args, locationID)
	}
	query += ` ORDER BY COALESCE(sl.quantity,0), p.sku`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LowStockItem
	for rows.Next() {
		var item LowStockItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.ProductSKU,
			&item.LocationID, &item.LocationName, &item.Quantity, &item.ReorderPoint, &item.ReorderQty); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// HasOpenReorder reports whether a pending or approved request already covers
// the product/location pair.
func (r *Repository) HasOpenReorder(ctx context.Context, productID, locationID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reorder_requests
WHERE product_id=$1 AND location_id=$2 AND status IN ('pending','approved'))`, productID, locationID).Scan(&exists)
	return exists, err
}

// Stats aggregates ledger state on demand.
func (r *Repository) Stats(ctx context.Context, now time.Time) (ReorderStats, error) {
	var stats ReorderStats
	err := r.pool.QueryRow(ctx, `SELECT
COUNT(*) FILTER (WHERE status='pending'),
COALESCE(SUM(total_cost) FILTER (WHERE status='pending'),0),
COUNT(*) FILTER (WHERE status='received' AND received_at >= $1),
COUNT(*),
COALESCE(SUM(total_cost),0)
FROM reorder_requests`, now.AddDate(0, 0, -7)).
		Scan(&stats.PendingCount, &stats.PendingValue, &stats.ReceivedLast7d, &stats.TotalRequests, &stats.TotalOrderValue)
	return stats, err
}

func (tx *txRepo) NextSequence(ctx context.Context, name string) (int64, error) {
	return tx.seq.NextInTx(ctx, tx.tx, name)
}

func (tx *txRepo) InsertReorder(ctx context.Context, r ReorderRequest) (int64, error) {
	var id int64
	err := tx.tx.QueryRow(ctx, `INSERT INTO reorder_requests
(number, product_id, location_id, vendor_id, quantity, unit_cost, total_cost, status, requested_by, notes, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) RETURNING id`,
		r.Number, r.ProductID, r.LocationID, nullInt(r.VendorID), r.Quantity,
		r.UnitCost, r.TotalCost, string(r.Status), r.RequestedBy, r.Notes, r.CreatedAt).Scan(&id)
	return id, err
}

// The transition updates repeat the status predicate so an overlapping
// writer that committed between our read and this update matches zero rows
// instead of silently overwriting the earlier transition.
func (tx *txRepo) SetApproval(ctx context.Context, id int64, approvedBy string, approvedAt time.Time) error {
	tag, err := tx.tx.Exec(ctx, `UPDATE reorder_requests SET status='approved', approved_by=$1, approved_at=$2
WHERE id=$3 AND status='pending'`, approvedBy, approvedAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: request %d is no longer pending", ErrInvalidTransition, id)
	}
	return nil
}

func (tx *txRepo) SetRejection(ctx context.Context, id int64, notes string) error {
	tag, err := tx.tx.Exec(ctx, `UPDATE reorder_requests SET status='rejected', notes=$1
WHERE id=$2 AND status='pending'`, notes, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: request %d is no longer pending", ErrInvalidTransition, id)
	}
	return nil
}

func (tx *txRepo) SetReceived(ctx context.Context, id int64, quantityReceived int64, receivedAt time.Time) error {
	tag, err := tx.tx.Exec(ctx, `UPDATE reorder_requests SET status='received', quantity_received=$1, received_at=$2
WHERE id=$3 AND status='approved'`, quantityReceived, receivedAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: request %d is not approved", ErrInvalidTransition, id)
	}
	return nil
}

func (tx *txRepo) GetStockForUpdate(ctx context.Context, productID, locationID int64) (StockLevel, error) {
	level := StockLevel{ProductID: productID, LocationID: locationID}
	err := tx.tx.QueryRow(ctx, `SELECT quantity, COALESCE(last_restocked_at,'epoch'::timestamptz)
FROM stock_levels WHERE product_id=$1 AND location_id=$2 FOR UPDATE`, productID, locationID).
		Scan(&level.Quantity, &level.LastRestockedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return level, nil
		}
		return StockLevel{}, err
	}
	return level, nil
}

func (tx *txRepo) UpsertStockLevel(ctx context.Context, productID, locationID, delta int64, restockedAt time.Time) error {
	_, err := tx.tx.Exec(ctx, `INSERT INTO stock_levels (product_id, location_id, quantity, last_restocked_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (product_id, location_id)
DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity, last_restocked_at = EXCLUDED.last_restocked_at`,
		productID, locationID, delta, restockedAt)
	return err
}

// itoa converts int to string for dynamic query building.
func itoa(i int) string {
	return strconv.Itoa(i)
}

func nullInt(value int64) any {
	if value == 0 {
		return nil
	}
	return value
}

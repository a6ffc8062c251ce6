package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Counts(ctx context.Context) (Counts, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM products WHERE active),
			(SELECT COUNT(*) FROM vendors WHERE active),
			(SELECT COUNT(*) FROM locations),
			(SELECT COUNT(*)
			   FROM products p
			   CROSS JOIN locations l
			   LEFT JOIN stock_levels sl ON sl.product_id = p.id AND sl.location_id = l.id
			  WHERE p.active AND COALESCE(sl.quantity, 0) <= p.reorder_point)`

	var c Counts
	err := r.pool.QueryRow(ctx, query).Scan(&c.ActiveProducts, &c.ActiveVendors, &c.Locations, &c.LowStockItems)
	return c, err
}

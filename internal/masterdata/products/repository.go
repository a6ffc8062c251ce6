package products

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitdesk/fitdesk/internal/masterdata/shared"
	"github.com/fitdesk/fitdesk/internal/platform/db"
	"github.com/fitdesk/fitdesk/internal/platform/httpx"
	internalshared "github.com/fitdesk/fitdesk/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id int64, product Product) error
	SetActive(ctx context.Context, id int64, active bool) error

	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
	CreateCategory(ctx context.Context, category Category) (Category, error)
}

type repository struct {
	pool *pgxpool.Pool
	seq  *internalshared.Sequence
}

func NewRepository(pool *pgxpool.Pool, seq *internalshared.Sequence) Repository {
	return &repository{pool: pool, seq: seq}
}

const productColumns = `id, sku, name, category_id, price, cost_price, reorder_point, reorder_qty, active, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	filters.Normalize()

	where := ` WHERE 1=1`
	args := []any{}
	argCount := 0

	if filters.CategoryID != nil {
		argCount++
		where += ` AND category_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.CategoryID)
	}
	if filters.Search != "" {
		argCount++
		where += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR sku ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.IsActive != nil {
		argCount++
		where += ` AND active = $` + strconv.Itoa(argCount)
		args = append(args, *filters.IsActive)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY ` + sortOrder(filters.SortBy, filters.SortDir)
	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	args = append(args, filters.Limit)
	argCount++
	query += ` OFFSET $` + strconv.Itoa(argCount)
	args = append(args, filters.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("%w: product %d", httpx.ErrNotFound, id)
	}
	return p, err
}

// Create assigns the next category-prefixed SKU, inserts the product and
// backfills a zero stock row at every location, all in one transaction.
func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	category, err := r.GetCategory(ctx, product.CategoryID)
	if err != nil {
		return Product{}, err
	}

	now := time.Now().UTC()
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		n, err := r.seq.NextInTx(ctx, tx, "sku:"+category.Code)
		if err != nil {
			return err
		}
		product.SKU = internalshared.FormatNumber(category.Code, 4, n)

		err = tx.QueryRow(ctx,
			`INSERT INTO products (sku, name, category_id, price, cost_price, reorder_point, reorder_qty, active, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id`,
			product.SKU, product.Name, product.CategoryID, product.Price, product.CostPrice,
			product.ReorderPoint, product.ReorderQty, product.Active, now,
		).Scan(&product.ID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO stock_levels (product_id, location_id, quantity)
			 SELECT $1, id, 0 FROM locations
			 ON CONFLICT (product_id, location_id) DO NOTHING`, product.ID)
		return err
	})
	if err != nil {
		return Product{}, mapPgError(err)
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

func (r *repository) Update(ctx context.Context, id int64, product Product) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET name = $1, category_id = $2, price = $3, cost_price = $4, reorder_point = $5, reorder_qty = $6, active = $7, updated_at = $8 WHERE id = $9`,
		product.Name, product.CategoryID, product.Price, product.CostPrice,
		product.ReorderPoint, product.ReorderQty, product.Active, time.Now().UTC(), id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", httpx.ErrNotFound, id)
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", httpx.ErrNotFound, id)
	}
	return nil
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, name, created_at FROM categories ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *repository) GetCategory(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `SELECT id, code, name, created_at FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Code, &c.Name, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, fmt.Errorf("%w: category %d", httpx.ErrNotFound, id)
	}
	return c, err
}

func (r *repository) CreateCategory(ctx context.Context, category Category) (Category, error) {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (code, name, created_at) VALUES ($1, $2, $3) RETURNING id`,
		category.Code, category.Name, now).Scan(&category.ID)
	if err != nil {
		return Category{}, mapPgError(err)
	}
	category.CreatedAt = now
	return category, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.CategoryID, &p.Price, &p.CostPrice,
		&p.ReorderPoint, &p.ReorderQty, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", httpx.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == shared.SortDesc {
		dir = "DESC"
	}
	switch sortBy {
	case "sku":
		return "sku " + dir
	case "price":
		return "price " + dir
	case "cost_price":
		return "cost_price " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}

package vendors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitdesk/fitdesk/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context, activeOnly bool) ([]Vendor, error)
	Get(ctx context.Context, id int64) (Vendor, error)
	Create(ctx context.Context, vendor Vendor) (Vendor, error)
	Update(ctx context.Context, id int64, vendor Vendor) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const vendorColumns = `id, name, contact_name, email, phone, category, payment_terms, active, created_at, updated_at`

func (r *repository) List(ctx context.Context, activeOnly bool) ([]Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Vendor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id)
	v, err := scanVendor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Vendor{}, fmt.Errorf("%w: vendor %d", httpx.ErrNotFound, id)
	}
	return v, err
}

func (r *repository) Create(ctx context.Context, vendor Vendor) (Vendor, error) {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO vendors (name, contact_name, email, phone, category, payment_terms, active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id`,
		vendor.Name, vendor.ContactName, vendor.Email, vendor.Phone, vendor.Category, vendor.PaymentTerms, vendor.Active, now).Scan(&vendor.ID)
	if err != nil {
		return Vendor{}, mapPgError(err)
	}
	vendor.CreatedAt = now
	vendor.UpdatedAt = now
	return vendor, nil
}

func (r *repository) Update(ctx context.Context, id int64, vendor Vendor) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE vendors SET name = $1, contact_name = $2, email = $3, phone = $4, category = $5, payment_terms = $6, active = $7, updated_at = $8 WHERE id = $9`,
		vendor.Name, vendor.ContactName, vendor.Email, vendor.Phone, vendor.Category, vendor.PaymentTerms, vendor.Active, time.Now().UTC(), id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: vendor %d", httpx.ErrNotFound, id)
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE vendors SET active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: vendor %d", httpx.ErrNotFound, id)
	}
	return nil
}

func scanVendor(row pgx.Row) (Vendor, error) {
	var v Vendor
	err := row.Scan(&v.ID, &v.Name, &v.ContactName, &v.Email, &v.Phone, &v.Category, &v.PaymentTerms, &v.Active, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: vendor name", httpx.ErrDuplicate)
	}
	return err
}

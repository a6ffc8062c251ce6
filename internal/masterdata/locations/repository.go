package locations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitdesk/fitdesk/internal/platform/db"
	"github.com/fitdesk/fitdesk/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context) ([]Location, error)
	Get(ctx context.Context, id int64) (Location, error)
	Create(ctx context.Context, location Location) (Location, error)
	Update(ctx context.Context, id int64, location Location) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Location, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, address, active, created_at, updated_at FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.Active, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Location, error) {
	var l Location
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, address, active, created_at, updated_at FROM locations WHERE id = $1`, id).
		Scan(&l.ID, &l.Name, &l.Address, &l.Active, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Location{}, fmt.Errorf("%w: location %d", httpx.ErrNotFound, id)
	}
	return l, err
}

// Create inserts the location and backfills a zero stock row for every
// product in the same transaction, so reconciliation never hits a missing
// (product, location) pair.
func (r *repository) Create(ctx context.Context, location Location) (Location, error) {
	now := time.Now().UTC()
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO locations (name, address, active, created_at, updated_at) VALUES ($1, $2, $3, $4, $4) RETURNING id`,
			location.Name, location.Address, location.Active, now).Scan(&location.ID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO stock_levels (product_id, location_id, quantity)
			 SELECT id, $1, 0 FROM products
			 ON CONFLICT (product_id, location_id) DO NOTHING`, location.ID)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Location{}, fmt.Errorf("%w: location name", httpx.ErrDuplicate)
		}
		return Location{}, err
	}
	location.CreatedAt = now
	location.UpdatedAt = now
	return location, nil
}

func (r *repository) Update(ctx context.Context, id int64, location Location) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE locations SET name = $1, address = $2, active = $3, updated_at = $4 WHERE id = $5`,
		location.Name, location.Address, location.Active, time.Now().UTC(), id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: location name", httpx.ErrDuplicate)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: location %d", httpx.ErrNotFound, id)
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE locations SET active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: location %d", httpx.ErrNotFound, id)
	}
	return nil
}

// Package shared holds cross-domain persistence helpers.
package shared

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Sequence hands out monotonically increasing values from a named counter row.
// Unlike scanning for the current maximum, the counter increment is a single
// atomic statement, so concurrent callers can never observe the same value.
type Sequence struct {
	pool *pgxpool.Pool
}

// NewSequence constructs a Sequence backed by the sequences table.
func NewSequence(pool *pgxpool.Pool) *Sequence {
	return &Sequence{pool: pool}
}

const nextValueSQL = `INSERT INTO sequences (name, value) VALUES ($1, 1)
ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
RETURNING value`

// Next returns the next value for the named counter, creating it at 1 on first use.
func (s *Sequence) Next(ctx context.Context, name string) (int64, error) {
	if s == nil {
		return 0, errors.New("sequence not initialised")
	}
	if name == "" {
		return 0, errors.New("sequence name required")
	}
	var value int64
	if err := s.pool.QueryRow(ctx, nextValueSQL, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("shared: next sequence %s: %w", name, err)
	}
	return value, nil
}

// NextInTx is the transactional variant, used when the formatted identifier
// must be assigned in the same transaction as the row it labels.
func (s *Sequence) NextInTx(ctx context.Context, tx pgx.Tx, name string) (int64, error) {
	if name == "" {
		return 0, errors.New("sequence name required")
	}
	var value int64
	if err := tx.QueryRow(ctx, nextValueSQL, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("shared: next sequence %s: %w", name, err)
	}
	return value, nil
}

// FormatNumber renders a sequence value as a prefixed, zero-padded identifier,
// e.g. FormatNumber("RO", 4, 7) -> "RO-0007".
func FormatNumber(prefix string, width int, value int64) string {
	return fmt.Sprintf("%s-%0*d", prefix, width, value)
}

package repositories

import (
	"context"
	"database/sql"
)

// CounterRepository keeps the per-month post counters. Updates are atomic
// increments so concurrent handlers never lose an adjustment.
type CounterRepository struct {
	db *sql.DB
}

func NewCounterRepository(db *sql.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

func (r *CounterRepository) IncMonthlyCount(ctx context.Context, year, month int) error {
	query := `
        INSERT INTO monthly_post_counts (year, month, count)
        VALUES ($1, $2, 1)
        ON CONFLICT (year, month) DO UPDATE SET count = monthly_post_counts.count + 1
    `
	_, err := r.db.ExecContext(ctx, query, year, month)
	return err
}

func (r *CounterRepository) DecMonthlyCount(ctx context.Context, year, month int) error {
	query := `UPDATE monthly_post_counts SET count = count - 1 WHERE year = $1 AND month = $2`
	_, err := r.db.ExecContext(ctx, query, year, month)
	return err
}

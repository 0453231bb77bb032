package repositories

import (
	"context"
	"database/sql"
	"time"

	models "github.com/hangoctan1012/FaceCookTan/stats/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type SearchRepository struct {
	db *sql.DB
}

func NewSearchRepository(db *sql.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

func (r *SearchRepository) Create(ctx context.Context, search *models.Search) error {
	search.ID = uuid.New().String()
	search.CreatedAt = time.Now()

	query := `
        INSERT INTO searches (id, keyword, types, targets, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := r.db.ExecContext(ctx, query,
		search.ID,
		search.Keyword,
		pq.Array(search.Types),
		pq.Array(search.Targets),
		search.CreatedAt,
	)

	return err
}

// GetTop returns the counter row for a target, or nil when none exists.
func (r *SearchRepository) GetTop(ctx context.Context, target string) (*models.TopSearch, error) {
	query := `
        SELECT id, target, types, count, created_at
        FROM top_searches
        WHERE target = $1
    `

	var top models.TopSearch
	err := r.db.QueryRowContext(ctx, query, target).Scan(
		&top.ID,
		&top.Target,
		pq.Array(&top.Types),
		&top.Count,
		&top.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &top, nil
}

func (r *SearchRepository) CreateTop(ctx context.Context, top *models.TopSearch) error {
	top.ID = uuid.New().String()
	top.CreatedAt = time.Now()

	query := `
        INSERT INTO top_searches (id, target, types, count, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := r.db.ExecContext(ctx, query,
		top.ID,
		top.Target,
		pq.Array(top.Types),
		top.Count,
		top.CreatedAt,
	)

	return err
}

// BumpTop increments the counter atomically and replaces the tag set with
// the merged one.
func (r *SearchRepository) BumpTop(ctx context.Context, target string, types []string) error {
	query := `UPDATE top_searches SET count = count + 1, types = $2 WHERE target = $1`
	_, err := r.db.ExecContext(ctx, query, target, pq.Array(types))
	return err
}

// TopSearches lists the highest counters for the admin dashboard.
func (r *SearchRepository) TopSearches(ctx context.Context, limit int) ([]models.TopSearch, error) {
	query := `
        SELECT id, target, types, count, created_at
        FROM top_searches
        ORDER BY count DESC
        LIMIT $1
    `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tops []models.TopSearch
	for rows.Next() {
		var top models.TopSearch
		err := rows.Scan(
			&top.ID,
			&top.Target,
			pq.Array(&top.Types),
			&top.Count,
			&top.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		tops = append(tops, top)
	}

	return tops, rows.Err()
}

package repositories

import (
	"context"
	"database/sql"
	"time"

	models "github.com/hangoctan1012/FaceCookTan/users/internal/models"

	"github.com/google/uuid"
)

type FollowRepository struct {
	db *sql.DB
}

func NewFollowRepository(db *sql.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// FollowerIDs returns the ids of everyone following the user.
func (r *FollowRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT from_id FROM follows WHERE to_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// FollowingIDs returns the ids of everyone the user follows.
func (r *FollowRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT to_id FROM follows WHERE from_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *FollowRepository) Create(ctx context.Context, follow *models.Follow) error {
	follow.ID = uuid.New().String()
	follow.CreatedAt = time.Now()

	query := `
        INSERT INTO follows (id, from_id, to_id, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (from_id, to_id) DO NOTHING
    `

	_, err := r.db.ExecContext(ctx, query, follow.ID, follow.FromID, follow.ToID, follow.CreatedAt)
	return err
}

func (r *FollowRepository) Delete(ctx context.Context, fromID, toID string) error {
	query := `DELETE FROM follows WHERE from_id = $1 AND to_id = $2`
	_, err := r.db.ExecContext(ctx, query, fromID, toID)
	return err
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM follows WHERE to_id = $1`

	var count int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

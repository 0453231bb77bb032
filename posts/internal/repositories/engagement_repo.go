package repositories

import (
	"context"
	"database/sql"
)

// EngagementRepository covers the like and save rows hanging off a post.
type EngagementRepository struct {
	db *sql.DB
}

func NewEngagementRepository(db *sql.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

func (r *EngagementRepository) DeleteLikesByPost(ctx context.Context, postID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE post_id = $1`, postID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *EngagementRepository) DeleteSavesByPost(ctx context.Context, postID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM saves WHERE post_id = $1`, postID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

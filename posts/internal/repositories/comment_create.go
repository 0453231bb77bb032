package repositories

import (
	"context"
	"time"

	models "github.com/hangoctan1012/FaceCookTan/posts/internal/models"

	"github.com/google/uuid"
)

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = uuid.New().String()
	comment.CreatedAt = time.Now()

	query := `
        INSERT INTO comments (id, post_id, user_id, content, parent_id, depth, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := r.db.ExecContext(ctx, query,
		comment.ID,
		comment.PostID,
		comment.UserID,
		comment.Content,
		comment.ParentID,
		comment.Depth,
		comment.CreatedAt,
	)

	return err
}

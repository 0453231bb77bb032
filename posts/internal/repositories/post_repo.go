package repositories

import (
	"context"
	"database/sql"
	"time"

	models "github.com/hangoctan1012/FaceCookTan/posts/internal/models"

	"github.com/google/uuid"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	post.ID = uuid.New().String()
	post.CreatedAt = time.Now()

	query := `
        INSERT INTO posts (id, user_id, content, comment_count, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.UserID,
		post.Content,
		post.CommentCount,
		post.CreatedAt,
	)

	return err
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `
        SELECT id, user_id, content, comment_count, created_at
        FROM posts
        WHERE id = $1
    `

	var post models.Post
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.UserID,
		&post.Content,
		&post.CommentCount,
		&post.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// Delete removes the post and reports its creation time so the caller can
// adjust the right monthly counter bucket. ok is false when the post was
// already gone.
func (r *PostRepository) Delete(ctx context.Context, id string) (createdAt time.Time, ok bool, err error) {
	query := `DELETE FROM posts WHERE id = $1 RETURNING created_at`

	err = r.db.QueryRowContext(ctx, query, id).Scan(&createdAt)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return createdAt, true, nil
}

// AddCommentCount adjusts the post's comment counter atomically; delta may
// be negative.
func (r *PostRepository) AddCommentCount(ctx context.Context, postID string, delta int) error {
	query := `UPDATE posts SET comment_count = comment_count + $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, postID, delta)
	return err
}

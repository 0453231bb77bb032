package repositories

import (
	"context"
	"database/sql"

	models "github.com/hangoctan1012/FaceCookTan/users/internal/models"

	"github.com/lib/pq"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, username, tags, created_at FROM users WHERE id = $1`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		pq.Array(&user.Tags),
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// PrependTag puts the tag in front of the user's tag list. Returns false
// when the user does not exist.
func (r *UserRepository) PrependTag(ctx context.Context, id, tag string) (bool, error) {
	query := `UPDATE users SET tags = array_prepend($2, tags) WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, tag)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

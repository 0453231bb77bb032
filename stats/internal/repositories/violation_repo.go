package repositories

import (
	"context"
	"database/sql"
	"time"

	models "github.com/hangoctan1012/FaceCookTan/stats/internal/models"

	"github.com/google/uuid"
)

type ViolationRepository struct {
	db *sql.DB
}

func NewViolationRepository(db *sql.DB) *ViolationRepository {
	return &ViolationRepository{db: db}
}

func (r *ViolationRepository) Create(ctx context.Context, v *models.Violation) error {
	v.ID = uuid.New().String()
	v.CreatedAt = time.Now()

	query := `
        INSERT INTO violations (id, user_id, action, type, target, reason, end_flag, expired_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `

	_, err := r.db.ExecContext(ctx, query,
		v.ID,
		v.UserID,
		v.Action,
		v.Type,
		v.Target,
		v.Reason,
		v.End,
		v.ExpiredAt,
		v.CreatedAt,
	)

	return err
}

// LatestActiveBan returns the most recent active ban for (user, kind), or
// nil when the user has none.
func (r *ViolationRepository) LatestActiveBan(ctx context.Context, userID, kind string) (*models.Violation, error) {
	query := `
        SELECT id, user_id, action, type, target, reason, end_flag, expired_at, created_at
        FROM violations
        WHERE user_id = $1 AND action = $2 AND type = $3 AND end_flag = true
        ORDER BY created_at DESC
        LIMIT 1
    `

	var v models.Violation
	err := r.db.QueryRowContext(ctx, query, userID, models.ActionBan, kind).Scan(
		&v.ID,
		&v.UserID,
		&v.Action,
		&v.Type,
		&v.Target,
		&v.Reason,
		&v.End,
		&v.ExpiredAt,
		&v.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &v, nil
}

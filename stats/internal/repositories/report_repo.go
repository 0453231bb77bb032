package repositories

import (
	"context"
	"database/sql"
	"time"

	models "github.com/hangoctan1012/FaceCookTan/stats/internal/models"

	"github.com/google/uuid"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	report.ID = uuid.New().String()
	report.CreatedAt = time.Now()

	query := `
        INSERT INTO reports (id, author, reported_user, type, target, content, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.Author,
		report.ReportedUser,
		report.Type,
		report.Target,
		report.Content,
		report.CreatedAt,
	)

	return err
}

// ListByType returns the newest reports of a kind for the admin
// dashboard; an empty type lists everything.
func (r *ReportRepository) ListByType(ctx context.Context, reportType string, limit int) ([]models.Report, error) {
	query := `
        SELECT id, author, reported_user, type, target, content, created_at
        FROM reports
        WHERE $1 = '' OR type = $1
        ORDER BY created_at DESC
        LIMIT $2
    `

	rows, err := r.db.QueryContext(ctx, query, reportType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var report models.Report
		err := rows.Scan(
			&report.ID,
			&report.Author,
			&report.ReportedUser,
			&report.Type,
			&report.Target,
			&report.Content,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

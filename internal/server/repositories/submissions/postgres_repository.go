package submissions

import (
	"context"
	"fmt"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/dbx"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Submission) (*models.Submission, error) {
	query :=
		`INSERT INTO submissions (id, user_id, service, payload)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, s.ID, s.UserID, s.Service, s.Payload).Scan(&s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) List(ctx context.Context, service string) ([]*models.Submission, error) {
	query :=
		`SELECT id, user_id, service, payload, created_at FROM submissions
		 WHERE ($1 = '' OR service = $1)
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, service)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Submission
	for rows.Next() {
		s := &models.Submission{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.Service, &s.Payload, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) CreateDocument(ctx context.Context, d *models.Document) (*models.Document, error) {
	query :=
		`INSERT INTO documents (id, user_id, object_key, file_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, d.ID, d.UserID, d.ObjectKey, d.FileName).Scan(&d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

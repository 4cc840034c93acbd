package admins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/common"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/dbx"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanAdmin(row *sql.Row) (*models.Admin, error) {
	admin := &models.Admin{}
	err := row.Scan(&admin.ID, &admin.Name, &admin.Email, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return admin, nil
}

func (r *PostgresRepository) Create(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	query :=
		`INSERT INTO admins (id, name, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		admin.ID, admin.Name, admin.Email, admin.PasswordHash).Scan(&admin.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "admins_email_lower_idx") {
			return nil, common.ErrorDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return admin, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query :=
		`SELECT id, name, email, password_hash, created_at FROM admins
		 WHERE LOWER(email) = LOWER($1)
		 `
	return scanAdmin(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	query :=
		`SELECT id, name, email, password_hash, created_at FROM admins
		 WHERE id = $1
		 `
	return scanAdmin(r.db.QueryRowContext(ctx, query, id))
}

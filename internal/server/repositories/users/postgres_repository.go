package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

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

const userColumns = `id, name, email, password_hash, google_id, avatar_url, otp_code, otp_expires_at, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.GoogleID, &user.AvatarURL, &user.OTPCode, &user.OTPExpiresAt, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, name, email, password_hash, google_id, avatar_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.GoogleID, user.AvatarURL).
		Scan(&user.CreatedAt)
	if err != nil {
		// unique_violation on the lower(email) index
		if strings.Contains(err.Error(), "users_email_lower_idx") {
			return nil, common.ErrorDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE LOWER(email) = LOWER($1)
		 `
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE google_id = $1
		 `
	return scanUser(r.db.QueryRowContext(ctx, query, googleID))
}

func (r *PostgresRepository) AttachGoogleID(ctx context.Context, id, googleID, avatarURL string) error {
	query :=
		`UPDATE users SET google_id = $2, avatar_url = $3
		 WHERE id = $1
		 `
	res, err := r.db.ExecContext(ctx, query, id, googleID, avatarURL)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRowAffected(res)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	query :=
		`UPDATE users SET password_hash = $2
		 WHERE id = $1
		 `
	res, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRowAffected(res)
}

func (r *PostgresRepository) SetRecoveryOTP(ctx context.Context, id, code string, expiresAt time.Time) error {
	query :=
		`UPDATE users SET otp_code = $2, otp_expires_at = $3
		 WHERE id = $1
		 `
	res, err := r.db.ExecContext(ctx, query, id, code, expiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRowAffected(res)
}

// ResetPasswordWithOTP is a single-statement compare-and-set: the password is
// replaced and the OTP fields cleared only when the stored code still matches
// and is unexpired. Two concurrent resets cannot both win; the loser sees
// zero rows affected.
func (r *PostgresRepository) ResetPasswordWithOTP(ctx context.Context, id, code string, now time.Time, passwordHash []byte) (bool, error) {
	query :=
		`UPDATE users SET password_hash = $4, otp_code = NULL, otp_expires_at = NULL
		 WHERE id = $1 AND otp_code = $2 AND otp_expires_at >= $3
		 `
	res, err := r.db.ExecContext(ctx, query, id, code, now, passwordHash)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

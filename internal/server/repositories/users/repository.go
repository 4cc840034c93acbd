package users

import (
	"context"
	"time"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	AttachGoogleID(ctx context.Context, id, googleID, avatarURL string) error
	UpdatePassword(ctx context.Context, id string, passwordHash []byte) error
	SetRecoveryOTP(ctx context.Context, id, code string, expiresAt time.Time) error

	// ResetPasswordWithOTP atomically replaces the password hash and clears
	// both OTP fields, but only if the stored code still equals code and has
	// not expired as of now. Returns false when the guard did not match, so
	// concurrent resets cannot partially apply.
	ResetPasswordWithOTP(ctx context.Context, id, code string, now time.Time, passwordHash []byte) (bool, error)
}

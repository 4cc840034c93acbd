package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/common"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/dbx"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/logging"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/config"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/repositories/repomanager"
)

// otpLength is the number of digits in a recovery code.
const otpLength = 6

// Mailer delivers recovery codes out-of-band. Delivery is an external
// collaborator; the flow only produces the code and its expiry.
type Mailer interface {
	SendOTP(ctx context.Context, email, code string, expiresAt time.Time) error
}

// LogMailer is the default Mailer: it logs the dispatch instead of sending.
// Useful for development and as a stand-in until an SMTP collaborator is
// configured.
type LogMailer struct {
	Logger logging.Logger
}

func (m *LogMailer) SendOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	m.Logger.Info(ctx, "dispatching recovery code", "email", email, "expires_at", expiresAt)
	return nil
}

// timeNow is a test seam for the clock.
var timeNow = time.Now

// RecoveryService drives the OTP password-recovery flow: request a code,
// then consume it exactly once to set a new password.
type RecoveryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	mailer      Mailer
	otpValidity time.Duration
	cooldown    time.Duration
	logger      logging.Logger
}

func NewRecoveryService(db *sql.DB, m repomanager.RepositoryManager, mailer Mailer, cfg *config.Config, l logging.Logger) *RecoveryService {
	return &RecoveryService{
		db:          db,
		repomanager: m,
		mailer:      mailer,
		otpValidity: cfg.OTPValidityDuration,
		cooldown:    cfg.OTPResendCooldown,
		logger:      l.With("module", "recovery"),
	}
}

// RequestOTP issues a fresh recovery code for the account behind email.
// An unknown email is NOT an error: the caller gets the same nil result so
// responses cannot be used to probe which emails are registered. A new
// request overwrites any outstanding code. Requests arriving within the
// resend cooldown of the previous issue are absorbed silently.
func (s *RecoveryService) RequestOTP(ctx context.Context, email string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return common.ErrorInternal
	}

	now := timeNow()

	if user.OTPExpiresAt.Valid {
		issuedAt := user.OTPExpiresAt.Time.Add(-s.otpValidity)
		if now.Sub(issuedAt) < s.cooldown {
			s.logger.Info(ctx, "recovery request within cooldown, not reissuing", "user_id", user.ID)
			return nil
		}
	}

	code, err := common.RandNumericCode(otpLength)
	if err != nil {
		return common.ErrorInternal
	}
	expiresAt := now.Add(s.otpValidity)

	if err := repo.SetRecoveryOTP(ctx, user.ID, code, expiresAt); err != nil {
		return common.ErrorInternal
	}

	if err := s.mailer.SendOTP(ctx, user.Email, code, expiresAt); err != nil {
		// The code is already stored; a delivery failure is logged but the
		// caller still gets the uniform success shape.
		s.logger.Error(ctx, "otp delivery failed", "user_id", user.ID, "error", err.Error())
	}

	return nil
}

// ResetPassword consumes an outstanding code. Outcomes:
//   - common.ErrNoActiveRequest: no outstanding code for this account
//   - common.ErrOTPExpired: the code's lifetime has passed
//   - common.ErrOTPMismatch: the submitted code differs (exact string match)
//
// On success the new password hash is written and both OTP fields cleared in
// one compare-and-set, inside a transaction, so two concurrent resets cannot
// interleave: the loser of the race observes no matching row and fails.
func (s *RecoveryService) ResetPassword(ctx context.Context, email, submittedOTP, newPassword string) error {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrNoActiveRequest
		}
		return common.ErrorInternal
	}

	if !user.OTPCode.Valid || !user.OTPExpiresAt.Valid {
		return common.ErrNoActiveRequest
	}

	now := timeNow()
	if now.After(user.OTPExpiresAt.Time) {
		return common.ErrOTPExpired
	}

	if user.OTPCode.String != submittedOTP {
		return common.ErrOTPMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrorInternal
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := s.repomanager.Users(tx)
		ok, err := txRepo.ResetPasswordWithOTP(ctx, user.ID, submittedOTP, now, hash)
		if err != nil {
			return fmt.Errorf("error resetting password: %w", err)
		}
		if !ok {
			// A concurrent reset or re-request won between our read and the
			// compare-and-set.
			return common.ErrNoActiveRequest
		}
		return nil
	})
}

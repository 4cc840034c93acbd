// Package services contains server-side business logic. This file implements
// AuthService: password verification, registration, and session-token
// minting for both principal classes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/common"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/config"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/models"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/repositories/repomanager"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/token"
)

// dummyHash is compared against when the email is unknown, so the
// failure path costs the same as a wrong password and responses stay
// uniform for unknown and known emails.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("invalid-password-placeholder"), bcrypt.DefaultCost)

// AuthService provides credential operations:
//   - Login / AdminLogin: verify credentials and mint a class-bound token
//   - Register: create a user account with a hashed password
//   - SetPassword: authenticated self-service password change
//   - Me: principal summary for the client session context
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	secretKey   []byte
	tokenTTL    time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		secretKey:   []byte(cfg.SecretKey),
		tokenTTL:    cfg.TokenValidityDuration,
	}
}

// Register creates a user with a bcrypt password hash and returns a
// user-class token. A duplicate email surfaces as common.ErrorDuplicate.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			return "", common.ErrorDuplicate
		}
		return "", fmt.Errorf("error creating user: %w", err)
	}

	return token.Issue(user.ID, token.ClassUser, s.secretKey, s.tokenTTL)
}

// Login verifies a user's email+password and mints a user-class token.
// Unknown email and wrong password both return common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.VerifyPassword(ctx, email, password)
	if err != nil {
		return "", err
	}
	return token.Issue(user.ID, token.ClassUser, s.secretKey, s.tokenTTL)
}

// AdminLogin verifies admin credentials and mints an admin-class token.
// Admin entries are checked independently of the users table.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Admins(s.db)
	admin, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", common.ErrInvalidCredentials
		}
		return "", common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(admin.PasswordHash, []byte(password)) != nil {
		return "", common.ErrInvalidCredentials
	}

	return token.Issue(admin.ID, token.ClassAdmin, s.secretKey, s.tokenTTL)
}

// VerifyPassword looks a user up by case-insensitive email and checks the
// password. The error is the same whether the email is unknown, the account
// is federated-only, or the password is wrong.
func (s *AuthService) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !user.HasPassword() {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, common.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}

	return user, nil
}

// SetPassword replaces the user's password hash. Callers must have
// authenticated the principal first (self-service change); the recovery flow
// has its own atomic path and does not go through here.
func (s *AuthService) SetPassword(ctx context.Context, userID, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	return repo.UpdatePassword(ctx, userID, hash)
}

// Me returns the user record for a verified principal id.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	return repo.GetByID(ctx, userID)
}

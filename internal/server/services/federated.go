package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/common"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/config"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/identity"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/models"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/repositories/repomanager"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/token"
)

// FederatedService exchanges a successful third-party login for a
// first-party user-class session token, creating the account on first sight.
type FederatedService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	provider    identity.Provider
	secretKey   []byte
	tokenTTL    time.Duration
}

func NewFederatedService(db *sql.DB, m repomanager.RepositoryManager, provider identity.Provider, cfg *config.Config) *FederatedService {
	return &FederatedService{
		db:          db,
		repomanager: m,
		provider:    provider,
		secretKey:   []byte(cfg.SecretKey),
		tokenTTL:    cfg.TokenValidityDuration,
	}
}

// CompleteFederatedLogin validates the callback code with the provider,
// resolves or creates the account, and mints a user-class token. Accounts
// created here have no password until one is explicitly set.
func (s *FederatedService) CompleteFederatedLogin(ctx context.Context, code string) (string, error) {
	assertion, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("federated login: %w", err)
	}

	user, err := s.CreateOrAttachFederated(ctx, assertion)
	if err != nil {
		return "", err
	}

	return token.Issue(user.ID, token.ClassUser, s.secretKey, s.tokenTTL)
}

// CreateOrAttachFederated is idempotent:
//  1. an account already linked to this provider subject is returned as-is;
//  2. an account with the asserted email gets the subject id attached;
//  3. otherwise a new passwordless account is created.
func (s *FederatedService) CreateOrAttachFederated(ctx context.Context, a *identity.Assertion) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByGoogleID(ctx, a.SubjectID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	user, err = repo.GetByEmail(ctx, a.Email)
	if err == nil {
		if err := repo.AttachGoogleID(ctx, user.ID, a.SubjectID, a.AvatarURL); err != nil {
			return nil, common.ErrorInternal
		}
		user.GoogleID = sql.NullString{String: a.SubjectID, Valid: true}
		user.AvatarURL = sql.NullString{String: a.AvatarURL, Valid: a.AvatarURL != ""}
		return user, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	user = &models.User{
		ID:        uuid.NewString(),
		Name:      a.Name,
		Email:     strings.ToLower(a.Email),
		GoogleID:  sql.NullString{String: a.SubjectID, Valid: true},
		AvatarURL: sql.NullString{String: a.AvatarURL, Valid: a.AvatarURL != ""},
	}
	if _, err := repo.Create(ctx, user); err != nil {
		return nil, common.ErrorInternal
	}

	return user, nil
}

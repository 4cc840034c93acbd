package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/models"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/repositories/repomanager"
)

// SubmissionService stores service-intake form submissions and lists them
// for the admin panel. Field schemas are opaque JSON to this subsystem.
type SubmissionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSubmissionService(db *sql.DB, m repomanager.RepositoryManager) *SubmissionService {
	return &SubmissionService{db: db, repomanager: m}
}

func (s *SubmissionService) Create(ctx context.Context, userID, service string, payload json.RawMessage) (*models.Submission, error) {
	sub := &models.Submission{
		ID:      uuid.NewString(),
		UserID:  userID,
		Service: service,
		Payload: payload,
	}

	repo := s.repomanager.Submissions(s.db)
	created, err := repo.Create(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("error creating submission: %w", err)
	}
	return created, nil
}

func (s *SubmissionService) List(ctx context.Context, service string) ([]*models.Submission, error) {
	repo := s.repomanager.Submissions(s.db)
	return repo.List(ctx, service)
}

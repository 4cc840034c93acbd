package submissions

import (
	"context"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Submission) (*models.Submission, error)
	// List returns submissions newest-first, optionally filtered by service
	// name (empty string = all services).
	List(ctx context.Context, service string) ([]*models.Submission, error)
	CreateDocument(ctx context.Context, d *models.Document) (*models.Document, error)
}

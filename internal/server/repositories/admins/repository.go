package admins

import (
	"context"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, admin *models.Admin) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id string) (*models.Admin, error)
}

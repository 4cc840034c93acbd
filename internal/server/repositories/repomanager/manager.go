package repomanager

import (
	"context"
	"database/sql"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/dbx"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/repositories/admins"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/repositories/submissions"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can run the same repository against either the pool or an open
// transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Admins(db dbx.DBTX) admins.Repository
	Submissions(db dbx.DBTX) submissions.Repository
}

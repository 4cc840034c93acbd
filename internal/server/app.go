// Package server initializes and runs the advisory API server.
// It opens the database, runs migrations, wires the services onto the HTTP
// endpoint, and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/logging"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/config"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/httpapi"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/identity"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/repositories/repomanager"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/services"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	authService       *services.AuthService
	recoveryService   *services.RecoveryService
	federatedService  *services.FederatedService
	submissionService *services.SubmissionService
	documentService   *services.DocumentService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()

	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	provider := identity.NewHTTPProvider(cfg.GoogleExchangeEndpoint)
	mailer := &services.LogMailer{Logger: logger}

	return &App{
		config:            cfg,
		logger:            logger,
		db:                db,
		authService:       services.NewAuthService(db, m, cfg),
		recoveryService:   services.NewRecoveryService(db, m, mailer, cfg, logger),
		federatedService:  services.NewFederatedService(db, m, provider, cfg),
		submissionService: services.NewSubmissionService(db, m),
		documentService:   services.NewDocumentService(db, m, cfg),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger, app.authService,
		app.recoveryService, app.federatedService, app.submissionService,
		app.documentService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}

// Package httpapi exposes the authentication, recovery, submission, and
// document operations over an HTTP JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/logging"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/models"
)

// AuthService is the credential-store surface the API needs.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	AdminLogin(ctx context.Context, email, password string) (string, error)
	SetPassword(ctx context.Context, userID, newPassword string) error
	Me(ctx context.Context, userID string) (*models.User, error)
}

// RecoveryService drives the OTP password-reset flow.
type RecoveryService interface {
	RequestOTP(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, submittedOTP, newPassword string) error
}

// FederatedService bridges third-party logins to first-party tokens.
type FederatedService interface {
	CompleteFederatedLogin(ctx context.Context, code string) (string, error)
}

// SubmissionService stores and lists intake submissions.
type SubmissionService interface {
	Create(ctx context.Context, userID, service string, payload json.RawMessage) (*models.Submission, error)
	List(ctx context.Context, service string) ([]*models.Submission, error)
}

// DocumentService hands out presigned storage URLs for uploads.
type DocumentService interface {
	PresignUpload(ctx context.Context, userID, fileName string) (string, string, error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

type Server struct {
	address     string
	logger      logging.Logger
	auth        AuthService
	recovery    RecoveryService
	federated   FederatedService
	submissions SubmissionService
	documents   DocumentService
	secretKey   []byte
}

func NewServer(address string, l logging.Logger, auth AuthService, recovery RecoveryService,
	federated FederatedService, submissions SubmissionService, documents DocumentService,
	secretKey string) *Server {
	return &Server{
		address:     address,
		logger:      l.With("module", "http_server"),
		auth:        auth,
		recovery:    recovery,
		federated:   federated,
		submissions: submissions,
		documents:   documents,
		secretKey:   []byte(secretKey),
	}
}

// Router assembles the route tree. Split out of Run so tests can mount it
// on httptest servers.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Get("/google/callback", s.handleGoogleCallback)
			r.Post("/forgot-password", s.handleForgotPassword)
			r.Post("/reset-password", s.handleResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(s.RequireUser)
				r.Get("/me", s.handleMe)
				r.Post("/change-password", s.handleChangePassword)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(s.RequireUser)
			r.Post("/submissions", s.handleCreateSubmission)
			r.Post("/documents/presign", s.handlePresignUpload)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", s.handleAdminLogin)

			r.Group(func(r chi.Router) {
				r.Use(s.RequireAdmin)
				r.Get("/submissions", s.handleListSubmissions)
				r.Get("/documents/url", s.handlePresignDownload)
			})
		})
	})

	return r
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

package services

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/common"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/dbx"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/identity"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/models"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/repositories/admins"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/repositories/submissions"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/server/repositories/users"
)

// memUsersRepo is an in-memory users.Repository with the same observable
// semantics as the Postgres implementation.
type memUsersRepo struct {
	mu   sync.Mutex
	byID map[string]*models.User
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{byID: map[string]*models.User{}}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *memUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, common.ErrorDuplicate
		}
	}
	user.CreatedAt = time.Now()
	r.byID[user.ID] = cloneUser(user)
	return user, nil
}

func (r *memUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		return cloneUser(u), nil
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.GoogleID.Valid && u.GoogleID.String == googleID {
			return cloneUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsersRepo) AttachGoogleID(ctx context.Context, id, googleID, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.GoogleID = sql.NullString{String: googleID, Valid: true}
	u.AvatarURL = sql.NullString{String: avatarURL, Valid: avatarURL != ""}
	return nil
}

func (r *memUsersRepo) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *memUsersRepo) SetRecoveryOTP(ctx context.Context, id, code string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.OTPCode = sql.NullString{String: code, Valid: true}
	u.OTPExpiresAt = sql.NullTime{Time: expiresAt, Valid: true}
	return nil
}

func (r *memUsersRepo) ResetPasswordWithOTP(ctx context.Context, id, code string, now time.Time, passwordHash []byte) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	if !u.OTPCode.Valid || u.OTPCode.String != code {
		return false, nil
	}
	if !u.OTPExpiresAt.Valid || u.OTPExpiresAt.Time.Before(now) {
		return false, nil
	}
	u.PasswordHash = passwordHash
	u.OTPCode = sql.NullString{}
	u.OTPExpiresAt = sql.NullTime{}
	return true, nil
}

type memAdminsRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Admin
}

func newMemAdminsRepo() *memAdminsRepo {
	return &memAdminsRepo{byID: map[string]*models.Admin{}}
}

func (r *memAdminsRepo) Create(ctx context.Context, admin *models.Admin) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if strings.EqualFold(a.Email, admin.Email) {
			return nil, common.ErrorDuplicate
		}
	}
	admin.CreatedAt = time.Now()
	r.byID[admin.ID] = admin
	return admin, nil
}

func (r *memAdminsRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memAdminsRepo) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byID[id]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

type memSubmissionsRepo struct {
	mu   sync.Mutex
	subs []*models.Submission
	docs []*models.Document
}

func (r *memSubmissionsRepo) Create(ctx context.Context, s *models.Submission) (*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.CreatedAt = time.Now()
	r.subs = append([]*models.Submission{s}, r.subs...)
	return s, nil
}

func (r *memSubmissionsRepo) List(ctx context.Context, service string) ([]*models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Submission
	for _, s := range r.subs {
		if service == "" || s.Service == service {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSubmissionsRepo) CreateDocument(ctx context.Context, d *models.Document) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.CreatedAt = time.Now()
	r.docs = append(r.docs, d)
	return d, nil
}

// fakeRepoManager vends the in-memory repositories regardless of the DBTX.
type fakeRepoManager struct {
	users       *memUsersRepo
	admins      *memAdminsRepo
	submissions *memSubmissionsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:       newMemUsersRepo(),
		admins:      newMemAdminsRepo(),
		submissions: &memSubmissionsRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                  { return m.users }
func (m *fakeRepoManager) Admins(db dbx.DBTX) admins.Repository                { return m.admins }
func (m *fakeRepoManager) Submissions(db dbx.DBTX) submissions.Repository      { return m.submissions }

func assertion(sub, email string) *identity.Assertion {
	return &identity.Assertion{
		SubjectID: sub,
		Email:     email,
		Name:      "Fed User",
		AvatarURL: "https://img.example/avatar.png",
	}
}

func seedAdmin(t *testing.T, rm *fakeRepoManager, email, password string) *models.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	a := &models.Admin{ID: uuid.NewString(), Name: "Admin", Email: email, PasswordHash: hash}
	if _, err := rm.admins.Create(context.Background(), a); err != nil {
		t.Fatalf("seed admin error: %v", err)
	}
	return a
}

// newTestDB returns an in-memory SQLite handle. Services only use it for
// transaction demarcation in tests; the fake repositories ignore the DBTX.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:services_tests?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("sql.Open error: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Package cli is the interactive shell of the advisory client. It drives
// the HTTP API, the local session store, and the access guard from a
// read-eval-print loop.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/client/api"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/client/config"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/client/guard"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/client/session"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/client/storage"
)

// apiClient is the backend surface the shell needs.
type apiClient interface {
	Register(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	AdminLogin(ctx context.Context, email, password string) (string, error)
	FederatedCallback(ctx context.Context, code string) (string, error)
	RequestOTP(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
	Me(ctx context.Context, bearer string) (*api.Principal, error)
}

// sessionStore is the slice of the session the shell needs.
type sessionStore interface {
	SetToken(ctx context.Context, class session.Class, token string) error
	Token(ctx context.Context, class session.Class) (string, error)
	Logout(ctx context.Context, class session.Class) error
	IsAuthenticated(ctx context.Context, class session.Class) bool
	Principal(ctx context.Context, class session.Class) (*session.Principal, error)
}

type App struct {
	config  *config.Config
	api     apiClient
	session sessionStore
	guard   *guard.Guard
	reader  *bufio.Reader

	mu      sync.Mutex
	pending string // deferred path waiting for the next successful login
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	repos, err := storage.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	sess := session.NewSession(repos.Metadata)

	a := &App{
		config:  c,
		api:     api.NewClient(c.ServerBaseURL, c.RequestTimeout),
		session: sess,
		reader:  bufio.NewReader(os.Stdin),
	}

	g := guard.NewGuard(sess, (*terminalNavigator)(a), &terminalNotifier{})
	g.Protect(session.ClassUser, "/services", "/dashboard")
	g.Protect(session.ClassAdmin, "/admin")
	a.guard = g

	return a, nil
}

// terminalNavigator renders navigations as shell output. A navigation to a
// login target captures the deferred path so the next successful login can
// replay it.
type terminalNavigator App

func (n *terminalNavigator) Navigate(path string) {
	a := (*App)(n)
	if target, ok := guard.ConsumeRedirect(path); ok {
		a.setPending(target)
		fmt.Printf("Redirected to %s\n", path)
		return
	}
	fmt.Printf("Opening %s\n", path)
}

type terminalNotifier struct{}

func (t *terminalNotifier) Show(message string) { fmt.Println(message) }
func (t *terminalNotifier) Hide()               {}

func (a *App) setPending(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = path
}

func (a *App) takePending() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.pending
	a.pending = ""
	return p
}

// resumePending replays the deferred navigation, if any, after a login.
func (a *App) resumePending(ctx context.Context) {
	if target := a.takePending(); target != "" {
		a.guard.Attempt(ctx, target)
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated(context.Background(), session.ClassUser)
}

func (a *App) Run(ctx context.Context) {
	defer a.guard.Stop()

	fmt.Println("K&N TaxMarks client (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) getStatus() string {
	ctx := context.Background()
	s := ""
	if p, err := a.session.Principal(ctx, session.ClassUser); err == nil {
		s = p.ID
	}
	if a.session.IsAuthenticated(ctx, session.ClassAdmin) {
		if s != "" {
			s += " "
		}
		s += "admin"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

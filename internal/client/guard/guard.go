// Package guard intercepts attempts to reach protected targets while
// unauthenticated, defers the intended path through the login round-trip,
// and resumes it after a successful login.
package guard

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/client/session"
)

const (
	// DefaultDwell is how long the notice stays visible before the
	// redirect to the login target fires.
	DefaultDwell = 1200 * time.Millisecond

	userLoginPath  = "/login"
	adminLoginPath = "/admin/login"

	redirectToParam = "redirectTo"
)

// Navigator performs a navigation to the given path.
type Navigator interface {
	Navigate(path string)
}

// Notifier shows and hides the transient "please log in" notice.
type Notifier interface {
	Show(message string)
	Hide()
}

// authChecker is the slice of the session the guard needs.
type authChecker interface {
	IsAuthenticated(ctx context.Context, class session.Class) bool
}

type rule struct {
	prefix string
	class  session.Class
}

// Guard holds the protected-prefix rules and the single deferred-intent
// slot. A second interception while the notice is showing replaces the
// first intent (last write wins); the already scheduled redirect then
// carries the newer path.
type Guard struct {
	session  authChecker
	nav      Navigator
	notifier Notifier
	dwell    time.Duration

	mu           sync.Mutex
	rules        []rule
	pendingPath  string
	pendingClass session.Class
	timer        *time.Timer
}

func NewGuard(sess authChecker, nav Navigator, notifier Notifier) *Guard {
	return &Guard{
		session:  sess,
		nav:      nav,
		notifier: notifier,
		dwell:    DefaultDwell,
	}
}

// Protect registers path prefixes that require a token of the given class.
// Longer prefixes win over shorter ones, so "/admin" and "/" can coexist.
func (g *Guard) Protect(class session.Class, prefixes ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range prefixes {
		g.rules = append(g.rules, rule{prefix: p, class: class})
	}
}

func (g *Guard) requiredClass(path string) (session.Class, bool) {
	var best rule
	found := false
	for _, r := range g.rules {
		if strings.HasPrefix(path, r.prefix) {
			if !found || len(r.prefix) > len(best.prefix) {
				best = r
				found = true
			}
		}
	}
	return best.class, found
}

// Attempt tries to navigate to path. Unprotected targets and targets for
// which a live token of the required class is held pass straight through
// and Attempt reports true. Otherwise the navigation is cancelled, the
// intent is deferred, and Attempt reports false.
func (g *Guard) Attempt(ctx context.Context, path string) bool {
	g.mu.Lock()
	class, protected := g.requiredClass(path)
	g.mu.Unlock()

	if !protected || g.session.IsAuthenticated(ctx, class) {
		g.nav.Navigate(path)
		return true
	}

	g.intercept(path, class)
	return false
}

func (g *Guard) intercept(path string, class session.Class) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pendingPath = path
	g.pendingClass = class

	// One notice, one timer. If the notice is already showing, the newer
	// intent simply replaces the older one and the scheduled redirect
	// picks it up when it fires.
	if g.timer != nil {
		return
	}

	g.notifier.Show("Please log in to continue")
	g.timer = time.AfterFunc(g.dwell, g.redirect)
}

// redirect runs on the dwell timer. It is fire-and-forget: once scheduled
// it proceeds unless Stop cancelled the timer first.
func (g *Guard) redirect() {
	g.mu.Lock()
	path := g.pendingPath
	class := g.pendingClass
	g.pendingPath = ""
	g.timer = nil
	g.mu.Unlock()

	g.notifier.Hide()

	target := userLoginPath
	if class == session.ClassAdmin {
		target = adminLoginPath
	}

	g.nav.Navigate(target + "?" + redirectToParam + "=" + url.QueryEscape(path))
}

// Stop cancels a scheduled redirect and hides the notice. Meant for
// teardown; an already fired redirect is not undone.
func (g *Guard) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
		g.pendingPath = ""
		g.notifier.Hide()
	}
}

// ConsumeRedirect extracts the deferred path from a login URL. The login
// flow calls it after a successful login and navigates to the returned
// path; on a failed login the parameter is simply dropped.
func ConsumeRedirect(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	target := u.Query().Get(redirectToParam)
	if target == "" {
		return "", false
	}
	return target, true
}

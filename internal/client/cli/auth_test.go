package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/client/api"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/client/guard"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/client/session"
)

func stubInputs(t *testing.T, lines []string, password []byte) func() {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		line := lines[i]
		i++
		return line, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
	return func() {
		getSimpleText = origST
		getPassword = origGP
	}
}

type fakeAPI struct {
	loginEmail string
	loginPass  string
	loginTok   string
	loginErr   error

	regName string
	regTok  string

	otpEmail string
	otpMsg   string

	resetEmail string
	resetOTP   string
	resetErr   error
}

func (f *fakeAPI) Register(_ context.Context, name, email, password string) (string, error) {
	f.regName = name
	return f.regTok, nil
}
func (f *fakeAPI) Login(_ context.Context, email, password string) (string, error) {
	f.loginEmail, f.loginPass = email, password
	return f.loginTok, f.loginErr
}
func (f *fakeAPI) AdminLogin(_ context.Context, email, password string) (string, error) {
	return f.loginTok, f.loginErr
}
func (f *fakeAPI) FederatedCallback(_ context.Context, code string) (string, error) {
	return f.loginTok, f.loginErr
}
func (f *fakeAPI) RequestOTP(_ context.Context, email string) (string, error) {
	f.otpEmail = email
	return f.otpMsg, nil
}
func (f *fakeAPI) ResetPassword(_ context.Context, email, otp, newPassword string) error {
	f.resetEmail, f.resetOTP = email, otp
	return f.resetErr
}
func (f *fakeAPI) Me(_ context.Context, bearer string) (*api.Principal, error) {
	return &api.Principal{ID: "u1", Name: "Jane", Email: "jane@example.com"}, nil
}

type fakeSession struct {
	mu     sync.Mutex
	tokens map[session.Class]string
}

func newFakeSession() *fakeSession {
	return &fakeSession{tokens: make(map[session.Class]string)}
}

func (f *fakeSession) SetToken(_ context.Context, class session.Class, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[class] = token
	return nil
}
func (f *fakeSession) Token(_ context.Context, class session.Class) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[class], nil
}
func (f *fakeSession) Logout(_ context.Context, class session.Class) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, class)
	return nil
}
func (f *fakeSession) IsAuthenticated(_ context.Context, class session.Class) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[class] != ""
}
func (f *fakeSession) Principal(_ context.Context, class session.Class) (*session.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tok := f.tokens[class]
	if tok == "" {
		return nil, errors.New("not logged in")
	}
	return &session.Principal{ID: "u1", Class: class}, nil
}

type noopNav struct{}

func (noopNav) Navigate(string) {}

type noopNotifier struct{}

func (noopNotifier) Show(string) {}
func (noopNotifier) Hide()       {}

func newTestApp(f *fakeAPI) (*App, *fakeSession) {
	sess := newFakeSession()
	a := &App{api: f, session: sess}
	a.guard = guard.NewGuard(sess, noopNav{}, noopNotifier{})
	return a, sess
}

func TestRegister_StoresToken(t *testing.T) {
	f := &fakeAPI{regTok: "tok-reg"}
	a, sess := newTestApp(f)

	restore := stubInputs(t, []string{"Jane", "jane@example.com"}, []byte("secret"))
	defer restore()

	if err := a.Register(context.Background()); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if f.regName != "Jane" {
		t.Fatalf("Register name mismatch: %q", f.regName)
	}
	if tok, _ := sess.Token(context.Background(), session.ClassUser); tok != "tok-reg" {
		t.Fatalf("token not stored: %q", tok)
	}
}

func TestLogin_StoresTokenPerClass(t *testing.T) {
	f := &fakeAPI{loginTok: "tok-admin"}
	a, sess := newTestApp(f)

	restore := stubInputs(t, []string{"ops@example.com"}, []byte("secret"))
	defer restore()

	if err := a.AdminLogin(context.Background()); err != nil {
		t.Fatalf("AdminLogin err: %v", err)
	}

	if tok, _ := sess.Token(context.Background(), session.ClassAdmin); tok != "tok-admin" {
		t.Fatalf("admin token not stored: %q", tok)
	}
	if tok, _ := sess.Token(context.Background(), session.ClassUser); tok != "" {
		t.Fatalf("user slot must stay empty, got %q", tok)
	}
}

func TestLogin_FailurePropagatesServerError(t *testing.T) {
	f := &fakeAPI{loginErr: &api.Error{StatusCode: 401, Message: "invalid email or password"}}
	a, sess := newTestApp(f)

	restore := stubInputs(t, []string{"jane@example.com"}, []byte("wrong"))
	defer restore()

	err := a.Login(context.Background())
	if err == nil || err.Error() != "invalid email or password" {
		t.Fatalf("want server message, got %v", err)
	}
	if tok, _ := sess.Token(context.Background(), session.ClassUser); tok != "" {
		t.Fatalf("no token must be stored on failure, got %q", tok)
	}
}

func TestLogin_ResumesPendingNavigation(t *testing.T) {
	f := &fakeAPI{loginTok: "tok-user"}
	a, _ := newTestApp(f)
	a.setPending("/services/gst-filing")

	restore := stubInputs(t, []string{"jane@example.com"}, []byte("secret"))
	defer restore()

	if err := a.Login(context.Background()); err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if got := a.takePending(); got != "" {
		t.Fatalf("pending intent must be consumed, got %q", got)
	}
}

func TestRecoverAndReset(t *testing.T) {
	f := &fakeAPI{otpMsg: "if the email is registered, a code has been sent"}
	a, _ := newTestApp(f)

	restore := stubInputs(t, []string{"jane@example.com"}, nil)
	if err := a.Recover(context.Background()); err != nil {
		t.Fatalf("Recover err: %v", err)
	}
	restore()
	if f.otpEmail != "jane@example.com" {
		t.Fatalf("otp email mismatch: %q", f.otpEmail)
	}

	restore = stubInputs(t, []string{"jane@example.com", "123456"}, []byte("newpw"))
	defer restore()
	if err := a.Reset(context.Background()); err != nil {
		t.Fatalf("Reset err: %v", err)
	}
	if f.resetOTP != "123456" {
		t.Fatalf("reset otp mismatch: %q", f.resetOTP)
	}
}

func TestLogout_IsIdempotentAndScoped(t *testing.T) {
	a, sess := newTestApp(&fakeAPI{})
	_ = sess.SetToken(context.Background(), session.ClassUser, "u")
	_ = sess.SetToken(context.Background(), session.ClassAdmin, "a")

	if err := a.Logout(context.Background()); err != nil {
		t.Fatalf("Logout err: %v", err)
	}
	if err := a.Logout(context.Background()); err != nil {
		t.Fatalf("repeat Logout err: %v", err)
	}

	if tok, _ := sess.Token(context.Background(), session.ClassAdmin); tok != "a" {
		t.Fatalf("admin session must survive user logout, got %q", tok)
	}
}

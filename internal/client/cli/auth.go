package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/client/session"
	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Open routes a navigation attempt through the access guard. Protected
// targets without a live session are deferred until the next login.
func (a *App) Open(ctx context.Context, path string) error {
	a.guard.Attempt(ctx, path)
	return nil
}

// Register prompts for a profile and credentials and creates an account.
// A successful registration logs the user straight in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	tok, err := a.api.Register(ctx, name, email, string(password))
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if err := a.session.SetToken(ctx, session.ClassUser, tok); err != nil {
		return err
	}

	fmt.Println("Success!")
	return nil
}

// Login prompts for credentials and authenticates as a user. On success any
// deferred navigation captured by the guard is replayed.
func (a *App) Login(ctx context.Context) error {
	return a.login(ctx, session.ClassUser)
}

// AdminLogin authenticates against the admin credential entries. The admin
// token is stored separately so user and admin sessions coexist.
func (a *App) AdminLogin(ctx context.Context) error {
	return a.login(ctx, session.ClassAdmin)
}

func (a *App) login(ctx context.Context, class session.Class) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	var tok string
	if class == session.ClassAdmin {
		tok, err = a.api.AdminLogin(ctx, email, string(password))
	} else {
		tok, err = a.api.Login(ctx, email, string(password))
	}
	if err != nil {
		// Server messages are shown verbatim; a failed login drops any
		// deferred navigation on the next attempt rather than retrying.
		fmt.Println(err.Error())
		return err
	}

	if err := a.session.SetToken(ctx, class, tok); err != nil {
		return err
	}

	fmt.Println("Login successful")
	a.resumePending(ctx)
	return nil
}

// FederatedLogin completes a third-party login with an exchange code
// obtained from the provider redirect.
func (a *App) FederatedLogin(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Enter exchange code", os.Stdout)
	if err != nil {
		return err
	}

	tok, err := a.api.FederatedCallback(ctx, code)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	if err := a.session.SetToken(ctx, session.ClassUser, tok); err != nil {
		return err
	}

	fmt.Println("Login successful")
	a.resumePending(ctx)
	return nil
}

// Recover starts the password-recovery flow. The reply is the same whether
// or not the email is registered.
func (a *App) Recover(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	msg, err := a.api.RequestOTP(ctx, email)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println(msg)
	return nil
}

// Reset consumes a recovery code and sets a new password.
func (a *App) Reset(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	otp, err := getSimpleText(a.reader, "Enter the code you received", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.ResetPassword(ctx, email, otp, string(password)); err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Password updated, you can now log in")
	return nil
}

// Whoami shows the profile behind the current user session.
func (a *App) Whoami(ctx context.Context) error {
	tok, err := a.session.Token(ctx, session.ClassUser)
	if err != nil {
		return err
	}
	if tok == "" {
		fmt.Println("Not logged in")
		return nil
	}

	p, err := a.api.Me(ctx, tok)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Printf("%s <%s>\n", p.Name, p.Email)
	return nil
}

// Logout drops the user session. Logging out while not logged in is a no-op.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx, session.ClassUser); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

// AdminLogout drops the admin session only.
func (a *App) AdminLogout(ctx context.Context) error {
	if err := a.session.Logout(ctx, session.ClassAdmin); err != nil {
		return err
	}
	fmt.Println("Admin session closed")
	return nil
}

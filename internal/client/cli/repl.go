package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Open(ctx context.Context, path string) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	AdminLogin(ctx context.Context) error
	FederatedLogin(ctx context.Context) error
	Recover(ctx context.Context) error
	Reset(ctx context.Context) error
	Whoami(ctx context.Context) error
	Logout(ctx context.Context) error
	AdminLogout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the advisory client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	help             — show available commands
//	open <path>      — navigate; protected paths are deferred until login
//	register         — create an account
//	login            — authenticate as a user
//	admin-login      — authenticate as an admin
//	google           — complete a federated login with an exchange code
//	recover          — request a password-recovery code
//	reset            — consume the code and set a new password
//	whoami           — show the current profile
//	logout           — drop the user session
//	admin-logout     — drop the admin session
//	exit | quit      — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("kn> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: open <path>, whoami, logout, admin-login, admin-logout, exit")
			} else {
				printlnFn("Available commands: open <path>, register, login, admin-login, google, recover, reset, exit")
			}

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <path>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "admin-login":
			_ = a.AdminLogin(ctx)

		case "google":
			_ = a.FederatedLogin(ctx)

		case "recover":
			_ = a.Recover(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "admin-logout":
			_ = a.AdminLogout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

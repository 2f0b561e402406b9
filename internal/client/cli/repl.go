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
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Refresh(ctx context.Context) error
	JobTitle(ctx context.Context) error
	Ask(ctx context.Context, args []string) error
	OCR(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Pulse(ctx context.Context, args []string) error
	Admin(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the ORCHA CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help            — show available commands
//	  - register        — walk the registration pipeline (resumable)
//	  - login           — authenticate
//	  - admin ...       — admin dashboard commands
//	  - exit | quit     — leave the program
//
//	Logged in:
//	  - help            — show available commands
//	  - whoami          — show the cached user record
//	  - refresh         — re-fetch the user from the server
//	  - jobtitle        — set or change the job title
//	  - ask <message>   — chat with the assistant
//	  - ocr <file>      — extract text from a document
//	  - search <query>  — run a web search
//	  - pulse ...       — manage scheduled tasks
//	  - admin ...       — admin dashboard commands
//	  - logout          — log out
//	  - exit | quit     — leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
// Each command runs to completion before the next prompt, so operations on
// the state machines never overlap.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("orcha> %s > ", statusFn()))
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
				printlnFn("Available commands: whoami, refresh, jobtitle, ask, ocr, search, pulse, admin, logout, exit")
			} else {
				printlnFn("Available commands: register, login, admin, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "jobtitle":
			_ = a.JobTitle(ctx)

		case "ask":
			_ = a.Ask(ctx, args)

		case "ocr":
			_ = a.OCR(ctx, args)

		case "search":
			_ = a.Search(ctx, args)

		case "pulse":
			_ = a.Pulse(ctx, args)

		case "admin":
			_ = a.Admin(ctx, args)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

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
	Login(ctx context.Context) error
	Upload(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context) error
	Show(ctx context.Context) error
	Edit(ctx context.Context) error
	Download(ctx context.Context) error
	Delete(ctx context.Context) error
	State(ctx context.Context) error
	ClearError(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the FileKeeper CLI.
//
// It reads a line from reader, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on EOF, on context cancellation
// or when the user types "exit" or "quit".
//
// Commands:
//
//	help                  show available commands
//	login                 enter the shared secret
//	upload | up           upload a local file
//	list | l | refresh    reload and print the file list
//	search | find         filter the loaded list by name, description or date
//	show                  show one file
//	edit                  change a description
//	download | dl         save a file into the download directory
//	delete | rm           delete a file (asks for confirmation)
//	state                 print the application state
//	clear                 dismiss the last error
//	exit | quit           leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
//
// Commands that prompt for more input read from the same reader, so reader
// must be the one the App was built with.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("fk> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: upload, (l)ist, search, show, edit, download, delete, state, clear, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "upload", "up":
			_ = a.Upload(ctx)

		case "l", "list", "refresh":
			_ = a.List(ctx)

		case "search", "find":
			_ = a.Search(ctx)

		case "show":
			_ = a.Show(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "download", "dl":
			_ = a.Download(ctx)

		case "delete", "rm":
			_ = a.Delete(ctx)

		case "state":
			_ = a.State(ctx)

		case "clear":
			_ = a.ClearError(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

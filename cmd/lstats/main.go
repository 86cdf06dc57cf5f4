// Command lstats answers login-session questions about a terminal log:
// first and last session, every session, and total time logged in.
package main

import (
	"fmt"
	"log/slog"
	"os"
)

const version = "1.0.0"

// Exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitNotFound = 3
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitError)
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		printUsage()
		return
	case "--version", "-v", "version":
		fmt.Println("lstats", version)
		return
	}

	a, err := newApp()
	if err != nil {
		fatal("%v", err)
	}

	switch os.Args[1] {
	// Queries
	case "first":
		os.Exit(a.cmdFirst(os.Args[2:]))
	case "last":
		os.Exit(a.cmdLast(os.Args[2:]))
	case "all":
		os.Exit(a.cmdAll(os.Args[2:]))
	case "total":
		os.Exit(a.cmdTotal(os.Args[2:]))
	case "users":
		os.Exit(a.cmdUsers(os.Args[2:]))
	case "log":
		os.Exit(a.cmdLog(os.Args[2:]))

	// Interactive
	case "repl", "shell":
		os.Exit(a.cmdRepl(os.Args[2:]))

	// Archive
	case "import":
		os.Exit(a.cmdImport(os.Args[2:]))
	case "imports":
		os.Exit(a.cmdImports(os.Args[2:]))

	default:
		fmt.Fprintf(os.Stderr, "lstats: unknown command %q\n", os.Args[1])
		fmt.Fprintln(os.Stderr, "Run 'lstats --help' for usage.")
		slog.Debug("unknown command", "command", os.Args[1])
		os.Exit(exitError)
	}
}

func printUsage() {
	fmt.Print(`lstats: login session statistics from terminal logs

Log lines are "<terminal> <epoch-millis> <username>"; a negative terminal
is a logout.

Usage:
  lstats <command> [flags] [args]

Queries:
  first <user>              First login session for the user
  last <user>               Last login session for the user
  all <user>                All login sessions for the user
  total <user>              Total time the user was logged in
  users                     Users in the log with session counts
  log [--limit N] [--user U] Latest events, newest first

Interactive:
  repl                      Load once, then read "first|last|all|total USER"
                            and "quit" from stdin

Archive:
  import <file>...          Append text logs to the SQLite archive
  imports                   List import batches in the archive

Every query accepts --file PATH (text log) or --db PATH (archive).
Queries, users and imports accept --json.

Environment:
  LOGINSTATS_FILE         Default text log
  LOGINSTATS_DB           Archive path (default: loginstats.db)
  LOGINSTATS_TZ           Time zone for printed times (default: Local)
  LOGINSTATS_DATE_LAYOUT  Go time layout for printed times
  LOGINSTATS_LOG_LEVEL    debug, info, warn (default) or error
  LOGINSTATS_CONFIG       Optional YAML file with the same settings
A .env file in the working directory is read as well.

Exit codes:
  0  success
  1  error
  3  no matching user or session
`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "lstats: "+format+"\n", args...)
	os.Exit(exitError)
}

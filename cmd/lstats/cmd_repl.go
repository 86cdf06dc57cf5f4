package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/daviddao/loginstats/pkg/records"
	"github.com/daviddao/loginstats/pkg/report"
)

const replBanner = `Welcome to Login Stats!

Available commands:
  first USERNAME   - retrieves first login session for the USER
  last USERNAME    - retrieves last login session for the USER
  all USERNAME     - retrieves all login sessions for the USER
  total USERNAME   - retrieves total login time for the USER
  quit             - terminates this program

`

func (a *app) cmdRepl(args []string) int {
	flags := flag.NewFlagSet("repl", flag.ContinueOnError)
	src := addSourceFlags(flags)
	if err := flags.Parse(args); err != nil {
		return exitError
	}
	// The shell takes its log as a positional argument too.
	if *src.file == "" && flags.NArg() == 1 {
		*src.file = flags.Arg(0)
	} else if flags.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "usage: lstats repl [--file PATH | --db PATH] [PATH]")
		return exitError
	}

	list, err := a.load(src, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "lstats: repl: %v\n", err)
		return exitError
	}
	if err := a.repl(list, a.stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "lstats: repl: %v\n", err)
		return exitError
	}
	return exitOK
}

// repl answers "first|last|all|total USER" lines from in until "quit" or
// end of input. Queries that find nothing print the no-match message and
// the loop carries on.
func (a *app) repl(list *records.List, in io.Reader, out io.Writer) error {
	fmt.Fprint(out, replBanner)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" {
			return nil
		}
		if len(fields) != 2 {
			fmt.Fprintln(out, "This is not a valid command. Try again.")
			continue
		}
		a.replQuery(list, fields[0], fields[1], out)
	}
	return scanner.Err()
}

func (a *app) replQuery(list *records.List, cmd, user string, out io.Writer) {
	var err error
	switch cmd {
	case "first", "last":
		query := list.FirstSession
		if cmd == "last" {
			query = list.LastSession
		}
		s, qerr := query(user)
		if err = qerr; err == nil {
			fmt.Fprintln(out, a.render.Session(s))
		}
	case "all":
		sessions, qerr := list.AllSessions(user)
		if err = qerr; err == nil {
			for s := range sessions.All() {
				fmt.Fprintln(out, a.render.Session(s))
			}
		}
	case "total":
		total, qerr := list.TotalTime(user)
		if err = qerr; err == nil {
			fmt.Fprintln(out, report.Total(user, total))
		}
	default:
		fmt.Fprintln(out, "This is not a valid command. Try again.")
		return
	}
	if err != nil {
		slog.Debug("repl: query found nothing", "command", cmd, "user", user, "error", err)
		fmt.Fprintln(out, report.NoMatch(user))
	}
}

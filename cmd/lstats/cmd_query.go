package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/daviddao/loginstats/pkg/model"
	"github.com/daviddao/loginstats/pkg/records"
	"github.com/daviddao/loginstats/pkg/report"
)

type sessionQuery func(*records.List, string) (model.Session, error)

func (a *app) cmdFirst(args []string) int {
	return a.runSessionQuery("first", args, (*records.List).FirstSession)
}

func (a *app) cmdLast(args []string) int {
	return a.runSessionQuery("last", args, (*records.List).LastSession)
}

func (a *app) runSessionQuery(cmd string, args []string, query sessionQuery) int {
	flags := flag.NewFlagSet(cmd, flag.ContinueOnError)
	src := addSourceFlags(flags)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return exitError
	}
	if flags.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: lstats %s [--file PATH | --db PATH] [--json] <user>\n", cmd)
		return exitError
	}
	user := flags.Arg(0)

	list, err := a.load(src, user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lstats: %s: %v\n", cmd, err)
		return exitError
	}
	s, err := query(list, user)
	if err != nil {
		return queryFailed(cmd, user, err)
	}

	if *jsonOut {
		printJSON(s)
	} else {
		fmt.Println(a.render.Session(s))
	}
	return exitOK
}

func (a *app) cmdAll(args []string) int {
	flags := flag.NewFlagSet("all", flag.ContinueOnError)
	src := addSourceFlags(flags)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return exitError
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: lstats all [--file PATH | --db PATH] [--json] <user>")
		return exitError
	}
	user := flags.Arg(0)

	list, err := a.load(src, user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lstats: all: %v\n", err)
		return exitError
	}
	sessions, err := list.AllSessions(user)
	if err != nil {
		return queryFailed("all", user, err)
	}

	if *jsonOut {
		printJSON(map[string]interface{}{
			"user": user, "sessions": sessions.Values(), "count": sessions.Len(),
		})
	} else {
		a.printSessions(sessions.Values())
	}
	return exitOK
}

// printSessions prints sessions separated by blank lines.
func (a *app) printSessions(sessions []model.Session) {
	for i, s := range sessions {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(a.render.Session(s))
	}
}

func (a *app) cmdTotal(args []string) int {
	flags := flag.NewFlagSet("total", flag.ContinueOnError)
	src := addSourceFlags(flags)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return exitError
	}
	if flags.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: lstats total [--file PATH | --db PATH] [--json] <user>")
		return exitError
	}
	user := flags.Arg(0)

	list, err := a.load(src, user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lstats: total: %v\n", err)
		return exitError
	}
	total, err := list.TotalTime(user)
	if err != nil {
		return queryFailed("total", user, err)
	}

	if *jsonOut {
		printJSON(map[string]interface{}{
			"user": user, "total_ms": total, "total": report.Compact(total),
		})
	} else {
		fmt.Println(report.Total(user, total))
	}
	return exitOK
}

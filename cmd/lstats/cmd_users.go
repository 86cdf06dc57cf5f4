package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/daviddao/loginstats/pkg/model"
	"github.com/daviddao/loginstats/pkg/records"
	"github.com/daviddao/loginstats/pkg/report"
)

// userSummary is one row of the users command.
type userSummary struct {
	User     string    `json:"user"`
	Sessions int       `json:"sessions"`
	Open     int       `json:"open"`
	TotalMS  int64     `json:"total_ms"`
	LastSeen time.Time `json:"last_seen"`
}

func (a *app) cmdUsers(args []string) int {
	flags := flag.NewFlagSet("users", flag.ContinueOnError)
	src := addSourceFlags(flags)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return exitError
	}

	list, err := a.load(src, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "lstats: users: %v\n", err)
		return exitError
	}
	rows, err := summarizeUsers(list)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lstats: users: %v\n", err)
		return exitError
	}

	if *jsonOut {
		printJSON(map[string]interface{}{"users": rows, "count": len(rows)})
		return exitOK
	}
	if len(rows) == 0 {
		fmt.Println("no users")
		return exitOK
	}
	for _, r := range rows {
		fmt.Printf("  %-16s sessions=%-4d open=%-3d total=%-16s last seen %s\n",
			r.User, r.Sessions, r.Open, report.Compact(r.TotalMS), a.render.Relative(r.LastSeen))
	}
	fmt.Fprintf(os.Stderr, "(%s users, %s events)\n",
		report.Count(int64(len(rows))), report.Count(int64(list.Len())))
	return exitOK
}

// summarizeUsers runs the session queries for every user in list. A user
// with logouts only has no sessions and a zero total.
func summarizeUsers(list *records.List) ([]userSummary, error) {
	last := make(map[string]time.Time)
	for _, e := range list.Events() {
		last[e.Username] = e.Time
	}

	var rows []userSummary
	for _, user := range list.Users() {
		row := userSummary{User: user, LastSeen: last[user]}

		sessions, err := list.AllSessions(user)
		switch {
		case err == nil:
			row.Sessions = sessions.Len()
			for s := range sessions.All() {
				if s.Active() {
					row.Open++
				}
			}
		case !errors.Is(err, model.ErrNotFound):
			return nil, err
		}

		total, err := list.TotalTime(user)
		switch {
		case err == nil:
			row.TotalMS = total
		case !errors.Is(err, model.ErrNotFound):
			return nil, err
		}

		rows = append(rows, row)
	}
	return rows, nil
}

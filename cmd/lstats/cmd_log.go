package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/daviddao/loginstats/pkg/model"
	"github.com/daviddao/loginstats/pkg/report"
)

func (a *app) cmdLog(args []string) int {
	flags := flag.NewFlagSet("log", flag.ContinueOnError)
	src := addSourceFlags(flags)
	limit := flags.Int("limit", 20, "max events to show")
	user := flags.String("user", "", "only show events for this user")
	kind := flags.String("kind", "", "filter by event kind (login or logout)")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return exitError
	}

	list, err := a.load(src, *user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lstats: log: %v\n", err)
		return exitError
	}

	var events []model.Event
	for _, e := range list.Recent(list.Len()) {
		if len(events) >= *limit {
			break
		}
		if *user != "" && e.Username != *user {
			continue
		}
		if *kind != "" && string(e.Kind) != *kind {
			continue
		}
		events = append(events, e)
	}

	if *jsonOut {
		printJSON(map[string]interface{}{"events": events, "count": len(events)})
		return exitOK
	}
	if len(events) == 0 {
		fmt.Println("no events")
		return exitOK
	}
	for _, e := range events {
		fmt.Println(a.formatEvent(e))
	}
	fmt.Fprintf(os.Stderr, "(%s of %s events, newest first)\n",
		report.Count(int64(len(events))), report.Count(int64(list.Len())))
	return exitOK
}

// formatEvent renders one event as "[time] user login terminal N".
func (a *app) formatEvent(e model.Event) string {
	return fmt.Sprintf("[%s] %s %s terminal %d", a.render.Time(e.Time), e.Username, e.Kind, e.Terminal)
}

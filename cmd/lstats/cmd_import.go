package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/daviddao/loginstats/pkg/logfile"
	"github.com/daviddao/loginstats/pkg/model"
	"github.com/daviddao/loginstats/pkg/report"
)

func (a *app) cmdImport(args []string) int {
	flags := flag.NewFlagSet("import", flag.ContinueOnError)
	db := flags.String("db", "", "SQLite archive to append to (default: LOGINSTATS_DB)")
	if err := flags.Parse(args); err != nil {
		return exitError
	}
	if flags.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: lstats import [--db PATH] <file>...")
		return exitError
	}
	path := *db
	if path == "" {
		path = a.cfg.DBPath
	}

	// Files are parsed before anything is written so a bad line in any of
	// them leaves the archive untouched.
	parsed := make([][]model.Event, 0, flags.NArg())
	for _, file := range flags.Args() {
		events, err := logfile.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lstats: import: %v\n", err)
			return exitError
		}
		parsed = append(parsed, events)
	}

	arc, err := a.openArchive(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lstats: import: %v\n", err)
		return exitError
	}
	defer arc.Close()

	var total int64
	for i, file := range flags.Args() {
		events := parsed[i]
		id, err := arc.InsertEvents(file, events)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lstats: import: %s: %v\n", file, err)
			return exitError
		}
		slog.Info("import: appended", "import_id", id, "source", file, "events", len(events))
		fmt.Printf("imported %s events from %s (import #%d)\n", report.Count(int64(len(events))), file, id)
		total += int64(len(events))
	}
	if flags.NArg() > 1 {
		fmt.Printf("imported %s events into %s\n", report.Count(total), path)
	}
	return exitOK
}

func (a *app) cmdImports(args []string) int {
	flags := flag.NewFlagSet("imports", flag.ContinueOnError)
	db := flags.String("db", "", "SQLite archive (default: LOGINSTATS_DB)")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return exitError
	}
	path := *db
	if path == "" {
		path = a.cfg.DBPath
	}
	if !fileExists(path) {
		fmt.Fprintf(os.Stderr, "lstats: imports: no archive at %s\n", path)
		return exitError
	}

	arc, err := a.openArchive(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lstats: imports: %v\n", err)
		return exitError
	}
	defer arc.Close()

	imports, err := arc.ListImports()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lstats: imports: %v\n", err)
		return exitError
	}
	if *jsonOut {
		printJSON(map[string]interface{}{
			"imports": imports, "count": len(imports), "events": arc.CountEvents(),
		})
		return exitOK
	}
	if len(imports) == 0 {
		fmt.Println("no imports")
		return exitOK
	}
	for _, im := range imports {
		fmt.Printf("  #%-4d %-32s %8s events  %s\n",
			im.ID, im.Source, report.Count(im.Events), a.render.Relative(im.ImportedAt))
	}
	fmt.Printf("%s events in %s\n", report.Count(arc.CountEvents()), path)
	return exitOK
}

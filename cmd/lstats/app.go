package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/daviddao/loginstats/pkg/config"
	"github.com/daviddao/loginstats/pkg/logfile"
	"github.com/daviddao/loginstats/pkg/model"
	"github.com/daviddao/loginstats/pkg/records"
	"github.com/daviddao/loginstats/pkg/report"
	"github.com/daviddao/loginstats/pkg/store"
)

// app holds shared state for all CLI subcommands.
type app struct {
	cfg    *config.Config
	render report.Renderer
	stdin  io.Reader

	// openArchive opens the SQLite archive; tests swap in a fake.
	openArchive func(path string) (store.Archive, error)
}

// newApp loads configuration and installs the default logger.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return newAppWithConfig(cfg), nil
}

func newAppWithConfig(cfg *config.Config) *app {
	return &app{
		cfg:         cfg,
		render:      cfg.Renderer(),
		stdin:       os.Stdin,
		openArchive: openSQLiteArchive,
	}
}

func openSQLiteArchive(path string) (store.Archive, error) {
	s, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open archive %q: %w", path, err)
	}
	return s, nil
}

// source holds the --file/--db flags shared by every query command.
type source struct {
	file *string
	db   *string
}

func addSourceFlags(flags *flag.FlagSet) source {
	return source{
		file: flags.String("file", "", "text log to load"),
		db:   flags.String("db", "", "SQLite archive to load"),
	}
}

// load builds the event list from the first configured input: --file,
// --db, LOGINSTATS_FILE, then the default archive if it exists. When user
// is non-empty an archive only returns that user's events; sessions never
// pair events of different users, so query results are unchanged.
func (a *app) load(src source, user string) (*records.List, error) {
	var (
		events []model.Event
		err    error
	)
	switch {
	case *src.file != "":
		events, err = logfile.ReadFile(*src.file)
	case *src.db != "":
		events, err = a.loadArchive(*src.db, user)
	case a.cfg.LogFile != "":
		events, err = logfile.ReadFile(a.cfg.LogFile)
	case fileExists(a.cfg.DBPath):
		events, err = a.loadArchive(a.cfg.DBPath, user)
	default:
		return nil, errors.New("no input: pass --file or --db, or set LOGINSTATS_FILE")
	}
	if err != nil {
		return nil, err
	}

	list := records.New()
	for _, e := range events {
		if err := list.Add(e); err != nil {
			return nil, err
		}
	}
	slog.Debug("events loaded", "events", list.Len())
	return list, nil
}

func (a *app) loadArchive(path, user string) ([]model.Event, error) {
	arc, err := a.openArchive(path)
	if err != nil {
		return nil, err
	}
	defer arc.Close()
	if user != "" {
		return arc.ListEventsForUser(user)
	}
	return arc.ListEvents()
}

// queryFailed reports a failed query. A missing user or session prints the
// no-match message and yields exitNotFound; anything else is an error.
func queryFailed(cmd, user string, err error) int {
	if errors.Is(err, model.ErrNotFound) {
		slog.Debug("query found nothing", "command", cmd, "user", user, "error", err)
		fmt.Println(report.NoMatch(user))
		return exitNotFound
	}
	fmt.Fprintf(os.Stderr, "lstats: %s: %v\n", cmd, err)
	return exitError
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// Package store keeps terminal logs in a SQLite archive.
//
// The archive is an input format, not a query index: events are returned
// in the order they were imported and the caller loads them into a
// records.List, which owns time ordering and session matching. Importing a
// text log once lets later runs skip parsing, and several logs can be
// appended to one archive.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/daviddao/loginstats/pkg/model"

	_ "modernc.org/sqlite"
)

// Store is a SQLite event archive opened in WAL mode.
type Store struct {
	db *sql.DB
}

// Import describes one batch of events appended to the archive.
type Import struct {
	ID         int64     `json:"id"`
	Source     string    `json:"source"`
	Events     int64     `json:"events"`
	ImportedAt time.Time `json:"imported_at"`
}

// New opens (or creates) the archive at path and initializes the schema.
func New(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func retryOnContention(op string, fn func() error) error {
	return retryOp(defaultRetryConfig, op, fn)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS imports (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		source      TEXT NOT NULL,
		events      INTEGER NOT NULL DEFAULT 0,
		imported_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		import_id INTEGER NOT NULL REFERENCES imports(id),
		terminal  INTEGER NOT NULL CHECK (terminal > 0),
		kind      TEXT NOT NULL CHECK (kind IN ('login', 'logout')),
		username  TEXT NOT NULL,
		ts_ms     INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_username ON events(username, id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

// InsertEvents appends events as one import batch labelled source and
// returns the batch ID. The batch is written in a single transaction.
func (s *Store) InsertEvents(source string, events []model.Event) (int64, error) {
	var importID int64
	err := retryOnContention("insert events", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		res, err := tx.Exec(
			`INSERT INTO imports (source, events, imported_at) VALUES (?, ?, ?)`,
			source, len(events), time.Now().UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert import: %w", err)
		}
		if importID, err = res.LastInsertId(); err != nil {
			return err
		}

		stmt, err := tx.Prepare(
			`INSERT INTO events (import_id, terminal, kind, username, ts_ms) VALUES (?, ?, ?, ?, ?)`,
		)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, e := range events {
			if _, err := stmt.Exec(importID, e.Terminal, string(e.Kind), e.Username, e.Millis()); err != nil {
				return fmt.Errorf("insert event %s: %w", e, err)
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return importID, nil
}

// ListEvents returns every archived event in import order.
func (s *Store) ListEvents() ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT terminal, kind, username, ts_ms FROM events ORDER BY id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListEventsForUser returns user's archived events in import order.
func (s *Store) ListEventsForUser(user string) ([]model.Event, error) {
	rows, err := s.db.Query(
		`SELECT terminal, kind, username, ts_ms FROM events WHERE username = ? ORDER BY id ASC`,
		user,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// CountEvents returns the number of archived events, or 0 on error.
func (s *Store) CountEvents() int64 {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// ListUsers returns the distinct usernames in the archive, sorted.
func (s *Store) ListUsers() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT username FROM events ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListImports returns the import batches, oldest first.
func (s *Store) ListImports() ([]Import, error) {
	rows, err := s.db.Query(
		`SELECT id, source, events, imported_at FROM imports ORDER BY id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var imports []Import
	for rows.Next() {
		var im Import
		var at string
		if err := rows.Scan(&im.ID, &im.Source, &im.Events, &at); err != nil {
			return nil, err
		}
		var parseErr error
		im.ImportedAt, parseErr = time.Parse(time.RFC3339Nano, at)
		if parseErr != nil {
			return nil, fmt.Errorf("parse imported_at for import %d: %w", im.ID, parseErr)
		}
		imports = append(imports, im)
	}
	return imports, rows.Err()
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	var events []model.Event
	for rows.Next() {
		var (
			terminal int
			kind     string
			username string
			ms       int64
		)
		if err := rows.Scan(&terminal, &kind, &username, &ms); err != nil {
			return nil, err
		}
		e, err := model.NewEvent(terminal, model.Kind(kind), username, time.UnixMilli(ms))
		if err != nil {
			return nil, fmt.Errorf("archived event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

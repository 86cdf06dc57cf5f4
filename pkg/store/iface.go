// iface.go defines Archive so the CLI can load events from a fake in tests.
package store

import "github.com/daviddao/loginstats/pkg/model"

// Archive is the set of archive operations the CLI depends on.
type Archive interface {
	// Close closes the database connection.
	Close() error

	// InsertEvents appends one import batch and returns its ID.
	InsertEvents(source string, events []model.Event) (int64, error)

	// ListEvents returns every archived event in import order.
	ListEvents() ([]model.Event, error)

	// ListEventsForUser returns one user's events in import order.
	ListEventsForUser(user string) ([]model.Event, error)

	// CountEvents returns the number of archived events.
	CountEvents() int64

	// ListUsers returns the distinct usernames, sorted.
	ListUsers() ([]string, error)

	// ListImports returns the import batches, oldest first.
	ListImports() ([]Import, error)
}

// Compile-time check that *Store implements Archive.
var _ Archive = (*Store)(nil)

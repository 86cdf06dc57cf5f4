// Package model defines the core domain types for loginstats.
//
// A terminal log is a stream of login and logout events. Each event names a
// user, a terminal and a millisecond-precision instant. Sessions are
// reconstructed by pairing a login with the first later logout by the same
// user on the same terminal; a login with no such logout is an open session.
package model

import (
	"cmp"
	"fmt"
	"time"
)

// Kind enumerates the two event types in a terminal log.
type Kind string

const (
	KindLogin  Kind = "login"
	KindLogout Kind = "logout"
)

// Event is a single login or logout occurrence. Events order by Time only;
// equal times are left to the container's insertion order.
type Event struct {
	Terminal int       `json:"terminal"`
	Kind     Kind      `json:"kind"`
	Username string    `json:"username"`
	Time     time.Time `json:"time"`
}

// NewEvent validates its arguments and returns an Event whose Time is
// truncated to the millisecond.
func NewEvent(terminal int, kind Kind, username string, t time.Time) (Event, error) {
	if terminal <= 0 {
		return Event{}, fmt.Errorf("%w: terminal number must be positive, got %d", ErrInvalidArgument, terminal)
	}
	if kind != KindLogin && kind != KindLogout {
		return Event{}, fmt.Errorf("%w: unknown event kind %q", ErrInvalidArgument, kind)
	}
	if username == "" {
		return Event{}, fmt.Errorf("%w: username must not be empty", ErrInvalidArgument)
	}
	return Event{
		Terminal: terminal,
		Kind:     kind,
		Username: username,
		Time:     time.UnixMilli(t.UnixMilli()),
	}, nil
}

// IsLogin reports whether e opens a session.
func (e Event) IsLogin() bool { return e.Kind == KindLogin }

// IsLogout reports whether e closes a session.
func (e Event) IsLogout() bool { return e.Kind == KindLogout }

// Millis returns the event time as milliseconds since the Unix epoch.
func (e Event) Millis() int64 { return e.Time.UnixMilli() }

// Compare orders events by time.
func (e Event) Compare(other Event) int {
	return cmp.Compare(e.Millis(), other.Millis())
}

// Equal reports structural equality over all four fields.
func (e Event) Equal(other Event) bool {
	return e.Terminal == other.Terminal &&
		e.Kind == other.Kind &&
		e.Username == other.Username &&
		e.Millis() == other.Millis()
}

// Closes reports whether e is a logout by the same user on the same terminal
// as login. It does not look at time.
func (e Event) Closes(login Event) bool {
	return e.IsLogout() && e.Username == login.Username && e.Terminal == login.Terminal
}

func (e Event) String() string {
	sign := ""
	if e.IsLogout() {
		sign = "-"
	}
	return fmt.Sprintf("%s%d %d %s", sign, e.Terminal, e.Millis(), e.Username)
}

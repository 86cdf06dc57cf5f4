package model

import (
	"cmp"
	"encoding/json"
	"fmt"
	"time"
)

// ActiveDuration is the Duration of a session that has no logout yet.
const ActiveDuration int64 = -1

// Session pairs a login event with its logout. A nil logout means the user
// is still logged in. Sessions order by login time.
type Session struct {
	login  Event
	logout *Event
}

// NewSession validates the pair and returns a Session. logout may be nil.
func NewSession(login, logout *Event) (Session, error) {
	if login == nil {
		return Session{}, fmt.Errorf("%w: login record cannot be nil", ErrInvalidArgument)
	}
	if !login.IsLogin() {
		return Session{}, fmt.Errorf("%w: session must start with a login record", ErrInvalidArgument)
	}
	if logout == nil {
		return Session{login: *login}, nil
	}
	switch {
	case !logout.IsLogout():
		return Session{}, fmt.Errorf("%w: invalid session records", ErrInvalidArgument)
	case login.Username != logout.Username:
		return Session{}, fmt.Errorf("%w: usernames do not match (%q, %q)", ErrInvalidArgument, login.Username, logout.Username)
	case login.Terminal != logout.Terminal:
		return Session{}, fmt.Errorf("%w: terminal numbers do not match (%d, %d)", ErrInvalidArgument, login.Terminal, logout.Terminal)
	case login.Compare(*logout) > 0:
		return Session{}, fmt.Errorf("%w: login time is after logout time", ErrInvalidArgument)
	}
	out := *logout
	return Session{login: *login, logout: &out}, nil
}

// Login returns the event that opened the session.
func (s Session) Login() Event { return s.login }

// Logout returns the closing event and true, or false for an open session.
func (s Session) Logout() (Event, bool) {
	if s.logout == nil {
		return Event{}, false
	}
	return *s.logout, true
}

// Active reports whether the session has no logout.
func (s Session) Active() bool { return s.logout == nil }

func (s Session) Username() string     { return s.login.Username }
func (s Session) Terminal() int        { return s.login.Terminal }
func (s Session) LoginTime() time.Time { return s.login.Time }

// LogoutTime returns the zero time for an open session.
func (s Session) LogoutTime() time.Time {
	if s.logout == nil {
		return time.Time{}
	}
	return s.logout.Time
}

// Duration returns the session length in milliseconds, or ActiveDuration
// if the session is still open.
func (s Session) Duration() int64 {
	if s.logout == nil {
		return ActiveDuration
	}
	return s.logout.Millis() - s.login.Millis()
}

// Compare orders sessions by login time.
func (s Session) Compare(other Session) int {
	return cmp.Compare(s.login.Millis(), other.login.Millis())
}

// Equal reports structural equality; two open sessions with equal logins
// are equal.
func (s Session) Equal(other Session) bool {
	if !s.login.Equal(other.login) {
		return false
	}
	if s.logout == nil || other.logout == nil {
		return s.logout == nil && other.logout == nil
	}
	return s.logout.Equal(*other.logout)
}

func (s Session) String() string {
	if s.logout == nil {
		return fmt.Sprintf("{%s -> active}", s.login)
	}
	return fmt.Sprintf("{%s -> %s}", s.login, *s.logout)
}

type sessionJSON struct {
	Username   string     `json:"username"`
	Terminal   int        `json:"terminal"`
	LoginTime  time.Time  `json:"login_time"`
	LogoutTime *time.Time `json:"logout_time,omitempty"`
	DurationMS int64      `json:"duration_ms"`
	Active     bool       `json:"active"`
}

// MarshalJSON flattens the session for machine-readable output.
func (s Session) MarshalJSON() ([]byte, error) {
	v := sessionJSON{
		Username:   s.Username(),
		Terminal:   s.Terminal(),
		LoginTime:  s.login.Time,
		DurationMS: s.Duration(),
		Active:     s.Active(),
	}
	if s.logout != nil {
		t := s.logout.Time
		v.LogoutTime = &t
	}
	return json.Marshal(v)
}

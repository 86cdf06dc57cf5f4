// Package records reconstructs login sessions from a time-ordered log of
// terminal events.
//
// A List keeps every loaded event in ascending time order (ties stay in
// load order) and answers per-user queries by scanning it. A login is
// paired with the first later logout by the same user on the same
// terminal. Matching is greedy and does not consume logouts: if a terminal
// is logged into twice before its logout appears, both logins pair with
// that one logout.
//
// Load every event before querying. A List is not safe for concurrent use.
package records

import (
	"fmt"
	"strings"

	"github.com/daviddao/loginstats/pkg/model"
	"github.com/daviddao/loginstats/pkg/sorted"
)

// List is the ordered event log of one terminal log file.
type List struct {
	events sorted.List[model.Event]
}

// New returns an empty List.
func New() *List { return &List{} }

// Add inserts e in time order.
func (l *List) Add(e model.Event) error {
	if err := l.events.Add(e); err != nil {
		return fmt.Errorf("add event %s: %w", e, err)
	}
	return nil
}

// Len returns the number of loaded events.
func (l *List) Len() int { return l.events.Len() }

// Events returns the loaded events in time order.
func (l *List) Events() []model.Event { return l.events.Values() }

// Recent returns up to n of the latest events, newest first.
func (l *List) Recent(n int) []model.Event {
	var out []model.Event
	for _, e := range l.events.Backward() {
		if len(out) >= n {
			break
		}
		out = append(out, e)
	}
	return out
}

// Users returns each distinct username once, in order of first appearance.
func (l *List) Users() []string {
	seen := make(map[string]bool)
	var users []string
	for e := range l.events.All() {
		if !seen[e.Username] {
			seen[e.Username] = true
			users = append(users, e.Username)
		}
	}
	return users
}

// FirstSession returns the session opened by user's earliest login. The
// session is open if no matching logout follows it.
func (l *List) FirstSession(user string) (model.Session, error) {
	if err := checkUser(user); err != nil {
		return model.Session{}, err
	}
	events := l.events.Values()
	for i := range events {
		if isLoginBy(events[i], user) {
			return pair(events, i)
		}
	}
	return model.Session{}, fmt.Errorf("%w: no first session found for user %q", model.ErrNotFound, user)
}

// LastSession returns the session opened by user's latest login. It does
// not check whether the terminal was logged into again before the matched
// logout.
func (l *List) LastSession(user string) (model.Session, error) {
	if err := checkUser(user); err != nil {
		return model.Session{}, err
	}
	events := l.events.Values()
	for i := len(events) - 1; i >= 0; i-- {
		if isLoginBy(events[i], user) {
			return pair(events, i)
		}
	}
	return model.Session{}, fmt.Errorf("%w: no last session found for user %q", model.ErrNotFound, user)
}

// AllSessions returns one session per login by user, ordered by login time.
func (l *List) AllSessions(user string) (*sorted.List[model.Session], error) {
	if err := checkUser(user); err != nil {
		return nil, err
	}
	sessions := sorted.New[model.Session]()
	events := l.events.Values()
	for i := range events {
		if !isLoginBy(events[i], user) {
			continue
		}
		s, err := pair(events, i)
		if err != nil {
			return nil, err
		}
		if err := sessions.Add(s); err != nil {
			return nil, err
		}
	}
	if sessions.Len() == 0 {
		return nil, fmt.Errorf("%w: no sessions found for user %q", model.ErrNotFound, user)
	}
	return sessions, nil
}

// TotalTime returns the summed length, in milliseconds, of user's closed
// sessions. Open sessions add nothing. A total of zero is reported as
// ErrNotFound, so a user whose sessions are all open or zero-length is
// indistinguishable from an unknown user.
func (l *List) TotalTime(user string) (int64, error) {
	if err := checkUser(user); err != nil {
		return 0, err
	}
	var total int64
	events := l.events.Values()
	for i := range events {
		if !isLoginBy(events[i], user) {
			continue
		}
		if j := logoutAfter(events, i); j >= 0 {
			total += events[j].Millis() - events[i].Millis()
		}
	}
	if total == 0 {
		return 0, fmt.Errorf("%w: user %q not found in the records", model.ErrNotFound, user)
	}
	return total, nil
}

func checkUser(user string) error {
	if strings.TrimSpace(user) == "" {
		return fmt.Errorf("%w: invalid user %q", model.ErrInvalidArgument, user)
	}
	return nil
}

func isLoginBy(e model.Event, user string) bool {
	return e.IsLogin() && e.Username == user
}

// logoutAfter returns the index of the first logout after i that closes
// events[i], or -1.
func logoutAfter(events []model.Event, i int) int {
	for j := i + 1; j < len(events); j++ {
		if events[j].Closes(events[i]) {
			return j
		}
	}
	return -1
}

// pair builds the session opened by events[i].
func pair(events []model.Event, i int) (model.Session, error) {
	login := events[i]
	j := logoutAfter(events, i)
	if j < 0 {
		return model.NewSession(&login, nil)
	}
	logout := events[j]
	return model.NewSession(&login, &logout)
}

package records

import (
	"errors"
	"testing"
	"time"

	"github.com/daviddao/loginstats/pkg/model"
)

// ev builds an event from the log-file convention: a negative terminal is
// a logout.
func ev(t *testing.T, terminal int, ms int64, user string) model.Event {
	t.Helper()
	kind := model.KindLogin
	if terminal < 0 {
		kind = model.KindLogout
		terminal = -terminal
	}
	e, err := model.NewEvent(terminal, kind, user, time.UnixMilli(ms))
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	return e
}

func newTestList(t *testing.T, events ...model.Event) *List {
	t.Helper()
	l := New()
	for _, e := range events {
		if err := l.Add(e); err != nil {
			t.Fatalf("Add(%s): %v", e, err)
		}
	}
	return l
}

func scenarioA(t *testing.T) *List {
	return newTestList(t,
		ev(t, 1, 100, "alice"),
		ev(t, -1, 200, "alice"),
	)
}

func TestScenarioA_FirstSession(t *testing.T) {
	s, err := scenarioA(t).FirstSession("alice")
	if err != nil {
		t.Fatalf("FirstSession: %v", err)
	}
	out, ok := s.Logout()
	if !ok {
		t.Fatal("expected closed session")
	}
	if s.Login().Millis() != 100 || out.Millis() != 200 || s.Duration() != 100 {
		t.Fatalf("got login=%d logout=%d duration=%d, want 100/200/100",
			s.Login().Millis(), out.Millis(), s.Duration())
	}
}

func TestScenarioB_TotalTime(t *testing.T) {
	l := scenarioA(t)
	l.Add(ev(t, 2, 300, "alice"))
	l.Add(ev(t, -2, 500, "alice"))

	total, err := l.TotalTime("alice")
	if err != nil {
		t.Fatalf("TotalTime: %v", err)
	}
	if total != 300 {
		t.Fatalf("TotalTime = %d, want 300", total)
	}
}

func TestScenarioC_OpenSession(t *testing.T) {
	l := newTestList(t, ev(t, 1, 100, "bob"))
	sessions, err := l.AllSessions("bob")
	if err != nil {
		t.Fatalf("AllSessions: %v", err)
	}
	if sessions.Len() != 1 {
		t.Fatalf("got %d sessions, want 1", sessions.Len())
	}
	s, _ := sessions.Get(0)
	if !s.Active() || s.Duration() != -1 {
		t.Fatalf("got active=%v duration=%d, want open session", s.Active(), s.Duration())
	}
}

func TestScenarioD_UnknownUser(t *testing.T) {
	l := newTestList(t,
		ev(t, 1, 100, "alice"),
		ev(t, -1, 200, "alice"),
	)
	if _, err := l.FirstSession("carol"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("FirstSession err = %v, want ErrNotFound", err)
	}
	if _, err := l.LastSession("carol"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("LastSession err = %v, want ErrNotFound", err)
	}
	if _, err := l.AllSessions("carol"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("AllSessions err = %v, want ErrNotFound", err)
	}
	if _, err := l.TotalTime("carol"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("TotalTime err = %v, want ErrNotFound", err)
	}
}

func TestScenarioE_InvalidUser(t *testing.T) {
	for _, user := range []string{"", "   "} {
		// Empty list: the check must not depend on data.
		l := New()
		if _, err := l.FirstSession(user); !errors.Is(err, model.ErrInvalidArgument) {
			t.Errorf("FirstSession(%q) err = %v", user, err)
		}
		if _, err := l.LastSession(user); !errors.Is(err, model.ErrInvalidArgument) {
			t.Errorf("LastSession(%q) err = %v", user, err)
		}
		if _, err := l.AllSessions(user); !errors.Is(err, model.ErrInvalidArgument) {
			t.Errorf("AllSessions(%q) err = %v", user, err)
		}
		if _, err := l.TotalTime(user); !errors.Is(err, model.ErrInvalidArgument) {
			t.Errorf("TotalTime(%q) err = %v", user, err)
		}
	}
}

func TestAdd_OutOfOrderInputIsSorted(t *testing.T) {
	l := newTestList(t,
		ev(t, -1, 500, "alice"),
		ev(t, 2, 100, "bob"),
		ev(t, 1, 300, "alice"),
		ev(t, -2, 400, "bob"),
	)
	events := l.Events()
	for i := 1; i < len(events); i++ {
		if events[i-1].Millis() > events[i].Millis() {
			t.Fatalf("events out of order at %d: %v", i, events)
		}
	}
	s, err := l.FirstSession("alice")
	if err != nil {
		t.Fatal(err)
	}
	if s.Duration() != 200 {
		t.Fatalf("Duration = %d, want 200", s.Duration())
	}
}

func TestFirstSession_SkipsOtherUsersAndTerminals(t *testing.T) {
	l := newTestList(t,
		ev(t, 1, 100, "alice"),
		ev(t, -1, 150, "bob"),
		ev(t, -2, 160, "alice"),
		ev(t, -1, 400, "alice"),
	)
	s, err := l.FirstSession("alice")
	if err != nil {
		t.Fatal(err)
	}
	out, _ := s.Logout()
	if out.Millis() != 400 {
		t.Fatalf("matched logout at %d, want 400", out.Millis())
	}
}

func TestFirstSession_LogoutBeforeLoginIgnored(t *testing.T) {
	l := newTestList(t,
		ev(t, -1, 50, "alice"),
		ev(t, 1, 100, "alice"),
	)
	s, err := l.FirstSession("alice")
	if err != nil {
		t.Fatal(err)
	}
	if !s.Active() {
		t.Fatal("logout that precedes the login must not close it")
	}
}

func TestLastSession(t *testing.T) {
	l := newTestList(t,
		ev(t, 1, 100, "alice"),
		ev(t, -1, 200, "alice"),
		ev(t, 3, 300, "alice"),
		ev(t, 1, 350, "bob"),
		ev(t, -3, 900, "alice"),
	)
	s, err := l.LastSession("alice")
	if err != nil {
		t.Fatal(err)
	}
	if s.Login().Millis() != 300 || s.Terminal() != 3 || s.Duration() != 600 {
		t.Fatalf("got login=%d terminal=%d duration=%d", s.Login().Millis(), s.Terminal(), s.Duration())
	}
}

func TestLastSession_Open(t *testing.T) {
	l := newTestList(t,
		ev(t, 1, 100, "alice"),
		ev(t, -1, 200, "alice"),
		ev(t, 1, 300, "alice"),
	)
	s, err := l.LastSession("alice")
	if err != nil {
		t.Fatal(err)
	}
	if !s.Active() || s.Login().Millis() != 300 {
		t.Fatalf("got %v, want open session at 300", s)
	}
}

// Greedy, non-consuming matching: two logins on the same terminal before a
// logout both pair with that logout.
func TestAllSessions_SharedLogout(t *testing.T) {
	l := newTestList(t,
		ev(t, 1, 100, "alice"),
		ev(t, 1, 200, "alice"),
		ev(t, -1, 300, "alice"),
	)
	sessions, err := l.AllSessions("alice")
	if err != nil {
		t.Fatal(err)
	}
	if sessions.Len() != 2 {
		t.Fatalf("got %d sessions, want 2", sessions.Len())
	}
	a, _ := sessions.Get(0)
	b, _ := sessions.Get(1)
	outA, _ := a.Logout()
	outB, _ := b.Logout()
	if !outA.Equal(outB) {
		t.Fatalf("both sessions should share the logout: %v, %v", outA, outB)
	}
	if a.Duration() != 200 || b.Duration() != 100 {
		t.Fatalf("durations = %d, %d, want 200, 100", a.Duration(), b.Duration())
	}

	total, err := l.TotalTime("alice")
	if err != nil {
		t.Fatal(err)
	}
	if total != 300 {
		t.Fatalf("TotalTime = %d, want 300 (shared logout counted twice)", total)
	}
}

func TestAllSessions_OrderedByLogin(t *testing.T) {
	l := newTestList(t,
		ev(t, 2, 500, "alice"),
		ev(t, 1, 100, "alice"),
		ev(t, -1, 300, "alice"),
		ev(t, -2, 700, "alice"),
		ev(t, 4, 800, "alice"),
		ev(t, 1, 200, "bob"),
	)
	sessions, err := l.AllSessions("alice")
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		login    int64
		duration int64
	}{
		{100, 200},
		{500, 200},
		{800, -1},
	}
	if sessions.Len() != len(want) {
		t.Fatalf("got %d sessions, want %d: %s", sessions.Len(), len(want), sessions)
	}
	i := 0
	for s := range sessions.All() {
		if s.Login().Millis() != want[i].login || s.Duration() != want[i].duration {
			t.Fatalf("session %d: login=%d duration=%d, want %+v",
				i, s.Login().Millis(), s.Duration(), want[i])
		}
		i++
	}
}

// A known user whose sessions are all open or zero-length has a total of
// zero, which is reported exactly like an unknown user.
func TestTotalTime_ZeroIsNotFound(t *testing.T) {
	cases := []struct {
		name   string
		events func(t *testing.T) []model.Event
	}{
		{"only open sessions", func(t *testing.T) []model.Event {
			return []model.Event{ev(t, 1, 100, "dave"), ev(t, 2, 200, "dave")}
		}},
		{"zero-length session", func(t *testing.T) []model.Event {
			return []model.Event{ev(t, 1, 100, "dave"), ev(t, -1, 100, "dave")}
		}},
		{"only logouts", func(t *testing.T) []model.Event {
			return []model.Event{ev(t, -1, 100, "dave")}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestList(t, tc.events(t)...)
			if _, err := l.TotalTime("dave"); !errors.Is(err, model.ErrNotFound) {
				t.Fatalf("TotalTime err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestTotalTime_IgnoresOpenSessions(t *testing.T) {
	l := newTestList(t,
		ev(t, 1, 100, "alice"),
		ev(t, -1, 250, "alice"),
		ev(t, 2, 300, "alice"),
	)
	total, err := l.TotalTime("alice")
	if err != nil {
		t.Fatal(err)
	}
	if total != 150 {
		t.Fatalf("TotalTime = %d, want 150", total)
	}
}

func TestTies_KeepLoadOrder(t *testing.T) {
	// Logout loaded before a login at the same instant stays before it, so
	// it cannot close that login.
	l := newTestList(t,
		ev(t, -1, 100, "alice"),
		ev(t, 1, 100, "alice"),
	)
	s, err := l.FirstSession("alice")
	if err != nil {
		t.Fatal(err)
	}
	if !s.Active() {
		t.Fatal("earlier-loaded logout at equal time should not close the login")
	}

	l = newTestList(t,
		ev(t, 1, 100, "alice"),
		ev(t, -1, 100, "alice"),
	)
	s, err = l.FirstSession("alice")
	if err != nil {
		t.Fatal(err)
	}
	if s.Active() || s.Duration() != 0 {
		t.Fatalf("got %v, want zero-length closed session", s)
	}
}

func TestUsers(t *testing.T) {
	l := newTestList(t,
		ev(t, 1, 300, "carol"),
		ev(t, 1, 100, "bob"),
		ev(t, -1, 200, "bob"),
		ev(t, 2, 250, "alice"),
	)
	got := l.Users()
	want := []string{"bob", "alice", "carol"}
	if len(got) != len(want) {
		t.Fatalf("Users = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Users = %v, want %v", got, want)
		}
	}
}

func TestRecent(t *testing.T) {
	l := newTestList(t,
		ev(t, 1, 100, "alice"),
		ev(t, -1, 200, "alice"),
		ev(t, 2, 300, "bob"),
	)
	got := l.Recent(2)
	if len(got) != 2 || got[0].Millis() != 300 || got[1].Millis() != 200 {
		t.Fatalf("Recent(2) = %v", got)
	}
	if n := len(l.Recent(10)); n != 3 {
		t.Fatalf("Recent(10) returned %d events, want 3", n)
	}
	if n := len(l.Recent(0)); n != 0 {
		t.Fatalf("Recent(0) returned %d events, want 0", n)
	}
}

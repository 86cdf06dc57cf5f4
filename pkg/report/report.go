// Package report renders sessions and login totals for people.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/daviddao/loginstats/pkg/model"
)

// DefaultLayout prints instants as "Tue Feb 28 13:32:11 EST 2017".
const DefaultLayout = "Mon Jan 02 15:04:05 MST 2006"

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Renderer formats sessions in a fixed time zone and layout. The zero value
// uses the local zone and DefaultLayout.
type Renderer struct {
	Location *time.Location
	Layout   string
	// Now anchors relative times ("3 days ago"). Nil means time.Now.
	Now func() time.Time
}

// Split breaks a millisecond count into whole days, hours, minutes and
// seconds. Leftover milliseconds are dropped.
func Split(ms int64) (days, hours, minutes, seconds int64) {
	days = ms / msPerDay
	ms %= msPerDay
	hours = ms / msPerHour
	ms %= msPerHour
	minutes = ms / msPerMinute
	ms %= msPerMinute
	return days, hours, minutes, ms / msPerSecond
}

// Duration renders ms as "1 days, 2 hours, 3 minutes, 4 seconds".
func Duration(ms int64) string {
	d, h, m, s := Split(ms)
	return fmt.Sprintf("%d days, %d hours, %d minutes, %d seconds", d, h, m, s)
}

// Compact renders ms as "1d 2h 3m 4s".
func Compact(ms int64) string {
	d, h, m, s := Split(ms)
	return fmt.Sprintf("%dd %dh %dm %ds", d, h, m, s)
}

// Total renders a user's cumulative login time.
func Total(user string, ms int64) string {
	return fmt.Sprintf("%s, total duration %s", user, Compact(ms))
}

// Count renders n with thousands separators.
func Count(n int64) string { return humanize.Comma(n) }

// Time formats t in the renderer's zone and layout.
func (r Renderer) Time(t time.Time) string {
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	layout := r.Layout
	if layout == "" {
		layout = DefaultLayout
	}
	return t.In(loc).Format(layout)
}

// Relative renders t relative to the renderer's clock, e.g. "3 days ago".
func (r Renderer) Relative(t time.Time) string {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Session renders s over three lines (two for an open session):
//
//	alice, terminal 1, duration 0 days, 0 hours, 1 minutes, 40 seconds
//	 logged in: ...
//	 logged out: ...
func (r Renderer) Session(s model.Session) string {
	var b strings.Builder
	if s.Active() {
		fmt.Fprintf(&b, "%s, terminal %d, duration active session\n", s.Username(), s.Terminal())
		fmt.Fprintf(&b, " logged in: %s\n", r.Time(s.LoginTime()))
		b.WriteString(" logged out: still logged in")
		return b.String()
	}
	fmt.Fprintf(&b, "%s, terminal %d, duration %s\n", s.Username(), s.Terminal(), Duration(s.Duration()))
	fmt.Fprintf(&b, " logged in: %s\n", r.Time(s.LoginTime()))
	fmt.Fprintf(&b, " logged out: %s", r.Time(s.LogoutTime()))
	return b.String()
}

// NoMatch is the message shown when a query finds nothing for user.
func NoMatch(user string) string {
	return fmt.Sprintf("No user matching %s found.", user)
}

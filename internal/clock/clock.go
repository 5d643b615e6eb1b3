// Package clock supplies the reference "today" used by all scheduling math.
// Components never read the wall clock directly; they hold a Clock so the
// whole engine can run against a pinned date.
package clock

import (
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date layout used on every boundary.
const DateLayout = "2006-01-02"

// Clock returns the authoritative current date at day granularity.
type Clock interface {
	// Today returns the reference date normalized to midnight UTC.
	Today() time.Time
}

type systemClock struct{}

func (systemClock) Today() time.Time { return Normalize(time.Now().UTC()) }

// System returns a Clock backed by the real wall clock.
func System() Clock { return systemClock{} }

type fixedClock struct{ day time.Time }

func (f fixedClock) Today() time.Time { return f.day }

// Fixed returns a Clock pinned to the given date.
func Fixed(day time.Time) Clock { return fixedClock{day: Normalize(day)} }

// Normalize strips the time-of-day and zone, leaving midnight UTC.
func Normalize(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO-8601 calendar date into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Normalize(t), nil
}

// FormatDate renders a date in the ISO-8601 calendar layout.
func FormatDate(t time.Time) string { return t.UTC().Format(DateLayout) }

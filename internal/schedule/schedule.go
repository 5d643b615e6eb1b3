// Package schedule holds the pure spaced-repetition interval policy and the
// read-time temporal classification of scheduled dates. Everything here is a
// pure function of its arguments; "today" always arrives as a parameter.
package schedule

import "time"

// FirstInterval is the interval, in days, of a topic's first revision.
const FirstInterval = 1

// NextInterval returns the interval earned by completing a revision with the
// given current interval: doubling growth, producing 1, 2, 4, 8, 16, … days.
func NextInterval(current int) int {
	if current < FirstInterval {
		current = FirstInterval
	}
	return current * 2
}

// NextDate returns the scheduled date of the successor revision created by a
// completion: today plus the already-advanced interval.
func NextDate(today time.Time, interval int) time.Time {
	return today.AddDate(0, 0, interval)
}

// PostponeTarget returns the date a postponed revision moves to. The offset
// is applied to the original scheduled date, not to today, so postponing an
// already-overdue revision does not compound drift. Postponement never
// touches the interval: it is a schedule shift, not a learning event.
func PostponeTarget(scheduled time.Time, days int) time.Time {
	return scheduled.AddDate(0, 0, days)
}

// Temporal is the derived position of a scheduled date relative to today.
// It is computed at read time and never persisted.
type Temporal string

const (
	Today    Temporal = "today"
	Tomorrow Temporal = "tomorrow"
	Overdue  Temporal = "overdue"
	Upcoming Temporal = "upcoming"
)

// Classify labels a scheduled date against the reference date. The four
// labels are mutually exclusive and exhaustive over all dates.
func Classify(scheduled, today time.Time) Temporal {
	switch {
	case scheduled.Before(today):
		return Overdue
	case scheduled.Equal(today):
		return Today
	case scheduled.Equal(today.AddDate(0, 0, 1)):
		return Tomorrow
	default:
		return Upcoming
	}
}

// Package civiltime owns every month/day boundary decision in the app.
// All calendar math happens in one fixed civil timezone, never the server's
// local zone and never UTC, so month labels and due days stay stable no
// matter where the service runs.
package civiltime

import (
	"fmt"
	"time"
)

// DefaultLocation is the civil timezone used when none is configured.
const DefaultLocation = "Asia/Dubai"

// labelFormat renders "Feb 2026" style month labels. Two months are the same
// budgeting period iff their labels are equal as strings.
const labelFormat = "Jan 2006"

// Clock supplies the current instant. Services take a Clock so tests can pin time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Calendar converts instants to civil dates and labels in its fixed location.
type Calendar struct {
	loc *time.Location
}

// NewCalendar loads the named timezone. An empty name selects DefaultLocation.
func NewCalendar(name string) (*Calendar, error) {
	if name == "" {
		name = DefaultLocation
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load civil timezone %q: %w", name, err)
	}
	return &Calendar{loc: loc}, nil
}

// MonthLabel returns the canonical label for the civil month containing t,
// e.g. "Feb 2026".
func (c *Calendar) MonthLabel(t time.Time) string {
	return t.In(c.loc).Format(labelFormat)
}

// CivilDate returns the (year, month, day) triple of t in the fixed timezone.
func (c *Calendar) CivilDate(t time.Time) (int, time.Month, int) {
	return t.In(c.loc).Date()
}

// LastDayOfMonth returns the number of days in the given civil month (28-31).
func LastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDueDay bounds a template's due day by the actual length of the target
// month, so due_day=31 behaves as due_day=30 in a 30-day month.
func ClampDueDay(dueDay, lastDay int) int {
	if dueDay > lastDay {
		return lastDay
	}
	return dueDay
}

// DueDayPassed reports whether today's civil date is on or after the effective
// due day within the target month, or in any later month. The comparison is
// lexicographic over (year, month) and then day against the effective due day.
func DueDayPassed(todayYear int, todayMonth time.Month, todayDay int, monthYear int, monthMonth time.Month, effectiveDueDay int) bool {
	if todayYear != monthYear {
		return todayYear > monthYear
	}
	if todayMonth != monthMonth {
		return todayMonth > monthMonth
	}
	return todayDay >= effectiveDueDay
}

// Package clock provides the application's notion of time, including
// the day boundary used for streaks and review scheduling.
package clock

import "time"

// Clock supplies the current time and the current learning day.
// The day boundary is configurable so that "a new day" can start at,
// for example, 4am local time rather than midnight UTC; all date-only
// values derived from Today are midnight-UTC timestamps.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time

	// Today returns the current learning day as a midnight-UTC date.
	Today() time.Time
}

// clock is the production Clock backed by the system time.
type clock struct {
	offset time.Duration
}

// New creates a Clock whose day boundary is shifted by the given
// offset. A 4-hour offset means activity at 3am still counts toward
// the previous day.
func New(dayBoundaryOffset time.Duration) Clock {
	return &clock{offset: dayBoundaryOffset}
}

func (c *clock) Now() time.Time {
	return time.Now().UTC()
}

func (c *clock) Today() time.Time {
	return DayOf(c.Now(), c.offset)
}

// DayOf maps an instant to its learning day given a day-boundary
// offset.
func DayOf(t time.Time, offset time.Duration) time.Time {
	t = t.Add(-offset).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Fixed is a Clock pinned to a single instant, for tests.
type Fixed struct {
	Instant time.Time
	Offset  time.Duration
}

// NewFixed creates a Clock that always reports the given instant.
func NewFixed(instant time.Time) *Fixed {
	return &Fixed{Instant: instant}
}

func (f *Fixed) Now() time.Time {
	return f.Instant.UTC()
}

func (f *Fixed) Today() time.Time {
	return DayOf(f.Instant, f.Offset)
}

package domain

import "time"

// StreakState tracks consecutive calendar days of learning activity
// for one enrollment. LastActiveDate is always a date-only value (the
// clock's day boundary applied, midnight UTC); a zero value means no
// activity has been recorded yet.
type StreakState struct {
	StreakDays     int       `json:"streak_days"`
	LastActiveDate time.Time `json:"last_active_date"`
}

// Started reports whether any activity has ever been recorded.
func (s StreakState) Started() bool {
	return !s.LastActiveDate.IsZero()
}

// IsStale reports whether an activity on the given day would be
// rejected because it predates the last recorded activity.
func (s StreakState) IsStale(today time.Time) bool {
	return s.Started() && TruncateToDay(today).Before(TruncateToDay(s.LastActiveDate))
}

// RecordActivity applies one day of activity to the streak:
//   - same day as LastActiveDate: no change
//   - exactly one day later: streak extends by one
//   - a larger gap, or no prior activity: streak resets to one
//   - earlier than LastActiveDate: rejected with ErrStaleEvent
func (s *StreakState) RecordActivity(today time.Time) error {
	day := TruncateToDay(today)

	if !s.Started() {
		s.StreakDays = 1
		s.LastActiveDate = day
		return nil
	}

	switch gap := DaysBetween(s.LastActiveDate, day); {
	case gap < 0:
		return ErrStaleEvent
	case gap == 0:
		// Repeat activity on the same day keeps the streak as is.
	case gap == 1:
		s.StreakDays++
		s.LastActiveDate = day
	default:
		s.StreakDays = 1
		s.LastActiveDate = day
	}
	return nil
}

// TruncateToDay strips the time-of-day portion, leaving midnight UTC.
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b.
// Negative when b is earlier than a.
func DaysBetween(a, b time.Time) int {
	return int(TruncateToDay(b).Sub(TruncateToDay(a)).Hours() / 24)
}

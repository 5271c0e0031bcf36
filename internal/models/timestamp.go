package models

import "time"

// NextTimestamp returns the current UTC time, nudged forward when the clock
// has not advanced past prev. Relational backends keep microseconds, so the
// nudge is one microsecond.
func NextTimestamp(prev time.Time) time.Time {
	now := time.Now().UTC().Truncate(time.Microsecond)
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}

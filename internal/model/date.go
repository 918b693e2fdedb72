package model

import "time"

// DateLayout is the canonical format for session dates in storage and output.
const DateLayout = "2006-01-02"

// Date builds a date-only value at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf strips the time-of-day from t, keeping the calendar date as t's
// own location sees it. Session dates are always carried this way so that
// two timestamps on the same local day compare equal.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

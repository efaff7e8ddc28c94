package receivable

import "time"

// DateOf truncates t to its calendar date, keeping the year, month and day
// as seen in t's own location. The result is midnight UTC so that date
// arithmetic is never affected by daylight saving transitions.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from "from" to "to".
// The result is negative when "to" is earlier than "from".
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)) / (24 * time.Hour))
}

// Date builds a calendar date. Convenience for callers that work with
// year/month/day values (fixtures, parsers).
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

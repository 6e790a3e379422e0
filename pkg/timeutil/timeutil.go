// Package timeutil provides calendar-day utilities in UTC.
// Statistics buckets, activity logs and cache expiry all operate on UTC
// calendar days, so day-boundary math lives here in one place.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// FormatDate is the standard date format (YYYY-MM-DD) used for
// statistics bucket keys and same-day comparisons.
const FormatDate = "2006-01-02"

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// StartOfDay returns the start of the day (00:00:00) in UTC.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the end of the day (23:59:59.999) in UTC.
func EndOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, 999000000, time.UTC)
}

// UntilEndOfDay returns the duration from t until the end of t's calendar
// day. This is the TTL policy for day-scoped caches: a value written at any
// point during the day expires at the day boundary, so every request within
// one calendar day observes the same cached value.
func UntilEndOfDay(t time.Time) time.Duration {
	return EndOfDay(t).Sub(t.UTC())
}

// IsSameDay checks if two times fall on the same UTC calendar day.
// Comparison is by formatted date string, not by a 24h rolling window.
func IsSameDay(t1, t2 time.Time) bool {
	return FormatDateStr(t1) == FormatDateStr(t2)
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in UTC.
func FormatDateStr(t time.Time) string {
	return t.UTC().Format(FormatDate)
}

// ParseDate parses a date string (YYYY-MM-DD) as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(FormatDate, value, time.UTC)
}

// DaysAgo returns the time n days before t.
func DaysAgo(t time.Time, n int) time.Time {
	return t.UTC().AddDate(0, 0, -n)
}

// DaysBetween calculates the number of whole calendar days between two times.
func DaysBetween(t1, t2 time.Time) int {
	a := StartOfDay(t1)
	b := StartOfDay(t2)
	days := int(b.Sub(a).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// Later returns the later of two times.
func Later(t1, t2 time.Time) time.Time {
	if t1.After(t2) {
		return t1
	}
	return t2
}

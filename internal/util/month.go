package util

import "time"

// MonthKeyLayout is the canonical year-month key format used across the API
// and the forecast engine.
const MonthKeyLayout = "2006-01"

// MonthKey returns the canonical year-month key for a date
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// ParseMonthKey parses a canonical year-month key into the first day of that
// month in UTC
func ParseMonthKey(key string) (time.Time, error) {
	return time.Parse(MonthKeyLayout, key)
}

// StartOfMonth returns the first day of the month containing t, in UTC
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths returns the first day of the month n months after t
func AddMonths(t time.Time, n int) time.Time {
	return StartOfMonth(t).AddDate(0, n, 0)
}

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// MonthBoundaries returns the first and last day of a month
func MonthBoundaries(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// SameMonth reports whether two dates fall in the same calendar month
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

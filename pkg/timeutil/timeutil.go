// Package timeutil provides calendar-day utilities for streak accounting.
// Streaks are counted in whole UTC days: any qualifying activity during a
// UTC calendar day counts for that day, regardless of the user's locale.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// FormatDate is the canonical date layout (YYYY-MM-DD).
const FormatDate = "2006-01-02"

// Date is a calendar day with no time component, always in UTC.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate creates a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	// Normalize through time.Date so Feb 30 etc. roll over consistently.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DateOf truncates a time to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return Date{Year: u.Year(), Month: u.Month(), Day: u.Day()}
}

// Today returns the current UTC calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(FormatDate, s)
	if err != nil {
		return Date{}, fmt.Errorf("timeutil: invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns the start of the day (00:00:00 UTC).
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String returns the date in YYYY-MM-DD format.
func (d Date) String() string {
	return d.Time().Format(FormatDate)
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Equal reports whether two dates are the same calendar day.
func (d Date) Equal(other Date) bool {
	return d == other
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// DaysBetween returns the signed number of days from d to other.
func DaysBetween(d, other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// IsNextDay reports whether other is exactly the day after d.
func IsNextDay(d, other Date) bool {
	return DaysBetween(d, other) == 1
}

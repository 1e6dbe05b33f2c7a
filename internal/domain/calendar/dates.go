package calendar

import (
	"errors"
	"time"
)

// DateLayout is the wire and storage format for date-only values.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a date string is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")

// Today returns now's calendar date in UTC as YYYY-MM-DD.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC.
// PRE: s is non-empty
// POST: returns the parsed date or ErrInvalidDate
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// IsDate reports whether s is a valid YYYY-MM-DD date.
func IsDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// AddMonths returns the date n calendar months after date.
// Day overflow normalises forward (Jan 31 + 1 month = Mar 2 or 3).
// PRE: date is YYYY-MM-DD
// POST: returns YYYY-MM-DD or ErrInvalidDate
func AddMonths(date string, n int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, n, 0).Format(DateLayout), nil
}

// DaysBetween returns the whole days from a to b (negative when b is before a).
// PRE: both are YYYY-MM-DD
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDate(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDate(b)
	if err != nil {
		return 0, err
	}
	return int(tb.Sub(ta).Hours() / 24), nil
}

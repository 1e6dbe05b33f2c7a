package storage

import (
	"database/sql"
	"time"
)

// Timestamps are stored as RFC3339 text in UTC so sqlite and postgres rows compare the same way.

// FormatTime renders t for a TEXT column.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// NullTime renders an optional timestamp; nil becomes SQL NULL.
func NullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatTime(*t)
}

// ParseTime reads a TEXT timestamp column.
// PRE: s was written by FormatTime (RFC3339 with optional fraction)
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// ParseNullTime reads an optional TEXT timestamp column.
// POST: NULL or empty yields nil
func ParseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := ParseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

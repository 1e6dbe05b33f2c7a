package checkin

import (
	"errors"
	"math"
	"strings"
	"time"

	"goodlife/internal/domain/calendar"
)

// Domain errors
var (
	ErrEmptyName         = errors.New("full name cannot be empty")
	ErrEmptyPhone        = errors.New("phone cannot be empty")
	ErrInvalidEmail      = errors.New("email must contain '@'")
	ErrAlreadyCheckedOut = errors.New("client has already checked out")
	ErrCheckOutBeforeIn  = errors.New("check-out cannot be before check-in")
	ErrNotFound          = errors.New("check-in not found")
)

// Status filter values.
const (
	FilterAll        = "all"
	FilterCheckedIn  = "checked-in"
	FilterCheckedOut = "checked-out"
)

// CheckIn is a walk-in client visit.
type CheckIn struct {
	ID         string     `json:"id"`
	FullName   string     `json:"fullName"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email,omitempty"`
	CheckInAt  time.Time  `json:"checkInTime"`
	CheckOutAt *time.Time `json:"checkOutTime,omitempty"`
	Date       string     `json:"date"`
	Notes      string     `json:"notes,omitempty"`
}

// Validate checks if the CheckIn has valid data.
// PRE: CheckIn struct is populated
// POST: Returns nil if valid, error otherwise
func (c *CheckIn) Validate() error {
	if strings.TrimSpace(c.FullName) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(c.Phone) == "" {
		return ErrEmptyPhone
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}
	if !calendar.IsDate(c.Date) {
		return calendar.ErrInvalidDate
	}
	if c.CheckOutAt != nil && c.CheckOutAt.Before(c.CheckInAt) {
		return ErrCheckOutBeforeIn
	}
	return nil
}

// IsCheckedOut reports whether a check-out has been recorded.
func (c *CheckIn) IsCheckedOut() bool {
	return c.CheckOutAt != nil
}

// CheckOut stamps the check-out time.
// PRE: not already checked out
// POST: CheckOutAt is at
func (c *CheckIn) CheckOut(at time.Time) error {
	if c.IsCheckedOut() {
		return ErrAlreadyCheckedOut
	}
	if at.Before(c.CheckInAt) {
		return ErrCheckOutBeforeIn
	}
	c.CheckOutAt = &at
	return nil
}

// DurationMinutes is checkout minus checkin rounded to whole minutes.
// POST: ok is false while the client is still checked in
func (c *CheckIn) DurationMinutes() (minutes int, ok bool) {
	if c.CheckOutAt == nil {
		return 0, false
	}
	return int(math.Round(c.CheckOutAt.Sub(c.CheckInAt).Minutes())), true
}

// Matches reports whether the visit matches a search on name, phone or email.
func (c *CheckIn) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.FullName), q) ||
		strings.Contains(c.Phone, q) ||
		strings.Contains(strings.ToLower(c.Email), q)
}

// MatchesStatus applies the all / checked-in / checked-out filter.
func (c *CheckIn) MatchesStatus(filter string) bool {
	switch filter {
	case FilterCheckedIn:
		return !c.IsCheckedOut()
	case FilterCheckedOut:
		return c.IsCheckedOut()
	}
	return true
}

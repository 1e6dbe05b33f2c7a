package attendance

import (
	"errors"
	"strings"
	"time"

	"goodlife/internal/domain/calendar"
	"goodlife/internal/domain/privilege"
)

// Domain errors
var (
	ErrAlreadyOnShift = errors.New("already signed in for a shift today")
	ErrNotOnShift     = errors.New("no open shift to sign out of today")
	ErrEmptyEmail     = errors.New("attendance must be associated with a staff email")
	ErrNoSignIn       = errors.New("sign-in time must be set")
	ErrSignOutBefore  = errors.New("sign-out time cannot be before sign-in time")
)

// Record is one staff shift for one day.
type Record struct {
	ID         string         `json:"id"`
	StaffEmail string         `json:"staffEmail"`
	StaffRole  privilege.Role `json:"staffRole"`
	Date       string         `json:"date"` // YYYY-MM-DD
	SignIn     time.Time      `json:"signInTime"`
	SignOut    *time.Time     `json:"signOutTime,omitempty"`
}

// Validate checks if the Record has valid data.
// PRE: Record struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: SignOut, when set, is not before SignIn
func (r *Record) Validate() error {
	if strings.TrimSpace(r.StaffEmail) == "" {
		return ErrEmptyEmail
	}
	if r.SignIn.IsZero() {
		return ErrNoSignIn
	}
	if !calendar.IsDate(r.Date) {
		return calendar.ErrInvalidDate
	}
	if r.SignOut != nil && r.SignOut.Before(r.SignIn) {
		return ErrSignOutBefore
	}
	return nil
}

// IsOpen returns true while the shift has no sign-out.
func (r *Record) IsOpen() bool {
	return r.SignOut == nil
}

// Close stamps the sign-out time.
// PRE: record is open
// POST: SignOut is at
func (r *Record) Close(at time.Time) error {
	if !r.IsOpen() {
		return ErrNotOnShift
	}
	if at.Before(r.SignIn) {
		return ErrSignOutBefore
	}
	r.SignOut = &at
	return nil
}

// Duration returns the shift length, or time so far at now if still open.
func (r *Record) Duration(now time.Time) time.Duration {
	if r.SignOut != nil {
		return r.SignOut.Sub(r.SignIn)
	}
	return now.Sub(r.SignIn)
}

// FindOpen returns the open record for (email, date).
func FindOpen(list []Record, email, date string) (Record, bool) {
	for _, r := range list {
		if r.Date == date && r.IsOpen() && strings.EqualFold(r.StaffEmail, email) {
			return r, true
		}
	}
	return Record{}, false
}

// OnShift reports whether email has an open record for today.
func OnShift(list []Record, email string, now time.Time) bool {
	_, ok := FindOpen(list, email, calendar.Today(now))
	return ok
}

// ForStaff filters records to one staff member, preserving order.
func ForStaff(list []Record, email string) []Record {
	var out []Record
	for _, r := range list {
		if strings.EqualFold(r.StaffEmail, email) {
			out = append(out, r)
		}
	}
	return out
}

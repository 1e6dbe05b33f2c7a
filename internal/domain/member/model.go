package member

import (
	"errors"
	"strings"
	"time"

	"goodlife/internal/domain/calendar"
	"goodlife/internal/domain/plan"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// ExpiringWindowDays is how close to expiry a subscription counts as expiring.
const ExpiringWindowDays = 7

// Status is the stored subscription status.
type Status string

const (
	StatusActive   Status = "active"
	StatusExpiring Status = "expiring"
	StatusExpired  Status = "expired"
)

// Domain errors
var (
	ErrEmptyName         = errors.New("member name cannot be empty")
	ErrNameTooLong       = errors.New("member name cannot exceed 100 characters")
	ErrInvalidEmail      = errors.New("member email must be valid")
	ErrEmptyPhone        = errors.New("member phone cannot be empty")
	ErrPhotoRequired     = errors.New("member photo is required")
	ErrInvalidStatus     = errors.New("status must be 'active', 'expiring', or 'expired'")
	ErrExpiryBeforeStart = errors.New("expiry date cannot be before start date")
	ErrDuplicateEmail    = errors.New("a member with this email already exists")
	ErrNotFound          = errors.New("member not found")
)

// Member is a gym subscriber.
type Member struct {
	ID               string    `json:"id"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address,omitempty"`
	EmergencyContact string    `json:"emergencyContact,omitempty"`
	Plan             plan.Plan `json:"plan"`
	StartDate        string    `json:"startDate"`
	ExpiryDate       string    `json:"expiryDate"`
	Status           Status    `json:"status"`
	Photo            string    `json:"photo,omitempty"`
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: ExpiryDate >= StartDate
func (m *Member) Validate() error {
	if strings.TrimSpace(m.FullName) == "" {
		return ErrEmptyName
	}
	if len(m.FullName) > MaxNameLength {
		return ErrNameTooLong
	}
	if !strings.Contains(m.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(m.Phone) == "" {
		return ErrEmptyPhone
	}
	if !m.Plan.IsValid() {
		return plan.ErrUnknownPlan
	}
	if !calendar.IsDate(m.StartDate) || !calendar.IsDate(m.ExpiryDate) {
		return calendar.ErrInvalidDate
	}
	if m.ExpiryDate < m.StartDate {
		return ErrExpiryBeforeStart
	}
	switch m.Status {
	case StatusActive, StatusExpiring, StatusExpired:
	default:
		return ErrInvalidStatus
	}
	return nil
}

// DeriveStatus computes the status implied by an expiry date at now.
// Expired once the expiry date has passed; expiring within ExpiringWindowDays.
// PRE: expiry is YYYY-MM-DD
func DeriveStatus(expiry string, now time.Time) Status {
	days, err := calendar.DaysBetween(calendar.Today(now), expiry)
	if err != nil {
		return StatusExpired
	}
	switch {
	case days < 0:
		return StatusExpired
	case days <= ExpiringWindowDays:
		return StatusExpiring
	}
	return StatusActive
}

// RefreshStatus sets Status from ExpiryDate.
// POST: returns true if the status changed
func (m *Member) RefreshStatus(now time.Time) bool {
	next := DeriveStatus(m.ExpiryDate, now)
	if next == m.Status {
		return false
	}
	m.Status = next
	return true
}

// Matches reports whether the member matches a search query:
// case-insensitive on name and email, substring on phone.
func (m *Member) Matches(query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return true
	}
	lower := strings.ToLower(q)
	return strings.Contains(strings.ToLower(m.FullName), lower) ||
		strings.Contains(strings.ToLower(m.Email), lower) ||
		strings.Contains(m.Phone, q)
}

// HasEmail compares emails case-insensitively.
func (m *Member) HasEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(m.Email), strings.TrimSpace(email))
}

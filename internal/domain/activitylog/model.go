package activitylog

import (
	"errors"
	"strings"
	"time"

	"goodlife/internal/domain/privilege"
)

// Category groups activity entries.
type Category string

const (
	CategoryAccess    Category = "access"
	CategoryAdmin     Category = "admin"
	CategoryFinancial Category = "financial"
)

// Severity marks entries that deserve attention.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Action labels used by the portal.
const (
	ActionPortalLogin        = "Portal Login"
	ActionLogout             = "Logout"
	ActionLogoutWarning      = "Logout Warning"
	ActionShiftSignIn        = "Shift Sign In"
	ActionShiftSignOut       = "Shift Sign Out"
	ActionRegisterMember     = "Register Member"
	ActionUpdateMember       = "Update Member"
	ActionDeleteMember       = "Delete Member"
	ActionImportMembers      = "Import Members"
	ActionRecordPayment      = "Record Payment"
	ActionConfirmPayment     = "Confirm Payment"
	ActionCreateFromPayment  = "Create Member From Payment"
	ActionAddStaff           = "Add Staff"
	ActionDeleteStaff        = "Delete Staff"
	ActionUpdatePrivileges   = "Update Staff Privileges"
	ActionCreateAnnouncement = "Create Announcement"
	ActionUpdateAnnouncement = "Update Announcement"
	ActionDeleteAnnouncement = "Delete Announcement"
	ActionAddGalleryImage    = "Add Gallery Image"
	ActionDeleteGalleryImage = "Delete Gallery Image"
	ActionSendMessage        = "Send Message"
	ActionBroadcastMessage   = "Broadcast Message"
	ActionDeleteCheckIn      = "Delete Check-In"
)

// Domain errors
var (
	ErrEmptyAction     = errors.New("activity action cannot be empty")
	ErrInvalidCategory = errors.New("category must be one of: access, admin, financial")
)

// Entry is one append-only activity log record.
type Entry struct {
	ID        string         `json:"id"`
	Role      privilege.Role `json:"role"`
	UserEmail string         `json:"userEmail"`
	Action    string         `json:"action"`
	Details   string         `json:"details"`
	Timestamp time.Time      `json:"timestamp"`
	Category  Category       `json:"category"`
	Severity  Severity       `json:"severity"`
}

// NewEntry creates an info-severity entry.
// PRE: action is non-empty
// POST: Returns an Entry stamped at now
func NewEntry(id string, role privilege.Role, email string, category Category, action string, now time.Time) Entry {
	return Entry{
		ID:        id,
		Role:      role,
		UserEmail: email,
		Action:    action,
		Timestamp: now,
		Category:  category,
		Severity:  SeverityInfo,
	}
}

// WithDetails sets the free-text details.
func (e Entry) WithDetails(details string) Entry {
	e.Details = details
	return e
}

// WithSeverity sets the severity level.
func (e Entry) WithSeverity(s Severity) Entry {
	e.Severity = s
	return e
}

// Validate checks if the Entry has valid data.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Action) == "" {
		return ErrEmptyAction
	}
	switch e.Category {
	case CategoryAccess, CategoryAdmin, CategoryFinancial:
	default:
		return ErrInvalidCategory
	}
	return nil
}

// LatestFor returns the first entry for email in list order.
// Lists are held newest-first, so this is the most recent entry.
func LatestFor(list []Entry, email string) (Entry, bool) {
	for _, e := range list {
		if strings.EqualFold(e.UserEmail, email) {
			return e, true
		}
	}
	return Entry{}, false
}

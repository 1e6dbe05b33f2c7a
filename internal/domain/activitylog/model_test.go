package activitylog_test

import (
	"testing"
	"time"

	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/privilege"
)

// TestNewEntryBuilders tests the entry builder chain.
func TestNewEntryBuilders(t *testing.T) {
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	e := activitylog.NewEntry("l1", privilege.RoleStaff, "ama@goodlife.com", activitylog.CategoryAccess, activitylog.ActionLogoutWarning, now).
		WithDetails("Staff member logged out while still on shift").
		WithSeverity(activitylog.SeverityWarning)

	if e.Severity != activitylog.SeverityWarning || e.Details == "" || !e.Timestamp.Equal(now) {
		t.Errorf("unexpected entry: %+v", e)
	}
	if err := e.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	e.Category = "security"
	if err := e.Validate(); err != activitylog.ErrInvalidCategory {
		t.Errorf("Validate() = %v, want ErrInvalidCategory", err)
	}
}

// TestLatestFor tests first-match lookup in newest-first order.
func TestLatestFor(t *testing.T) {
	list := []activitylog.Entry{
		{ID: "3", UserEmail: "ama@goodlife.com", Action: activitylog.ActionShiftSignOut},
		{ID: "2", UserEmail: "kojo@goodlife.com", Action: activitylog.ActionPortalLogin},
		{ID: "1", UserEmail: "ama@goodlife.com", Action: activitylog.ActionPortalLogin},
	}
	got, ok := activitylog.LatestFor(list, "AMA@goodlife.com")
	if !ok || got.ID != "3" {
		t.Errorf("LatestFor = %+v, %v; want entry 3", got, ok)
	}
	if _, ok := activitylog.LatestFor(list, "esi@goodlife.com"); ok {
		t.Error("LatestFor matched an unknown email")
	}
}

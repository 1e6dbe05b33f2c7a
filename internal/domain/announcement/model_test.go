package announcement_test

import (
	"errors"
	"testing"

	"goodlife/internal/domain/announcement"
	"goodlife/internal/domain/calendar"
)

// TestApplyDefaultsAndValidate tests defaulting and validation of announcements.
func TestApplyDefaultsAndValidate(t *testing.T) {
	a := announcement.Announcement{Title: "Easter Gym Hours", Content: "Closed on Good Friday."}
	a.ApplyDefaults("2026-04-01")
	if a.Date != "2026-04-01" || a.Priority != announcement.PriorityLow {
		t.Fatalf("defaults not applied: %+v", a)
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*announcement.Announcement)
		wantErr error
	}{
		{"empty title", func(a *announcement.Announcement) { a.Title = "" }, announcement.ErrEmptyTitle},
		{"empty content", func(a *announcement.Announcement) { a.Content = "  " }, announcement.ErrEmptyContent},
		{"bad priority", func(a *announcement.Announcement) { a.Priority = "urgent" }, announcement.ErrInvalidPriority},
		{"bad date", func(a *announcement.Announcement) { a.Date = "April 1" }, calendar.ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := a
			tt.mutate(&b)
			if err := b.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestNewerThan tests the unread-update comparison.
func TestNewerThan(t *testing.T) {
	list := []announcement.Announcement{
		{ID: "a1", Date: "2026-03-20"},
		{ID: "a2", Date: "2026-03-25"},
		{ID: "a3", Date: "2026-03-22"},
	}
	got := announcement.NewerThan(list, "2026-03-21")
	if len(got) != 2 || got[0].ID != "a2" || got[1].ID != "a3" {
		t.Errorf("NewerThan = %+v, want a2 then a3", got)
	}
	if len(announcement.NewerThan(list, "2026-03-25")) != 0 {
		t.Error("announcements dated on the last-checked day are not new")
	}
}

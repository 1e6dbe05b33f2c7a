package orchestrators

import (
	"context"
	"errors"
	"testing"

	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/announcement"
	"goodlife/internal/domain/gallery"
	"goodlife/internal/domain/privilege"
)

func contentDeps(c *state.Container) ContentDeps {
	return ContentDeps{State: c, GenerateID: sequentialIDs("ct"), Now: testNow}
}

func TestCreateAnnouncement_Defaults(t *testing.T) {
	c := seededState(t)
	a, err := ExecuteCreateAnnouncement(context.Background(), AnnouncementInput{
		Actor: staffActor(privilege.ManageAnnouncements), Title: " Holiday hours ", Content: "Closed **Monday**.",
	}, contentDeps(c))
	if err != nil {
		t.Fatalf("ExecuteCreateAnnouncement: %v", err)
	}
	if a.Date != "2026-06-02" || a.Priority != announcement.PriorityLow || a.Title != "Holiday hours" {
		t.Errorf("announcement = %+v", a)
	}
	if got := c.Snapshot().Announcements[0].ID; got != a.ID {
		t.Errorf("newest announcement = %s, want %s", got, a.ID)
	}
	if _, ok := findActivity(c, activitylog.ActionCreateAnnouncement); !ok {
		t.Error("missing activity entry")
	}
}

func TestCreateAnnouncement_Rules(t *testing.T) {
	c := seededState(t)
	if _, err := ExecuteCreateAnnouncement(context.Background(), AnnouncementInput{Actor: staffActor(), Title: "x", Content: "y"}, contentDeps(c)); !errors.Is(err, ErrForbidden) {
		t.Errorf("forbidden err = %v", err)
	}
	admin := adminActor(c)
	if _, err := ExecuteCreateAnnouncement(context.Background(), AnnouncementInput{Actor: admin, Content: "y"}, contentDeps(c)); !errors.Is(err, announcement.ErrEmptyTitle) {
		t.Errorf("empty title err = %v", err)
	}
	if _, err := ExecuteCreateAnnouncement(context.Background(), AnnouncementInput{Actor: admin, Title: "x", Content: "y", Priority: "urgent"}, contentDeps(c)); !errors.Is(err, announcement.ErrInvalidPriority) {
		t.Errorf("priority err = %v", err)
	}
}

func TestUpdateAndDeleteAnnouncement(t *testing.T) {
	c := seededState(t)
	admin := adminActor(c)
	a, err := ExecuteUpdateAnnouncement(context.Background(), AnnouncementInput{
		Actor: admin, ID: "ann1", Title: "Easter Hours", Content: "Open 8-12 on Monday.", Priority: "HIGH",
	}, contentDeps(c))
	if err != nil {
		t.Fatalf("ExecuteUpdateAnnouncement: %v", err)
	}
	if a.Date != "2024-03-20" || a.Priority != announcement.PriorityHigh {
		t.Errorf("updated = %+v, want original date kept", a)
	}

	if err := ExecuteDeleteAnnouncement(context.Background(), DeleteContentInput{Actor: admin, ID: "ann1"}, contentDeps(c)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := c.Snapshot().AnnouncementByID("ann1"); ok {
		t.Error("announcement still present")
	}
	if err := ExecuteDeleteAnnouncement(context.Background(), DeleteContentInput{Actor: admin, ID: "ann1"}, contentDeps(c)); !errors.Is(err, announcement.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestGalleryImages(t *testing.T) {
	c := seededState(t)
	admin := adminActor(c)
	img, err := ExecuteAddGalleryImage(context.Background(), GalleryImageInput{
		Actor: admin, URL: "https://example.com/pool.jpg", Caption: "New pool",
	}, contentDeps(c))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if n := len(c.Snapshot().Gallery); n != 4 {
		t.Errorf("gallery size = %d, want 4", n)
	}

	if _, err := ExecuteAddGalleryImage(context.Background(), GalleryImageInput{Actor: admin, URL: "ftp://x"}, contentDeps(c)); !errors.Is(err, gallery.ErrInvalidURL) {
		t.Errorf("bad url err = %v", err)
	}
	if err := ExecuteDeleteGalleryImage(context.Background(), DeleteContentInput{Actor: admin, ID: img.ID}, contentDeps(c)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := ExecuteDeleteGalleryImage(context.Background(), DeleteContentInput{Actor: admin, ID: img.ID}, contentDeps(c)); !errors.Is(err, gallery.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

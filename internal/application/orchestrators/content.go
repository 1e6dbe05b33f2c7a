package orchestrators

import (
	"context"
	"strings"
	"time"

	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/announcement"
	"goodlife/internal/domain/calendar"
	"goodlife/internal/domain/gallery"
	"goodlife/internal/domain/privilege"
)

// ContentDeps holds dependencies for announcement and gallery orchestrators.
type ContentDeps struct {
	State      *state.Container
	GenerateID func() string
	Now        func() time.Time
}

// AnnouncementInput carries a created or edited announcement.
type AnnouncementInput struct {
	Actor    Actor
	ID       string // set for updates
	Title    string
	Content  string // markdown
	Date     string // empty means today
	Priority string // empty means low
}

func (in AnnouncementInput) build(id, today string) (announcement.Announcement, error) {
	a := announcement.Announcement{
		ID:       id,
		Title:    strings.TrimSpace(in.Title),
		Content:  strings.TrimSpace(in.Content),
		Date:     strings.TrimSpace(in.Date),
		Priority: announcement.Priority(strings.ToLower(strings.TrimSpace(in.Priority))),
	}
	a.ApplyDefaults(today)
	return a, a.Validate()
}

// ExecuteCreateAnnouncement publishes an announcement.
// PRE: Actor holds MANAGE_ANNOUNCEMENTS
// POST: announcement listed newest-first
func ExecuteCreateAnnouncement(ctx context.Context, input AnnouncementInput, deps ContentDeps) (announcement.Announcement, error) {
	if err := input.Actor.require(privilege.ManageAnnouncements); err != nil {
		return announcement.Announcement{}, err
	}
	a, err := input.build(deps.GenerateID(), calendar.Today(deps.Now()))
	if err != nil {
		return announcement.Announcement{}, err
	}
	res, err := deps.State.Write(ctx, state.AddAnnouncement(a))
	if err != nil {
		return announcement.Announcement{}, err
	}
	a.ID = res.ID
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionCreateAnnouncement, a.Title))
	return a, nil
}

// ExecuteUpdateAnnouncement edits an announcement.
// PRE: Actor holds MANAGE_ANNOUNCEMENTS; announcement exists
func ExecuteUpdateAnnouncement(ctx context.Context, input AnnouncementInput, deps ContentDeps) (announcement.Announcement, error) {
	if err := input.Actor.require(privilege.ManageAnnouncements); err != nil {
		return announcement.Announcement{}, err
	}
	current, ok := deps.State.Snapshot().AnnouncementByID(input.ID)
	if !ok {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	if strings.TrimSpace(input.Date) == "" {
		input.Date = current.Date
	}
	a, err := input.build(current.ID, calendar.Today(deps.Now()))
	if err != nil {
		return announcement.Announcement{}, err
	}
	if _, err := deps.State.Write(ctx, state.UpdateAnnouncement(a)); err != nil {
		return announcement.Announcement{}, err
	}
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionUpdateAnnouncement, a.Title))
	return a, nil
}

// DeleteContentInput identifies an announcement or gallery image to remove.
type DeleteContentInput struct {
	Actor Actor
	ID    string
}

// ExecuteDeleteAnnouncement removes an announcement.
func ExecuteDeleteAnnouncement(ctx context.Context, input DeleteContentInput, deps ContentDeps) error {
	if err := input.Actor.require(privilege.ManageAnnouncements); err != nil {
		return err
	}
	a, ok := deps.State.Snapshot().AnnouncementByID(input.ID)
	if !ok {
		return announcement.ErrNotFound
	}
	if _, err := deps.State.Write(ctx, state.DeleteAnnouncement(a.ID)); err != nil {
		return err
	}
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionDeleteAnnouncement, a.Title))
	return nil
}

// GalleryImageInput carries a new gallery picture.
type GalleryImageInput struct {
	Actor   Actor
	URL     string
	Caption string
}

// ExecuteAddGalleryImage adds a picture to the public gallery.
// PRE: Actor holds MANAGE_ANNOUNCEMENTS
func ExecuteAddGalleryImage(ctx context.Context, input GalleryImageInput, deps ContentDeps) (gallery.Image, error) {
	if err := input.Actor.require(privilege.ManageAnnouncements); err != nil {
		return gallery.Image{}, err
	}
	img := gallery.Image{ID: deps.GenerateID(), URL: strings.TrimSpace(input.URL), Caption: strings.TrimSpace(input.Caption)}
	if err := img.Validate(); err != nil {
		return gallery.Image{}, err
	}
	res, err := deps.State.Write(ctx, state.AddGalleryImage(img))
	if err != nil {
		return gallery.Image{}, err
	}
	img.ID = res.ID
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionAddGalleryImage, img.Caption))
	return img, nil
}

// ExecuteDeleteGalleryImage removes a gallery picture.
func ExecuteDeleteGalleryImage(ctx context.Context, input DeleteContentInput, deps ContentDeps) error {
	if err := input.Actor.require(privilege.ManageAnnouncements); err != nil {
		return err
	}
	var img gallery.Image
	found := false
	deps.State.View(func(s state.Snapshot) {
		for _, g := range s.Gallery {
			if g.ID == input.ID {
				img, found = g, true
				return
			}
		}
	})
	if !found {
		return gallery.ErrNotFound
	}
	if _, err := deps.State.Write(ctx, state.DeleteGalleryImage(img.ID)); err != nil {
		return err
	}
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionDeleteGalleryImage, img.Caption))
	return nil
}

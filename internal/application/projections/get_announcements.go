package projections

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"

	"goodlife/internal/domain/announcement"
	"goodlife/internal/domain/calendar"
)

var markdown = goldmark.New()

// PublicAnnouncement is an announcement with its content rendered for display.
type PublicAnnouncement struct {
	announcement.Announcement
	ContentHTML string `json:"contentHtml"`
}

// RenderContent converts announcement markdown to HTML. Raw HTML in the
// source is dropped.
func RenderContent(md string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		slog.Warn("announcement_render_failed", "error", err)
		return ""
	}
	return buf.String()
}

// QueryGetAnnouncements lists announcements newest first with rendered content.
func QueryGetAnnouncements(_ context.Context, deps Deps) ([]PublicAnnouncement, error) {
	list := deps.State.Snapshot().Announcements
	announcement.SortNewestFirst(list)
	out := make([]PublicAnnouncement, 0, len(list))
	for _, a := range list {
		out = append(out, PublicAnnouncement{Announcement: a, ContentHTML: RenderContent(a.Content)})
	}
	return out, nil
}

// GetAnnouncementUpdatesQuery carries the session's last check.
type GetAnnouncementUpdatesQuery struct {
	Since time.Time // zero means never checked
}

// AnnouncementUpdates drives the unread-update banner.
type AnnouncementUpdates struct {
	HasNewUpdates bool                        `json:"hasNewUpdates"`
	Updates       []announcement.Announcement `json:"updates"`
	CheckedAt     time.Time                   `json:"checkedAt"`
}

// QueryGetAnnouncementUpdates reports announcements dated after Since.
// POST: CheckedAt is now; the caller stores it as the next Since
func QueryGetAnnouncementUpdates(_ context.Context, query GetAnnouncementUpdatesQuery, deps Deps) (AnnouncementUpdates, error) {
	now := deps.Now()
	res := AnnouncementUpdates{Updates: []announcement.Announcement{}, CheckedAt: now}
	if query.Since.IsZero() {
		return res, nil
	}
	if newer := announcement.NewerThan(deps.State.Snapshot().Announcements, calendar.Today(query.Since)); len(newer) > 0 {
		res.Updates = newer
		res.HasNewUpdates = true
	}
	return res, nil
}

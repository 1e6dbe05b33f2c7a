package orchestrators

import (
	"context"
	"testing"

	"goodlife/internal/adapters/storage/storagetest"
	"goodlife/internal/application/state"
	"goodlife/internal/domain/announcement"
)

func TestPoll_LocalOnlyIsNoop(t *testing.T) {
	p := &AnnouncementPoller{State: seededState(t), ActiveSessions: func() int { return 3 }}
	if p.Poll(context.Background()) {
		t.Error("Poll without a backend should not refresh")
	}
}

func TestPoll_RefreshesFromBackend(t *testing.T) {
	db := storagetest.Open(t)
	backend := state.NewSQLBackend(db)
	c := state.New(state.Snapshot{}, backend)

	_, err := backend.Announcements.Create(context.Background(), announcement.Announcement{
		ID: "a1", Title: "Posted elsewhere", Content: "From the other desk", Date: "2026-06-01", Priority: announcement.PriorityHigh,
	})
	if err != nil {
		t.Fatal(err)
	}

	sessions := 0
	p := &AnnouncementPoller{State: c, ActiveSessions: func() int { return sessions }}
	if p.Poll(context.Background()) {
		t.Error("Poll with no signed-in sessions should be skipped")
	}
	if len(c.Snapshot().Announcements) != 0 {
		t.Fatal("skipped poll must not touch state")
	}

	sessions = 1
	if !p.Poll(context.Background()) {
		t.Fatal("Poll should refresh")
	}
	list := c.Snapshot().Announcements
	if len(list) != 1 || list[0].Title != "Posted elsewhere" {
		t.Errorf("announcements = %+v", list)
	}
}

package state_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodlife/internal/adapters/storage/storagetest"
	"goodlife/internal/application/state"
	"goodlife/internal/domain/announcement"
)

func TestLoad_EmptyTablesReplaceSeedByDefault(t *testing.T) {
	c := state.New(state.Seed(), state.NewSQLBackend(storagetest.Open(t)))
	report, err := c.Load(context.Background(), state.LoadPolicy{})
	require.NoError(t, err)
	assert.Len(t, report.Replaced, 8)
	assert.Empty(t, c.Snapshot().Members)
}

func TestLoad_TreatEmptyAsMissingKeepsSeed(t *testing.T) {
	db := storagetest.Open(t)
	backend := state.NewSQLBackend(db)
	_, err := backend.Announcements.Create(context.Background(), announcement.Announcement{
		Title: "Open day", Content: "Bring a friend", Date: "2026-07-01", Priority: announcement.PriorityHigh,
	})
	require.NoError(t, err)

	c := state.New(state.Seed(), backend)
	report, err := c.Load(context.Background(), state.LoadPolicy{TreatEmptyAsMissing: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"announcements"}, report.Replaced)
	assert.Len(t, report.Kept, 7)

	snap := c.Snapshot()
	assert.Len(t, snap.Members, 3)
	require.Len(t, snap.Announcements, 1)
	assert.Equal(t, "Open day", snap.Announcements[0].Title)
}

type failingAnnouncements struct{ announcementStoreStub }

func (failingAnnouncements) GetAll(context.Context) ([]announcement.Announcement, error) {
	return nil, errors.New("backend unavailable")
}

func TestLoad_FailedCollectionKeepsLocalCopy(t *testing.T) {
	backend := state.NewSQLBackend(storagetest.Open(t))
	backend.Announcements = failingAnnouncements{}
	c := state.New(state.Seed(), backend)

	report, err := c.Load(context.Background(), state.LoadPolicy{})
	require.NoError(t, err)
	assert.Contains(t, report.Failed, "announcements")
	assert.Len(t, c.Snapshot().Announcements, 2)
}

func TestRefreshAnnouncements(t *testing.T) {
	backend := state.NewSQLBackend(storagetest.Open(t))
	c := state.New(state.Seed(), backend)
	ctx := context.Background()
	_, err := backend.Announcements.Create(ctx, announcement.Announcement{
		Title: "Pool closed", Content: "Maintenance", Date: "2026-08-02", Priority: announcement.PriorityMedium,
	})
	require.NoError(t, err)

	list, err := c.RefreshAnnouncements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pool closed", c.Snapshot().Announcements[0].Title)
}

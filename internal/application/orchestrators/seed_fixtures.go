package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"goodlife/internal/application/state"
)

// SeedFixturesDeps holds dependencies for SeedFixtures.
type SeedFixturesDeps struct {
	State *state.Container
}

// SeedFixturesResult counts what was written per collection.
type SeedFixturesResult struct {
	Seeded  map[string]int
	Skipped []string
}

// ExecuteSeedFixtures writes the fixture data into collections that are still empty.
// Fixture payments are re-pointed at the ids the backend gave their members.
// PRE: state has been loaded from the backend
// POST: collections that already held rows are left untouched
func ExecuteSeedFixtures(ctx context.Context, deps SeedFixturesDeps) (SeedFixturesResult, error) {
	fixtures := state.Seed()
	snap := deps.State.Snapshot()
	res := SeedFixturesResult{Seeded: map[string]int{}}

	write := func(name string, m state.Mutation) (string, error) {
		wr, err := deps.State.Write(ctx, m)
		if err == nil {
			err = wr.SyncErr
		}
		if err != nil {
			return "", fmt.Errorf("seed %s: %w", name, err)
		}
		res.Seeded[name]++
		return wr.ID, nil
	}
	skip := func(name string, populated bool) bool {
		if populated {
			res.Skipped = append(res.Skipped, name)
		}
		return populated
	}

	if !skip("staff", len(snap.Staff) > 0) {
		for _, st := range fixtures.Staff {
			if _, err := write("staff", state.AddStaff(st)); err != nil {
				return res, err
			}
		}
	}

	memberIDs := map[string]string{}
	if !skip("members", len(snap.Members) > 0) {
		for _, m := range fixtures.Members {
			id, err := write("members", state.AddMember(m))
			if err != nil {
				return res, err
			}
			memberIDs[m.ID] = id
		}
	}

	// Newest-first collections are added in reverse to keep the fixture order.
	if !skip("payments", len(snap.Payments) > 0) {
		for i := len(fixtures.Payments) - 1; i >= 0; i-- {
			p := fixtures.Payments[i]
			if id, ok := memberIDs[p.MemberID]; ok {
				p.MemberID = id
			}
			if _, err := write("payments", state.AddPayment(p)); err != nil {
				return res, err
			}
		}
	}
	if !skip("announcements", len(snap.Announcements) > 0) {
		for i := len(fixtures.Announcements) - 1; i >= 0; i-- {
			if _, err := write("announcements", state.AddAnnouncement(fixtures.Announcements[i])); err != nil {
				return res, err
			}
		}
	}
	if !skip("gallery", len(snap.Gallery) > 0) {
		for _, img := range fixtures.Gallery {
			if _, err := write("gallery", state.AddGalleryImage(img)); err != nil {
				return res, err
			}
		}
	}

	slog.Info("seed_event", "event", "fixtures_seeded", "seeded", res.Seeded, "skipped", res.Skipped)
	return res, nil
}

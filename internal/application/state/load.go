package state

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/announcement"
	"goodlife/internal/domain/attendance"
	"goodlife/internal/domain/checkin"
	"goodlife/internal/domain/gallery"
	"goodlife/internal/domain/member"
	"goodlife/internal/domain/payment"
	"goodlife/internal/domain/staff"
)

// LoadPolicy controls how fetched collections replace local data.
type LoadPolicy struct {
	// TreatEmptyAsMissing keeps the local copy when the backend returns no rows.
	// When false an empty table empties the local collection.
	TreatEmptyAsMissing bool
}

// LoadReport lists what happened to each collection.
type LoadReport struct {
	Replaced []string
	Kept     []string
	Failed   map[string]error
}

type fetchResult struct {
	name  string
	n     int
	err   error
	apply func(*Snapshot)
}

// fetch loads one collection and prepares the assignment without touching shared state.
func fetch[T any](ctx context.Context, name string, get func(context.Context) ([]T, error), set func(*Snapshot, []T)) fetchResult {
	rows, err := get(ctx)
	if err != nil {
		return fetchResult{name: name, err: err}
	}
	return fetchResult{name: name, n: len(rows), apply: func(s *Snapshot) { set(s, rows) }}
}

// Load fetches all eight collections in parallel and commits them per policy.
// Failed fetches keep the local copy and are reported, never returned.
// PRE: the container is connected
// POST: returns ctx.Err() only when the context is cancelled
func (c *Container) Load(ctx context.Context, policy LoadPolicy) (LoadReport, error) {
	report := LoadReport{Failed: map[string]error{}}
	if c.backend == nil {
		return report, nil
	}
	b := c.backend

	var mu sync.Mutex
	var results []fetchResult
	collect := func(r fetchResult) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		collect(fetch(gctx, "members", b.Members.GetAll, func(s *Snapshot, v []member.Member) { s.Members = v }))
		return nil
	})
	g.Go(func() error {
		collect(fetch(gctx, "staff", b.Staff.GetAll, func(s *Snapshot, v []staff.Staff) { s.Staff = v }))
		return nil
	})
	g.Go(func() error {
		collect(fetch(gctx, "payments", b.Payments.GetAll, func(s *Snapshot, v []payment.Payment) { s.Payments = v }))
		return nil
	})
	g.Go(func() error {
		collect(fetch(gctx, "announcements", b.Announcements.GetAll, func(s *Snapshot, v []announcement.Announcement) { s.Announcements = v }))
		return nil
	})
	g.Go(func() error {
		collect(fetch(gctx, "gallery", b.Gallery.GetAll, func(s *Snapshot, v []gallery.Image) { s.Gallery = v }))
		return nil
	})
	g.Go(func() error {
		collect(fetch(gctx, "activity_logs", b.ActivityLogs.GetAll, func(s *Snapshot, v []activitylog.Entry) { s.ActivityLogs = v }))
		return nil
	})
	g.Go(func() error {
		collect(fetch(gctx, "attendance", b.Attendance.GetAll, func(s *Snapshot, v []attendance.Record) { s.Attendance = v }))
		return nil
	})
	g.Go(func() error {
		collect(fetch(gctx, "check_ins", b.CheckIns.GetAll, func(s *Snapshot, v []checkin.CheckIn) { s.CheckIns = v }))
		return nil
	})
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return report, err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.mu.RLock()
	next := c.snap.Clone()
	c.mu.RUnlock()

	for _, r := range results {
		switch {
		case r.err != nil:
			report.Failed[r.name] = r.err
			slog.Warn("load_failed", "collection", r.name, "error", r.err)
		case r.n == 0 && policy.TreatEmptyAsMissing:
			report.Kept = append(report.Kept, r.name)
		default:
			r.apply(&next)
			report.Replaced = append(report.Replaced, r.name)
		}
	}
	c.commit(next)
	slog.Info("state_loaded", "replaced", len(report.Replaced), "kept", len(report.Kept), "failed", len(report.Failed))
	return report, nil
}

// RefreshAnnouncements re-reads announcements from the backend and commits them.
// POST: returns the fresh list newest first; local-only mode returns the local list
func (c *Container) RefreshAnnouncements(ctx context.Context) ([]announcement.Announcement, error) {
	if c.backend == nil {
		return c.Snapshot().Announcements, nil
	}
	list, err := c.backend.Announcements.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	announcement.SortNewestFirst(list)

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.mu.Lock()
	c.snap.Announcements = list
	c.mu.Unlock()
	return append([]announcement.Announcement(nil), list...), nil
}

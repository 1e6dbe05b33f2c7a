package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"goodlife/internal/application/state"
)

// AnnouncementPoller refreshes announcements from the backend so signed-in
// staff see updates posted from other sessions.
type AnnouncementPoller struct {
	State *state.Container
	// ActiveSessions reports how many sessions are signed in; polling pauses at zero.
	ActiveSessions func() int
	Timeout        time.Duration
}

// Poll runs one refresh.
// POST: returns false without I/O when nobody is signed in or no backend is configured
func (p *AnnouncementPoller) Poll(ctx context.Context) bool {
	if !p.State.Connected() {
		return false
	}
	if p.ActiveSessions != nil && p.ActiveSessions() == 0 {
		return false
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	list, err := p.State.RefreshAnnouncements(ctx)
	if err != nil {
		slog.Warn("announcement_poll_failed", "error", err)
		return false
	}
	slog.Debug("announcement_poll", "count", len(list))
	return true
}

// StartAnnouncementPoller starts a background goroutine that polls at interval.
// PRE: stopCh is provided to signal shutdown
// POST: Worker runs until stopCh is closed
func StartAnnouncementPoller(p *AnnouncementPoller, interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.Poll(context.Background())
			case <-stopCh:
				slog.Info("announcement_poller_stopped")
				return
			}
		}
	}()
}

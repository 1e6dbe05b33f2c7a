package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	emailAdapter "goodlife/internal/adapters/email"
	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/privilege"
	"goodlife/internal/domain/staff"
)

var fixedNow = time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC)

func testNow() time.Time { return fixedNow }

// sequentialIDs returns a generator yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func seededState(t *testing.T) *state.Container {
	t.Helper()
	return state.New(state.Seed(), nil)
}

func adminActor(c *state.Container) Actor {
	return ActorFor(c.Snapshot(), privilege.RoleSuperAdmin, state.SeedAdminEmail)
}

func staffActor(ps ...privilege.Privilege) Actor {
	return Actor{
		Role:  privilege.RoleStaff,
		Email: "desk@goodlife.com",
		Staff: &staff.Staff{ID: "desk", FullName: "Ama Desk", Email: "desk@goodlife.com", Role: privilege.RoleStaff, Privileges: ps},
	}
}

// recordingSender captures sends and fails for listed recipients.
type recordingSender struct {
	mu     sync.Mutex
	sent   []emailAdapter.SendRequest
	failTo map[string]bool
}

func (s *recordingSender) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(req.To) > 0 && s.failTo[req.To[0]] {
		return emailAdapter.SendResult{}, errors.New("mailbox unavailable")
	}
	s.sent = append(s.sent, req)
	return emailAdapter.SendResult{MessageID: fmt.Sprintf("msg-%d", len(s.sent)), SentAt: fixedNow}, nil
}

func (s *recordingSender) subjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, r := range s.sent {
		out = append(out, r.Subject)
	}
	return out
}

// activityActions lists logged actions newest first.
func activityActions(c *state.Container) []string {
	var out []string
	for _, e := range c.Snapshot().ActivityLogs {
		out = append(out, e.Action)
	}
	return out
}

func findActivity(c *state.Container, action string) (activitylog.Entry, bool) {
	for _, e := range c.Snapshot().ActivityLogs {
		if e.Action == action {
			return e, true
		}
	}
	return activitylog.Entry{}, false
}

func containsString(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

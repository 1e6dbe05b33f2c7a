package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/authz"
	"goodlife/internal/domain/privilege"
	"goodlife/internal/domain/staff"
)

// ErrForbidden is returned when the actor lacks the privilege an action needs.
var ErrForbidden = errors.New("you do not have permission to perform this action")

// Actor is the signed-in portal user performing an action.
type Actor struct {
	Role  privilege.Role
	Email string
	// Staff is the account record backing the session; nil for visitors.
	Staff *staff.Staff
}

// ActorFor resolves the staff record for a session identity from snapshot.
// The record is re-read on every request so privilege edits apply at once.
func ActorFor(snap state.Snapshot, role privilege.Role, email string) Actor {
	a := Actor{Role: role, Email: email}
	if st, ok := snap.StaffByEmail(email); ok {
		a.Staff = &st
	}
	return a
}

// Can reports whether the actor holds p.
func (a Actor) Can(p privilege.Privilege) bool {
	return authz.HasPrivilege(a.Role, p, a.Staff)
}

func (a Actor) require(p privilege.Privilege) error {
	if !a.Can(p) {
		slog.Info("authz_denied", "email", a.Email, "role", a.Role, "privilege", p)
		return ErrForbidden
	}
	return nil
}

// DisplayName is the actor's full name, falling back to email.
func (a Actor) DisplayName() string {
	if a.Staff != nil && a.Staff.FullName != "" {
		return a.Staff.FullName
	}
	return a.Email
}

// ActivityDeps is the slice of dependencies needed to record an activity entry.
type ActivityDeps struct {
	State      *state.Container
	GenerateID func() string
	Now        func() time.Time
}

// recordActivity appends an activity entry. Failures are logged and never
// returned: the action being recorded has already happened.
func recordActivity(ctx context.Context, deps ActivityDeps, e activitylog.Entry) {
	if deps.State == nil {
		return
	}
	if e.ID == "" {
		e.ID = deps.GenerateID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = deps.Now()
	}
	res, err := deps.State.Write(ctx, state.AppendActivity(e))
	if err != nil {
		slog.Warn("activity_log_failed", "action", e.Action, "email", e.UserEmail, "error", err)
		return
	}
	if res.Diverged() {
		slog.Warn("activity_log_failed", "action", e.Action, "email", e.UserEmail, "error", res.SyncErr)
	}
}

func (a Actor) entry(category activitylog.Category, action, details string) activitylog.Entry {
	return activitylog.Entry{
		Role:      a.Role,
		UserEmail: a.Email,
		Action:    action,
		Details:   details,
		Category:  category,
		Severity:  activitylog.SeverityInfo,
	}
}

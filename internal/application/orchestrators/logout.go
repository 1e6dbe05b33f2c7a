package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/attendance"
)

// ErrStillOnShift blocks logout until the user signs out of their shift or acknowledges.
var ErrStillOnShift = errors.New("you are still signed in for a shift; sign out of your shift first or confirm to log out anyway")

// LogoutInput carries input for the logout orchestrator.
type LogoutInput struct {
	Actor Actor
	// AcknowledgeShift confirms logging out while a shift is still open.
	AcknowledgeShift bool
}

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	State      *state.Container
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteLogout checks the shift guard and records the logout.
// PRE: Actor is signed in
// POST: returns ErrStillOnShift without side effects when on shift and not acknowledged
func ExecuteLogout(ctx context.Context, input LogoutInput, deps LogoutDeps) error {
	now := deps.Now()
	onShift := attendance.OnShift(deps.State.Snapshot().Attendance, input.Actor.Email, now)
	if onShift && !input.AcknowledgeShift {
		return ErrStillOnShift
	}

	activity := ActivityDeps{deps.State, deps.GenerateID, deps.Now}
	if onShift {
		recordActivity(ctx, activity, input.Actor.
			entry(activitylog.CategoryAccess, activitylog.ActionLogoutWarning, "Logged out while still signed in for a shift").
			WithSeverity(activitylog.SeverityWarning))
	}
	recordActivity(ctx, activity, input.Actor.entry(activitylog.CategoryAccess, activitylog.ActionLogout, input.Actor.Role.Label()+" logged out"))
	slog.Info("auth_event", "event", "logout", "email", input.Actor.Email, "on_shift", onShift)
	return nil
}

package orchestrators

import (
	"context"
	"time"

	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/attendance"
	"goodlife/internal/domain/calendar"
)

// ShiftInput carries input for the shift orchestrators.
type ShiftInput struct {
	Actor Actor
}

// ShiftDeps holds dependencies for shift sign-in and sign-out.
type ShiftDeps struct {
	State      *state.Container
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteShiftSignIn opens today's shift for the actor.
// PRE: Actor is a portal user
// POST: one open record exists for (actor email, today)
// INVARIANT: a second sign-in without sign-out returns attendance.ErrAlreadyOnShift
func ExecuteShiftSignIn(ctx context.Context, input ShiftInput, deps ShiftDeps) (attendance.Record, error) {
	now := deps.Now()
	rec := attendance.Record{
		ID:         deps.GenerateID(),
		StaffEmail: input.Actor.Email,
		StaffRole:  input.Actor.Role,
		Date:       calendar.Today(now),
		SignIn:     now,
	}
	if err := rec.Validate(); err != nil {
		return attendance.Record{}, err
	}
	res, err := deps.State.Write(ctx, state.SignIn(rec))
	if err != nil {
		return attendance.Record{}, err
	}
	rec.ID = res.ID

	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAccess, activitylog.ActionShiftSignIn, "Signed in at "+now.UTC().Format("15:04")))
	return rec, nil
}

// ExecuteShiftSignOut closes the actor's open shift for today.
// PRE: Actor has an open record for today
// POST: the record carries a sign-out time
func ExecuteShiftSignOut(ctx context.Context, input ShiftInput, deps ShiftDeps) (attendance.Record, error) {
	now := deps.Now()
	rec, ok := attendance.FindOpen(deps.State.Snapshot().Attendance, input.Actor.Email, calendar.Today(now))
	if !ok {
		return attendance.Record{}, attendance.ErrNotOnShift
	}
	if err := rec.Close(now); err != nil {
		return attendance.Record{}, err
	}
	if _, err := deps.State.Write(ctx, state.UpdateAttendance(rec)); err != nil {
		return attendance.Record{}, err
	}

	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAccess, activitylog.ActionShiftSignOut, "Signed out after "+rec.Duration(now).Round(time.Minute).String()))
	return rec, nil
}

package orchestrators

import (
	"context"
	"errors"
	"strings"
	"time"

	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/calendar"
	"goodlife/internal/domain/checkin"
)

// ErrAlreadyCheckedIn is returned when a phone number already has an open visit today.
var ErrAlreadyCheckedIn = errors.New("this phone number is already checked in today")

// CheckInDeps holds dependencies for the client check-in orchestrators.
type CheckInDeps struct {
	State      *state.Container
	GenerateID func() string
	Now        func() time.Time
}

// CheckInInput is a walk-in client arriving.
type CheckInInput struct {
	FullName string
	Phone    string
	Email    string
	Notes    string
}

// ExecuteCheckIn records a walk-in client's arrival.
// PRE: name and phone present
// POST: open visit stored for today
// INVARIANT: one open visit per phone per day
func ExecuteCheckIn(ctx context.Context, input CheckInInput, deps CheckInDeps) (checkin.CheckIn, error) {
	now := deps.Now()
	c := checkin.CheckIn{
		ID:        deps.GenerateID(),
		FullName:  strings.TrimSpace(input.FullName),
		Phone:     strings.TrimSpace(input.Phone),
		Email:     strings.TrimSpace(input.Email),
		Notes:     strings.TrimSpace(input.Notes),
		CheckInAt: now,
		Date:      calendar.Today(now),
	}
	if err := c.Validate(); err != nil {
		return checkin.CheckIn{}, err
	}
	for _, v := range deps.State.Snapshot().CheckIns {
		if v.Date == c.Date && v.Phone == c.Phone && !v.IsCheckedOut() {
			return checkin.CheckIn{}, ErrAlreadyCheckedIn
		}
	}
	res, err := deps.State.Write(ctx, state.AddCheckIn(c))
	if err != nil {
		return checkin.CheckIn{}, err
	}
	c.ID = res.ID
	return c, nil
}

// CheckOutInput identifies the visit that is ending.
type CheckOutInput struct {
	ID string
}

// ExecuteCheckOut stamps a visit's check-out time.
// PRE: visit exists and is open
// POST: CheckOutAt is now
func ExecuteCheckOut(ctx context.Context, input CheckOutInput, deps CheckInDeps) (checkin.CheckIn, error) {
	c, ok := deps.State.Snapshot().CheckInByID(input.ID)
	if !ok {
		return checkin.CheckIn{}, checkin.ErrNotFound
	}
	if err := c.CheckOut(deps.Now()); err != nil {
		return checkin.CheckIn{}, err
	}
	if _, err := deps.State.Write(ctx, state.UpdateCheckIn(c)); err != nil {
		return checkin.CheckIn{}, err
	}
	return c, nil
}

// DeleteCheckInInput carries input for removing a visit record.
type DeleteCheckInInput struct {
	Actor Actor
	ID    string
}

// ExecuteDeleteCheckIn removes a visit record.
// PRE: Actor is a portal user
func ExecuteDeleteCheckIn(ctx context.Context, input DeleteCheckInInput, deps CheckInDeps) error {
	if !input.Actor.Role.IsPortalRole() {
		return ErrForbidden
	}
	c, ok := deps.State.Snapshot().CheckInByID(input.ID)
	if !ok {
		return checkin.ErrNotFound
	}
	if _, err := deps.State.Write(ctx, state.DeleteCheckIn(c.ID)); err != nil {
		return err
	}
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionDeleteCheckIn, c.FullName+" on "+c.Date))
	return nil
}

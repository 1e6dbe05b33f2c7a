package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	emailAdapter "goodlife/internal/adapters/email"
	"goodlife/internal/adapters/photostore"
	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/calendar"
	"goodlife/internal/domain/member"
	"goodlife/internal/domain/plan"
	"goodlife/internal/domain/privilege"
)

// RegisterMemberInput carries input for the orchestrator.
type RegisterMemberInput struct {
	Actor            Actor
	FullName         string
	Email            string
	Phone            string
	Address          string
	EmergencyContact string
	Plan             string
	StartDate        string // empty means today
	ExpiryDate       string // empty means the plan's standard term from StartDate
	Photo            string
}

// MemberResult is a saved member plus non-fatal problems met on the way.
type MemberResult struct {
	Member   member.Member `json:"member"`
	Warnings []string      `json:"warnings,omitempty"`
}

// MemberDeps holds dependencies for the member orchestrators.
type MemberDeps struct {
	State      *state.Container
	Photos     photostore.Store
	Email      emailAdapter.Sender
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteRegisterMember coordinates direct registration at the front desk.
// PRE: Actor holds MANAGE_MEMBERS; photo provided
// POST: Member created with derived status; welcome email attempted
// INVARIANT: Email must be unique across members
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps MemberDeps) (MemberResult, error) {
	if err := input.Actor.require(privilege.ManageMembers); err != nil {
		return MemberResult{}, err
	}
	if strings.TrimSpace(input.Photo) == "" {
		return MemberResult{}, member.ErrPhotoRequired
	}
	now := deps.Now()

	p, err := plan.Parse(input.Plan)
	if err != nil {
		return MemberResult{}, err
	}
	start, expiry, err := termDates(p, input.StartDate, input.ExpiryDate, now)
	if err != nil {
		return MemberResult{}, err
	}

	m := member.Member{
		ID:               deps.GenerateID(),
		FullName:         strings.TrimSpace(input.FullName),
		Email:            strings.TrimSpace(input.Email),
		Phone:            strings.TrimSpace(input.Phone),
		Address:          strings.TrimSpace(input.Address),
		EmergencyContact: strings.TrimSpace(input.EmergencyContact),
		Plan:             p,
		StartDate:        start,
		ExpiryDate:       expiry,
		Status:           member.DeriveStatus(expiry, now),
	}
	if err := m.Validate(); err != nil {
		return MemberResult{}, err
	}

	var warnings []string
	m.Photo, warnings = savePhoto(ctx, deps.Photos, m.ID, input.Photo, warnings)

	res, err := deps.State.Write(ctx, state.AddMember(m))
	if err != nil {
		return MemberResult{}, err
	}
	m.ID = res.ID
	slog.Info("member_registered", "member_id", m.ID, "plan", m.Plan, "by", input.Actor.Email)

	req, buildErr := emailAdapter.Welcome(emailAdapter.WelcomeData{
		MemberName:  m.FullName,
		MemberEmail: m.Email,
		Plan:        string(m.Plan),
		StartDate:   m.StartDate,
		ExpiryDate:  m.ExpiryDate,
	})
	warnings = appendWarning(warnings, notify(ctx, deps.Email, "Welcome", req, buildErr))

	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionRegisterMember, "Registered "+m.FullName+" ("+string(m.Plan)+")"))
	return MemberResult{Member: m, Warnings: warnings}, nil
}

// termDates fills defaulted subscription dates.
func termDates(p plan.Plan, start, expiry string, now time.Time) (string, string, error) {
	start = strings.TrimSpace(start)
	if start == "" {
		start = calendar.Today(now)
	}
	startDate, err := calendar.ParseDate(start)
	if err != nil {
		return "", "", err
	}
	expiry = strings.TrimSpace(expiry)
	if expiry == "" {
		expiry = plan.TentativeExpiry(p, startDate).Format(calendar.DateLayout)
	}
	return start, expiry, nil
}

// savePhoto stores a photo, keeping it inline when the photo store fails.
func savePhoto(ctx context.Context, photos photostore.Store, key, photo string, warnings []string) (string, []string) {
	if photos == nil || photo == "" {
		return photo, warnings
	}
	saved, err := photos.Save(ctx, key, photo)
	if err != nil {
		slog.Warn("photo_store_failed", "member_id", key, "error", err)
		return photo, append(warnings, "photo upload failed; the photo was kept on the member record")
	}
	return saved, warnings
}

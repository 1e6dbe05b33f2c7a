package orchestrators

import (
	"context"
	"strings"

	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/authz"
	"goodlife/internal/domain/member"
	"goodlife/internal/domain/plan"
	"goodlife/internal/domain/privilege"
)

// UpdateMemberInput carries the edited profile. Empty optional fields are cleared.
type UpdateMemberInput struct {
	Actor            Actor
	ID               string
	FullName         string
	Email            string
	Phone            string
	Address          string
	EmergencyContact string
	Plan             string
	StartDate        string
	ExpiryDate       string
	Photo            string // empty keeps the current photo
}

// ExecuteUpdateMember edits a member and re-derives its status from the expiry date.
// PRE: Actor holds MANAGE_MEMBERS; member exists
// POST: Member replaced; Status matches ExpiryDate at now
func ExecuteUpdateMember(ctx context.Context, input UpdateMemberInput, deps MemberDeps) (MemberResult, error) {
	if err := input.Actor.require(privilege.ManageMembers); err != nil {
		return MemberResult{}, err
	}
	current, ok := deps.State.Snapshot().MemberByID(input.ID)
	if !ok {
		return MemberResult{}, member.ErrNotFound
	}
	p, err := plan.Parse(input.Plan)
	if err != nil {
		return MemberResult{}, err
	}

	m := current
	m.FullName = strings.TrimSpace(input.FullName)
	m.Email = strings.TrimSpace(input.Email)
	m.Phone = strings.TrimSpace(input.Phone)
	m.Address = strings.TrimSpace(input.Address)
	m.EmergencyContact = strings.TrimSpace(input.EmergencyContact)
	m.Plan = p
	m.StartDate = strings.TrimSpace(input.StartDate)
	m.ExpiryDate = strings.TrimSpace(input.ExpiryDate)
	m.RefreshStatus(deps.Now())
	if err := m.Validate(); err != nil {
		return MemberResult{}, err
	}

	var warnings []string
	if input.Photo != "" && input.Photo != current.Photo {
		m.Photo, warnings = savePhoto(ctx, deps.Photos, m.ID, input.Photo, warnings)
	}

	if _, err := deps.State.Write(ctx, state.UpdateMember(m)); err != nil {
		return MemberResult{}, err
	}
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionUpdateMember, "Updated "+m.FullName))
	return MemberResult{Member: m, Warnings: warnings}, nil
}

// DeleteMemberInput carries input for the delete orchestrator.
type DeleteMemberInput struct {
	Actor Actor
	ID    string
}

// ExecuteDeleteMember removes a member.
// PRE: Actor is Super-Admin
// POST: member no longer listed; payments keep their member name
func ExecuteDeleteMember(ctx context.Context, input DeleteMemberInput, deps MemberDeps) error {
	if !authz.CanDeleteMember(input.Actor.Role) {
		return ErrForbidden
	}
	m, ok := deps.State.Snapshot().MemberByID(input.ID)
	if !ok {
		return member.ErrNotFound
	}
	if _, err := deps.State.Write(ctx, state.DeleteMember(m.ID)); err != nil {
		return err
	}
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionDeleteMember, "Deleted "+m.FullName+" ("+m.Email+")"))
	return nil
}

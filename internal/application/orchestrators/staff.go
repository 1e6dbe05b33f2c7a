package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/authz"
	"goodlife/internal/domain/privilege"
	"goodlife/internal/domain/staff"
)

// StaffDeps holds dependencies for the staff account orchestrators.
type StaffDeps struct {
	State      *state.Container
	GenerateID func() string
	Now        func() time.Time
}

var (
	ErrStaffNotFound       = errors.New("staff member not found")
	ErrDeleteSelf          = errors.New("you cannot delete your own account")
	ErrLastSuperAdmin      = errors.New("at least one Super Admin account must remain")
	ErrUnknownPrivileges   = errors.New("unknown privileges")
	ErrSuperAdminPrivilege = errors.New("super admins hold every privilege; their privileges cannot be edited")
)

// --- Create staff ---

// CreateStaffInput carries a new portal account.
type CreateStaffInput struct {
	Actor      Actor
	FullName   string
	Email      string
	Role       string
	Position   string
	Phone      string
	Avatar     string
	Password   string
	Privileges []string
}

// ExecuteCreateStaff creates a portal account with a hashed password.
// PRE: Actor holds MANAGE_STAFF; creating a Super-Admin requires a Super-Admin actor
// POST: account stored with a bcrypt hash; unknown privileges rejected
// INVARIANT: login email is unique across staff
func ExecuteCreateStaff(ctx context.Context, input CreateStaffInput, deps StaffDeps) (staff.Staff, error) {
	role, err := privilege.ParseRole(input.Role)
	if err != nil || !role.IsPortalRole() {
		return staff.Staff{}, staff.ErrInvalidRole
	}
	if !authz.CanCreateStaffWithRole(input.Actor.Role, input.Actor.Staff, role) {
		return staff.Staff{}, ErrForbidden
	}
	privs, err := parsePrivileges(input.Privileges)
	if err != nil {
		return staff.Staff{}, err
	}

	st := staff.Staff{
		ID:         deps.GenerateID(),
		FullName:   strings.TrimSpace(input.FullName),
		Email:      staff.NormalizeEmail(input.Email),
		Role:       role,
		Position:   strings.TrimSpace(input.Position),
		Phone:      strings.TrimSpace(input.Phone),
		Avatar:     strings.TrimSpace(input.Avatar),
		Privileges: privs,
		CreatedAt:  deps.Now(),
	}
	if err := st.Validate(); err != nil {
		return staff.Staff{}, err
	}
	if err := st.SetPassword(input.Password); err != nil {
		return staff.Staff{}, err
	}

	res, err := deps.State.Write(ctx, state.AddStaff(st))
	if err != nil {
		return staff.Staff{}, err
	}
	st.ID = res.ID
	slog.Info("auth_event", "event", "account_created", "email", st.Email, "role", st.Role)
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionAddStaff,
			fmt.Sprintf("Added %s (%s, %s)", st.FullName, st.Role.Label(), st.Position)))
	return st, nil
}

// parsePrivileges validates a requested privilege set, rejecting unknown names.
func parsePrivileges(raw []string) ([]privilege.Privilege, error) {
	valid, rejected := privilege.ParseList(raw)
	if len(rejected) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPrivileges, strings.Join(rejected, ", "))
	}
	return valid, nil
}

// --- Delete staff ---

// DeleteStaffInput carries input for the delete orchestrator.
type DeleteStaffInput struct {
	Actor Actor
	ID    string
}

// ExecuteDeleteStaff removes a portal account.
// PRE: Actor holds MANAGE_STAFF; removing a Super-Admin requires a Super-Admin actor
// POST: account removed; attendance and activity history are kept
// INVARIANT: the last Super-Admin cannot be removed; nobody removes themselves
func ExecuteDeleteStaff(ctx context.Context, input DeleteStaffInput, deps StaffDeps) error {
	if err := input.Actor.require(privilege.ManageStaff); err != nil {
		return err
	}
	snap := deps.State.Snapshot()
	target, ok := snap.StaffByID(input.ID)
	if !ok {
		return ErrStaffNotFound
	}
	if staff.SameEmail(target.Email, input.Actor.Email) {
		return ErrDeleteSelf
	}
	if target.IsSuperAdmin() {
		if input.Actor.Role != privilege.RoleSuperAdmin {
			return ErrForbidden
		}
		if snap.CountSuperAdmins() <= 1 {
			return ErrLastSuperAdmin
		}
	}
	if _, err := deps.State.Write(ctx, state.DeleteStaff(target.ID)); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "account_deleted", "email", target.Email, "by", input.Actor.Email)
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionDeleteStaff, "Removed "+target.FullName+" ("+target.Email+")"))
	return nil
}

// --- Privileges ---

// UpdatePrivilegesInput carries the full replacement privilege set.
type UpdatePrivilegesInput struct {
	Actor      Actor
	StaffID    string
	Privileges []string
}

// UpdatePrivilegesResult reports the saved set and how many persist attempts it took.
type UpdatePrivilegesResult struct {
	Staff    staff.Staff `json:"staff"`
	Attempts int         `json:"attempts"`
}

// ExecuteUpdatePrivileges replaces a staff member's privileges.
// Transient backend failures are retried three times with linear backoff;
// on final failure the local change is rolled back.
// PRE: Actor holds MANAGE_PRIVILEGES; target is a Staff-role account
// POST: target.Privileges equals the requested set
func ExecuteUpdatePrivileges(ctx context.Context, input UpdatePrivilegesInput, deps StaffDeps) (UpdatePrivilegesResult, error) {
	if err := input.Actor.require(privilege.ManagePrivileges); err != nil {
		return UpdatePrivilegesResult{}, err
	}
	target, ok := deps.State.Snapshot().StaffByID(input.StaffID)
	if !ok {
		return UpdatePrivilegesResult{}, ErrStaffNotFound
	}
	if target.IsSuperAdmin() {
		return UpdatePrivilegesResult{}, ErrSuperAdminPrivilege
	}
	privs, err := parsePrivileges(input.Privileges)
	if err != nil {
		return UpdatePrivilegesResult{}, err
	}

	res, err := deps.State.Write(ctx, state.UpdateStaffPrivileges(target.ID, privs))
	if err != nil {
		return UpdatePrivilegesResult{Attempts: res.Attempts}, err
	}
	target.Privileges = privs
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionUpdatePrivileges,
			fmt.Sprintf("Set %d privileges for %s", len(privs), target.FullName)))
	return UpdatePrivilegesResult{Staff: target, Attempts: res.Attempts}, nil
}

// --- Bootstrap ---

// SeedAdminInput carries the bootstrap Super-Admin credentials.
type SeedAdminInput struct {
	Email    string
	Password string
	FullName string
}

// ExecuteSeedAdmin makes sure a Super-Admin can sign in.
// With no accounts at all it creates one; a fixture account without a
// password hash gets the configured password.
// PRE: state is loaded
// POST: the configured admin has a password hash, or nothing changed
func ExecuteSeedAdmin(ctx context.Context, input SeedAdminInput, deps StaffDeps) error {
	if input.Email == "" || input.Password == "" {
		return nil
	}
	snap := deps.State.Snapshot()
	if existing, ok := snap.StaffByEmail(input.Email); ok {
		if existing.PasswordHash != "" {
			return nil
		}
		if err := existing.SetPassword(input.Password); err != nil {
			return err
		}
		if _, err := deps.State.Write(ctx, state.UpdateStaff(existing)); err != nil {
			return err
		}
		slog.Info("auth_event", "event", "admin_password_set", "email", existing.Email)
		return nil
	}
	if len(snap.Staff) > 0 {
		return nil
	}

	name := input.FullName
	if name == "" {
		name = "Goodlife Admin"
	}
	admin := staff.Staff{
		ID:        deps.GenerateID(),
		FullName:  name,
		Email:     staff.NormalizeEmail(input.Email),
		Role:      privilege.RoleSuperAdmin,
		Position:  "Owner / Manager",
		Phone:     "N/A",
		CreatedAt: deps.Now(),
	}
	if err := admin.Validate(); err != nil {
		return err
	}
	if err := admin.SetPassword(input.Password); err != nil {
		return err
	}
	if _, err := deps.State.Write(ctx, state.AddStaff(admin)); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "admin_seeded", "email", admin.Email)
	return nil
}

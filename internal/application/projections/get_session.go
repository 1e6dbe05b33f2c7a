package projections

import (
	"context"

	"goodlife/internal/domain/attendance"
	"goodlife/internal/domain/authz"
	"goodlife/internal/domain/privilege"
	"goodlife/internal/domain/staff"
)

// GetSessionQuery identifies the signed-in user.
type GetSessionQuery struct {
	Role        privilege.Role
	Email       string
	CurrentPage string
}

// SessionView is what the portal shell needs after a reload.
type SessionView struct {
	Role        privilege.Role        `json:"role"`
	RoleLabel   string                `json:"roleLabel"`
	Email       string                `json:"email"`
	FullName    string                `json:"fullName"`
	CurrentPage string                `json:"currentPage"`
	OnShift     bool                  `json:"onShift"`
	Privileges  []privilege.Privilege `json:"privileges"`
	Nav         []authz.NavItem       `json:"nav"`
}

// QueryGetSession resolves the caller's profile, navigation and shift state.
// POST: CurrentPage falls back to dashboard when the stored page is no longer visible
func QueryGetSession(_ context.Context, query GetSessionQuery, deps Deps) (SessionView, error) {
	snap := deps.State.Snapshot()
	var holder *staff.Staff
	view := SessionView{
		Role:        query.Role,
		RoleLabel:   query.Role.Label(),
		Email:       query.Email,
		CurrentPage: query.CurrentPage,
		Privileges:  []privilege.Privilege{},
	}
	if st, ok := snap.StaffByEmail(query.Email); ok {
		holder = &st
		view.FullName = st.FullName
	}
	switch {
	case query.Role == privilege.RoleSuperAdmin:
		view.Privileges = privilege.All()
	case holder != nil:
		view.Privileges = append(view.Privileges, holder.Privileges...)
	}
	view.Nav = authz.VisibleNav(query.Role, holder)
	if view.Nav == nil {
		view.Nav = []authz.NavItem{}
	}
	if !authz.CanOpen(view.CurrentPage, query.Role, holder) {
		view.CurrentPage = "dashboard"
	}
	view.OnShift = attendance.OnShift(snap.Attendance, query.Email, deps.Now())
	return view, nil
}

// PrivilegeGroup is one category of the privilege editor.
type PrivilegeGroup struct {
	Category   privilege.Category `json:"category"`
	Privileges []privilege.Info   `json:"privileges"`
}

// PrivilegeCatalogue lists the privilege editor groups in display order.
func PrivilegeCatalogue() []PrivilegeGroup {
	grouped := privilege.ByCategory()
	out := make([]PrivilegeGroup, 0, len(privilege.Categories))
	for _, c := range privilege.Categories {
		out = append(out, PrivilegeGroup{Category: c, Privileges: grouped[c]})
	}
	return out
}

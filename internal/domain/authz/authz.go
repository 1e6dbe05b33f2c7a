// Package authz decides whether a role, optionally backed by a staff record,
// may see a navigation item or perform an action.
package authz

import (
	"goodlife/internal/domain/privilege"
	"goodlife/internal/domain/staff"
)

// HasPrivilege reports whether role (with holder for Staff) grants p.
// Super-Admin always passes; Public never does; Staff needs p in holder's set.
// PRE: holder may be nil
// INVARIANT: pure, no side effects
func HasPrivilege(role privilege.Role, p privilege.Privilege, holder *staff.Staff) bool {
	switch role {
	case privilege.RoleSuperAdmin:
		return true
	case privilege.RoleStaff:
		return holder != nil && holder.Holds(p)
	}
	return false
}

// HasAnyPrivilege is HasPrivilege OR-ed over ps.
func HasAnyPrivilege(role privilege.Role, ps []privilege.Privilege, holder *staff.Staff) bool {
	for _, p := range ps {
		if HasPrivilege(role, p, holder) {
			return true
		}
	}
	return false
}

// HasAllPrivileges is HasPrivilege AND-ed over ps.
func HasAllPrivileges(role privilege.Role, ps []privilege.Privilege, holder *staff.Staff) bool {
	for _, p := range ps {
		if !HasPrivilege(role, p, holder) {
			return false
		}
	}
	return true
}

// NavItem is a portal navigation entry.
type NavItem struct {
	ID        string              `json:"id"`
	Label     string              `json:"label"`
	Roles     []privilege.Role    `json:"-"`
	Privilege privilege.Privilege `json:"privilege,omitempty"`
}

var (
	portalRoles    = []privilege.Role{privilege.RoleStaff, privilege.RoleSuperAdmin}
	superAdminOnly = []privilege.Role{privilege.RoleSuperAdmin}
)

// NavItems is the portal navigation in display order.
var NavItems = []NavItem{
	{ID: "dashboard", Label: "Dashboard", Roles: portalRoles},
	{ID: "members", Label: "Members", Roles: portalRoles, Privilege: privilege.ManageMembers},
	{ID: "subscriptions", Label: "Subscriptions", Roles: portalRoles, Privilege: privilege.ManageMembers},
	{ID: "payments", Label: "Payments", Roles: portalRoles, Privilege: privilege.ManagePayments},
	{ID: "attendance", Label: "Attendance", Roles: portalRoles},
	{ID: "checkins", Label: "Client Check-Ins", Roles: portalRoles},
	{ID: "communications", Label: "Communications", Roles: portalRoles},
	{ID: "activity-logs", Label: "Activity Logs", Roles: portalRoles, Privilege: privilege.ViewActivityLogs},
	{ID: "staff", Label: "Staff", Roles: superAdminOnly, Privilege: privilege.ManageStaff},
	{ID: "content", Label: "Content", Roles: portalRoles, Privilege: privilege.ManageAnnouncements},
	{ID: "settings", Label: "Settings", Roles: portalRoles, Privilege: privilege.ManagePrivileges},
}

// CanSee reports whether item is visible: role allowed AND (Super-Admin OR privilege held).
func CanSee(item NavItem, role privilege.Role, holder *staff.Staff) bool {
	allowed := false
	for _, r := range item.Roles {
		if r == role {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	if role == privilege.RoleSuperAdmin || item.Privilege == "" {
		return true
	}
	return HasPrivilege(role, item.Privilege, holder)
}

// VisibleNav filters NavItems for the caller.
func VisibleNav(role privilege.Role, holder *staff.Staff) []NavItem {
	var out []NavItem
	for _, item := range NavItems {
		if CanSee(item, role, holder) {
			out = append(out, item)
		}
	}
	return out
}

// CanOpen reports whether a page id is visible. Unknown pages are never visible.
func CanOpen(page string, role privilege.Role, holder *staff.Staff) bool {
	for _, item := range NavItems {
		if item.ID == page {
			return CanSee(item, role, holder)
		}
	}
	return false
}

// CanDeleteMember is restricted to Super-Admin.
func CanDeleteMember(role privilege.Role) bool {
	return role == privilege.RoleSuperAdmin
}

// CanCreateStaffWithRole gates account creation: MANAGE_STAFF for Staff accounts,
// Super-Admin for Super-Admin accounts.
func CanCreateStaffWithRole(actor privilege.Role, holder *staff.Staff, target privilege.Role) bool {
	if target == privilege.RoleSuperAdmin {
		return actor == privilege.RoleSuperAdmin
	}
	return HasPrivilege(actor, privilege.ManageStaff, holder)
}

package privilege

import "errors"

// Role identifies who is acting.
type Role string

const (
	RolePublic     Role = "PUBLIC"
	RoleStaff      Role = "STAFF"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// ErrInvalidRole is returned when a string does not name a role.
var ErrInvalidRole = errors.New("role must be one of: PUBLIC, STAFF, SUPER_ADMIN")

// ParseRole converts a stored role string into a Role, tolerating case and separator drift.
func ParseRole(s string) (Role, error) {
	switch Role(Normalize(s)) {
	case RolePublic:
		return RolePublic, nil
	case RoleStaff:
		return RoleStaff, nil
	case RoleSuperAdmin, "SUPERADMIN":
		return RoleSuperAdmin, nil
	}
	return "", ErrInvalidRole
}

// IsPortalRole reports whether r may sign in to the staff portal.
func (r Role) IsPortalRole() bool {
	return r == RoleStaff || r == RoleSuperAdmin
}

// Label returns the display name used in activity wording.
func (r Role) Label() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Admin"
	case RoleStaff:
		return "Staff Member"
	}
	return "Visitor"
}

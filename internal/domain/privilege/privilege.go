package privilege

import (
	"errors"
	"strings"
)

// Privilege is a named permission a staff account may hold.
// The set is closed: values outside All() never enter the domain.
type Privilege string

const (
	ManageMembers        Privilege = "MANAGE_MEMBERS"
	DeleteMembers        Privilege = "DELETE_MEMBERS"
	ManagePayments       Privilege = "MANAGE_PAYMENTS"
	ConfirmPayments      Privilege = "CONFIRM_PAYMENTS"
	ManageAnnouncements  Privilege = "MANAGE_ANNOUNCEMENTS"
	ViewActivityLogs     Privilege = "VIEW_ACTIVITY_LOGS"
	ViewAllAttendance    Privilege = "VIEW_ALL_ATTENDANCE"
	ManageStaff          Privilege = "MANAGE_STAFF"
	ManagePrivileges     Privilege = "MANAGE_PRIVILEGES"
	ViewRevenueAnalytics Privilege = "VIEW_REVENUE_ANALYTICS"
	ViewTeamMonitoring   Privilege = "VIEW_TEAM_MONITORING"
)

// Category groups privileges for display.
type Category string

const (
	CategoryMembers  Category = "Member Management"
	CategoryPayments Category = "Payment Management"
	CategoryContent  Category = "Content Management"
	CategorySystem   Category = "System Access"
	CategoryAnalytic Category = "Analytics"
)

// Categories lists display categories in editor order.
var Categories = []Category{CategoryMembers, CategoryPayments, CategoryContent, CategorySystem, CategoryAnalytic}

// Info is the display metadata for a privilege. It has no runtime effect.
type Info struct {
	Privilege   Privilege `json:"privilege"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
}

var catalogue = []Info{
	{ManageMembers, "Manage Members", "Add, edit, and view member profiles", CategoryMembers},
	{DeleteMembers, "Delete Members", "Permanently remove members from the system", CategoryMembers},
	{ManagePayments, "Manage Payments", "View and record payment transactions", CategoryPayments},
	{ConfirmPayments, "Confirm Payments", "Approve and confirm pending mobile money payments", CategoryPayments},
	{ManageAnnouncements, "Manage Announcements", "Create, edit, and delete gym announcements", CategoryContent},
	{ViewActivityLogs, "View Activity Logs", "Access system activity and audit logs", CategorySystem},
	{ViewAllAttendance, "View All Attendance", "View attendance records for all staff members", CategorySystem},
	{ManageStaff, "Manage Staff", "Add and remove staff accounts", CategorySystem},
	{ManagePrivileges, "Manage Privileges", "Assign privileges to staff members", CategorySystem},
	{ViewRevenueAnalytics, "View Revenue Analytics", "Access revenue reports and financial insights", CategoryAnalytic},
	{ViewTeamMonitoring, "View Team Monitoring", "Monitor staff shifts and recent activity", CategoryAnalytic},
}

// ErrUnknownPrivilege is returned when a string does not name a privilege.
var ErrUnknownPrivilege = errors.New("unknown privilege")

// All returns every privilege in catalogue order.
func All() []Privilege {
	out := make([]Privilege, len(catalogue))
	for i, info := range catalogue {
		out[i] = info.Privilege
	}
	return out
}

// Describe returns the display metadata for p.
// POST: ok is false when p is not in the catalogue
func Describe(p Privilege) (Info, bool) {
	for _, info := range catalogue {
		if info.Privilege == p {
			return info, true
		}
	}
	return Info{}, false
}

// ByCategory groups the catalogue by display category.
func ByCategory() map[Category][]Info {
	out := make(map[Category][]Info, len(Categories))
	for _, info := range catalogue {
		out[info.Category] = append(out[info.Category], info)
	}
	return out
}

// Normalize canonicalises a stored privilege or role string:
// surrounding whitespace and quotes trimmed, upper-cased, spaces and hyphens to underscores.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	s = strings.ToUpper(s)
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}

// Parse converts a raw string into a Privilege.
// PRE: none
// POST: returns ErrUnknownPrivilege for anything outside the closed set
func Parse(s string) (Privilege, error) {
	n := Privilege(Normalize(s))
	if _, ok := Describe(n); !ok {
		return "", ErrUnknownPrivilege
	}
	return n, nil
}

// ParseList converts stored strings into privileges, keeping catalogue-valid
// values in input order (duplicates dropped) and returning the rest as rejected.
// Callers decide how to report rejected values.
func ParseList(raw []string) (valid []Privilege, rejected []string) {
	seen := make(map[Privilege]bool, len(raw))
	for _, s := range raw {
		p, err := Parse(s)
		if err != nil {
			rejected = append(rejected, s)
			continue
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		valid = append(valid, p)
	}
	return valid, rejected
}

// Equal compares two privileges after normalisation.
func Equal(a, b Privilege) bool {
	return Normalize(string(a)) == Normalize(string(b))
}

// Strings converts privileges to their stored form.
func Strings(ps []Privilege) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

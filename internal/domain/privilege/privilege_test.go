package privilege_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goodlife/internal/domain/privilege"
)

func TestParse_ToleratesRepresentationDrift(t *testing.T) {
	for _, raw := range []string{"MANAGE_MEMBERS", "manage_members", " Manage Members ", "manage-members", `"MANAGE_MEMBERS"`} {
		p, err := privilege.Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, privilege.ManageMembers, p)
	}
}

func TestParse_RejectsUnknown(t *testing.T) {
	_, err := privilege.Parse("LAUNCH_MISSILES")
	assert.ErrorIs(t, err, privilege.ErrUnknownPrivilege)
}

func TestParseList_SplitsValidAndRejected(t *testing.T) {
	valid, rejected := privilege.ParseList([]string{"CONFIRM_PAYMENTS", "bogus", "confirm_payments", "VIEW_TEAM_MONITORING"})
	assert.Equal(t, []privilege.Privilege{privilege.ConfirmPayments, privilege.ViewTeamMonitoring}, valid)
	assert.Equal(t, []string{"bogus"}, rejected)
}

func TestByCategory_CoversCatalogue(t *testing.T) {
	groups := privilege.ByCategory()
	total := 0
	for _, c := range privilege.Categories {
		total += len(groups[c])
	}
	assert.Equal(t, len(privilege.All()), total)
	assert.Len(t, groups[privilege.CategoryAnalytic], 2)
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want privilege.Role
	}{
		{"SUPER_ADMIN", privilege.RoleSuperAdmin},
		{"super admin", privilege.RoleSuperAdmin},
		{"staff", privilege.RoleStaff},
		{"Public", privilege.RolePublic},
	}
	for _, tt := range tests {
		got, err := privilege.ParseRole(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := privilege.ParseRole("janitor")
	assert.ErrorIs(t, err, privilege.ErrInvalidRole)
}

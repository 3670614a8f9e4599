package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllPermissionsHasNoDuplicates(t *testing.T) {
	seen := make(map[Permission]struct{})
	for _, p := range AllPermissions() {
		_, dup := seen[p]
		require.False(t, dup, "permission %s appears twice in the catalog", p)
		seen[p] = struct{}{}
	}
}

func TestPermissionGroupsPartitionTheCatalog(t *testing.T) {
	total := len(SASPermissions()) + len(RegistrarPermissions()) + len(USGPermissions()) + len(SystemPermissions())
	assert.Equal(t, total, len(AllPermissions()))
}

func TestPermissionGroupsReturnFreshSlices(t *testing.T) {
	first := SASPermissions()
	first[0] = Permission("tampered")
	assert.Equal(t, PermSubmitScholarshipApplication, SASPermissions()[0])
}

func TestPermissionLabel(t *testing.T) {
	assert.Equal(t, "approve scholarships over 20k", PermApproveScholarshipsOver20k.Label())
}

func TestAllRolesStable(t *testing.T) {
	assert.Equal(t, AllRoles(), AllRoles())
	assert.Len(t, AllRoles(), 8)
}

func TestRoleClassifications(t *testing.T) {
	assert.True(t, RoleSasAdmin.IsAdmin())
	assert.True(t, RoleUsgAdmin.IsAdmin())
	assert.False(t, RoleSasStaff.IsAdmin())
	assert.False(t, RoleStudent.IsAdmin())

	assert.True(t, RoleSystemAdmin.IsSystemAdmin())
	assert.False(t, RoleRegistrarAdmin.IsSystemAdmin())

	assert.True(t, RoleStudent.IsStudent())
	assert.False(t, RoleUsgOfficer.IsStudent())

	assert.True(t, RoleRegistrarStaff.IsStaff())
	assert.False(t, RoleStudent.IsStaff())
}

func TestRoleLabelsAndDescriptions(t *testing.T) {
	for _, role := range AllRoles() {
		assert.NotEqual(t, role.String(), role.Label(), "role %s needs a display label", role)
		assert.NotEmpty(t, role.Description())
	}
}

func TestModuleRoleGroups(t *testing.T) {
	assert.Equal(t, []Role{RoleSasStaff, RoleSasAdmin}, SASRoles())
	assert.Equal(t, []Role{RoleRegistrarStaff, RoleRegistrarAdmin}, RegistrarRoles())
	assert.Equal(t, []Role{RoleUsgOfficer, RoleUsgAdmin}, USGRoles())

	for _, role := range AdminRoles() {
		assert.Contains(t, StaffRoles(), role, "every admin role is also staff")
	}
}

package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voltgrid/auth-server/identities"
	"github.com/voltgrid/auth-server/permissions"
)

func testRegistry(options ...permissions.RegistryOption) *permissions.Registry {
	return permissions.NewRegistry([]permissions.FeatureSpec{
		{
			Name: "stations",
			Actions: map[string]permissions.Allowance{
				permissions.ActionAccess: permissions.Everyone(),
				permissions.ActionEdit:   permissions.AnyOf(permissions.TenantManagers),
			},
		},
		{
			Name: "firmware",
			Actions: map[string]permissions.Allowance{
				permissions.ActionAccess: permissions.AnyOf(permissions.PlatformOperators),
			},
		},
	}, options...)
}

func TestAllowed_EveryoneSentinel(t *testing.T) {
	r := testRegistry()

	for _, role := range identities.AllRoles {
		require.True(t, r.Allowed(role, "stations", permissions.ActionAccess), "role %s", role)
	}
}

func TestAllowed_RoleSet(t *testing.T) {
	r := testRegistry()

	require.True(t, r.Allowed(identities.RoleTenantOwner, "stations", permissions.ActionEdit))
	require.True(t, r.Allowed(identities.RoleOrgAdmin, "stations", permissions.ActionEdit))
	require.False(t, r.Allowed(identities.RoleViewer, "stations", permissions.ActionEdit))
	require.False(t, r.Allowed(identities.RoleTechnician, "stations", permissions.ActionEdit))
}

func TestAllowed_FailClosed(t *testing.T) {
	r := testRegistry()

	// Unknown feature denies for every role, including super admin.
	require.False(t, r.Allowed(identities.RoleSuperAdmin, "no-such-feature", permissions.ActionAccess))

	// Undeclared action on a known feature denies.
	require.False(t, r.Allowed(identities.RoleSuperAdmin, "stations", permissions.ActionDelete))
}

func TestAllowed_StrictModePanicsOnUndeclaredAction(t *testing.T) {
	r := testRegistry(permissions.WithStrictActions())

	require.Panics(t, func() {
		r.Allowed(identities.RoleViewer, "stations", "tpyo")
	})

	// Unknown features still deny quietly; strict mode targets action typos.
	require.False(t, r.Allowed(identities.RoleViewer, "no-such-feature", permissions.ActionAccess))
}

func TestForFeature_FullActionMap(t *testing.T) {
	r := testRegistry()

	perms := r.ForFeature(identities.RoleViewer, "stations")
	require.Equal(t, map[string]bool{
		permissions.ActionAccess: true,
		permissions.ActionEdit:   false,
	}, perms)
}

func TestForFeature_UnknownFeatureIsEmpty(t *testing.T) {
	r := testRegistry()

	require.Empty(t, r.ForFeature(identities.RoleSuperAdmin, "no-such-feature"))
}

func TestGroupExpansionDeduplicates(t *testing.T) {
	// super_admin appears in both groups; the union must still behave as a set.
	a := permissions.AnyOf(permissions.PlatformAdmins, permissions.PlatformOperators)

	require.True(t, a.Permits(identities.RoleSuperAdmin))
	require.True(t, a.Permits(identities.RolePlatformOperator))
	require.False(t, a.Permits(identities.RoleViewer))
}

func TestDefaultTableLoads(t *testing.T) {
	r := permissions.NewRegistry(permissions.DefaultTable())

	require.True(t, r.Allowed(identities.RoleViewer, "map", permissions.ActionAccess))
	require.True(t, r.Allowed(identities.RolePlatformOperator, "dispatch", permissions.ActionAccess))
	require.False(t, r.Allowed(identities.RoleViewer, "billing", permissions.ActionAccess))
	require.False(t, r.Allowed(identities.RoleTechnician, "station-commands", permissions.ActionDispatch))
}

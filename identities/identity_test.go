package identities_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voltgrid/auth-server/identities"
)

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "owner@example.com", identities.NormalizeEmail("  Owner@Example.COM "))
	require.Equal(t, "owner@example.com", identities.NormalizeEmail("owner@example.com"))
}

func TestValidatePasswordStrength(t *testing.T) {
	require.NoError(t, identities.ValidatePasswordStrength("Sup3rSecret"))

	require.Error(t, identities.ValidatePasswordStrength("Sh0rt"))
	require.Error(t, identities.ValidatePasswordStrength("alllower1"))
	require.Error(t, identities.ValidatePasswordStrength("ALLUPPER1"))
	require.Error(t, identities.ValidatePasswordStrength("NoNumbers"))
}

func TestActive(t *testing.T) {
	require.True(t, (&identities.Identity{}).Active())
	require.False(t, (&identities.Identity{Disabled: true}).Active())

	var nilIdentity *identities.Identity
	require.False(t, nilIdentity.Active())
}

func TestParseRole(t *testing.T) {
	role, err := identities.ParseRole("tenant_owner")
	require.NoError(t, err)
	require.Equal(t, identities.RoleTenantOwner, role)

	_, err = identities.ParseRole("overlord")
	require.Error(t, err)

	_, err = identities.ParseRole("")
	require.Error(t, err)
}

func TestPlatformGlobal(t *testing.T) {
	global := map[identities.Role]bool{
		identities.RoleSuperAdmin:       true,
		identities.RolePlatformOperator: true,
		identities.RolePlatformSupport:  true,
	}
	for _, role := range identities.AllRoles {
		require.Equal(t, global[role], role.PlatformGlobal(), "role %s", role)
	}
}

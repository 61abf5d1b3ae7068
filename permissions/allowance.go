package permissions

import "github.com/voltgrid/auth-server/identities"

// Allowance declares who may perform one action on one feature: either the
// "everyone" sentinel or a concrete role set. The sentinel is an explicit
// variant rather than a magic string so the distinction survives refactors.
type Allowance struct {
	everyone bool
	roles    map[identities.Role]struct{}
}

// Everyone allows any role, including ones added later.
func Everyone() Allowance {
	return Allowance{everyone: true}
}

// AnyOf allows the union of the given groups. Expansion and de-duplication
// happen here, once, at table-construction time; lookups are a map probe.
func AnyOf(groups ...Group) Allowance {
	roles := make(map[identities.Role]struct{})
	for _, g := range groups {
		for _, r := range g {
			roles[r] = struct{}{}
		}
	}
	return Allowance{roles: roles}
}

// Permits reports whether the role clears this allowance.
func (a Allowance) Permits(role identities.Role) bool {
	if a.everyone {
		return true
	}
	_, ok := a.roles[role]
	return ok
}

// Group is a named alias for a list of roles, expanded at construction.
type Group []identities.Role

// Of builds an inline group from individual roles.
func Of(roles ...identities.Role) Group {
	return Group(roles)
}

var (
	// PlatformAdmins manage the platform itself.
	PlatformAdmins = Group{identities.RoleSuperAdmin}

	// PlatformOperators run the fleet across all tenants.
	PlatformOperators = Group{
		identities.RoleSuperAdmin,
		identities.RolePlatformOperator,
		identities.RolePlatformSupport,
	}

	// TenantManagers administer a tenant or one of its organizations.
	TenantManagers = Group{
		identities.RoleTenantOwner,
		identities.RoleOrgAdmin,
	}

	// StationStaff work on individual stations.
	StationStaff = Group{
		identities.RoleStationManager,
		identities.RoleTechnician,
	}
)

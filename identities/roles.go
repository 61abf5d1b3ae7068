package identities

import "fmt"

// Role is the closed set of dashboard roles. Every identity carries exactly
// one role; the permission registry decides what each role may do.
type Role string

const (
	// Platform-level roles, visible across all tenants
	RoleSuperAdmin       Role = "super_admin"       // Manages the platform itself
	RolePlatformOperator Role = "platform_operator" // Operates stations fleet-wide
	RolePlatformSupport  Role = "platform_support"  // Read-mostly support staff

	// Tenant-level roles
	RoleTenantOwner    Role = "tenant_owner" // Baseline role assigned at registration
	RoleOrgAdmin       Role = "org_admin"    // Manages one organization
	RoleStationManager Role = "station_manager"
	RoleTechnician     Role = "technician"
	RoleViewer         Role = "viewer"
)

// AllRoles enumerates every valid role. Kept in declaration order.
var AllRoles = []Role{
	RoleSuperAdmin,
	RolePlatformOperator,
	RolePlatformSupport,
	RoleTenantOwner,
	RoleOrgAdmin,
	RoleStationManager,
	RoleTechnician,
	RoleViewer,
}

// ParseRole validates a role string against the closed set.
func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if Role(s) == r {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// PlatformGlobal reports whether the role belongs to the platform-wide
// visibility class. Platform-global roles bypass every scope dimension
// (region, organization, station) when results are narrowed.
func (r Role) PlatformGlobal() bool {
	switch r {
	case RoleSuperAdmin, RolePlatformOperator, RolePlatformSupport:
		return true
	}
	return false
}

// Valid reports whether the role is a member of the closed set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

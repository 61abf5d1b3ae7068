package permissions

import "github.com/voltgrid/auth-server/identities"

// DefaultTable is the platform's capability table. Loaded once at process
// start; the Registry built from it is read-only for the process lifetime.
func DefaultTable() []FeatureSpec {
	return []FeatureSpec{
		{
			Name: "stations",
			Actions: map[string]Allowance{
				ActionAccess: Everyone(),
				ActionCreate: AnyOf(PlatformOperators, TenantManagers),
				ActionEdit:   AnyOf(PlatformOperators, TenantManagers, Of(identities.RoleStationManager)),
				ActionDelete: AnyOf(PlatformAdmins, Of(identities.RoleTenantOwner)),
			},
		},
		{
			Name: "station-commands",
			Actions: map[string]Allowance{
				ActionAccess:   AnyOf(PlatformOperators, TenantManagers, StationStaff),
				ActionDispatch: AnyOf(PlatformOperators, TenantManagers, Of(identities.RoleStationManager)),
			},
		},
		{
			Name: "firmware",
			Actions: map[string]Allowance{
				ActionAccess: AnyOf(PlatformOperators, StationStaff),
				ActionEdit:   AnyOf(PlatformAdmins, Of(identities.RolePlatformOperator)),
			},
		},
		{
			Name: "tariffs",
			Actions: map[string]Allowance{
				ActionAccess: AnyOf(PlatformOperators, TenantManagers),
				ActionEdit:   AnyOf(TenantManagers),
			},
		},
		{
			Name: "charge-sessions",
			Actions: map[string]Allowance{
				ActionAccess: Everyone(),
				ActionExport: AnyOf(PlatformOperators, TenantManagers),
			},
		},
		{
			Name: "users",
			Actions: map[string]Allowance{
				ActionAccess: AnyOf(PlatformAdmins, TenantManagers),
				ActionCreate: AnyOf(PlatformAdmins, TenantManagers),
				ActionEdit:   AnyOf(PlatformAdmins, TenantManagers),
				ActionDelete: AnyOf(PlatformAdmins, Of(identities.RoleTenantOwner)),
			},
		},
		{
			Name: "notifications",
			Actions: map[string]Allowance{
				ActionAccess: Everyone(),
				ActionCreate: AnyOf(PlatformOperators, TenantManagers),
			},
		},
		{
			Name: "billing",
			Actions: map[string]Allowance{
				ActionAccess: AnyOf(PlatformAdmins, TenantManagers),
				ActionExport: AnyOf(PlatformAdmins, Of(identities.RoleTenantOwner)),
			},
		},
		{
			Name: "analytics",
			Actions: map[string]Allowance{
				ActionAccess: AnyOf(PlatformOperators, TenantManagers),
				ActionExport: AnyOf(PlatformOperators, TenantManagers),
			},
		},
		{
			Name: "dispatch",
			Actions: map[string]Allowance{
				ActionAccess: AnyOf(PlatformOperators, TenantManagers, StationStaff),
			},
		},
		{
			Name: "map",
			Actions: map[string]Allowance{
				ActionAccess: Everyone(),
			},
		},
	}
}

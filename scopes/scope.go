package scopes

import "github.com/voltgrid/auth-server/identities"

// Scope is the region/organization/station visibility of either a caller
// or a resource. Nil fields are wildcards: they never constrain a match.
type Scope struct {
	Region    *string `json:"region,omitempty"`
	OrgID     *string `json:"orgId,omitempty"`
	StationID *string `json:"stationId,omitempty"`
}

// InScope decides whether a resource is visible to a caller. Every defined
// dimension on the resource must be defined and equal on the caller side,
// unless the caller's role is platform-global, which bypasses the check
// entirely. This narrows result sets on top of authorization; it is never a
// substitute for it.
func InScope(role identities.Role, caller, resource Scope) bool {
	if role.PlatformGlobal() {
		return true
	}
	if !dimensionMatches(caller.Region, resource.Region) {
		return false
	}
	if !dimensionMatches(caller.OrgID, resource.OrgID) {
		return false
	}
	return dimensionMatches(caller.StationID, resource.StationID)
}

// RegionInScope is the single-dimension specialization used by map and
// region widgets.
func RegionInScope(role identities.Role, caller Scope, regionID string) bool {
	if role.PlatformGlobal() {
		return true
	}
	return caller.Region != nil && *caller.Region == regionID
}

// ForIdentity derives the caller scope from an authenticated identity and
// the region of its organization (empty when the identity has none).
// Platform-global roles get an all-wildcard scope; InScope short-circuits
// on the role anyway.
func ForIdentity(identity *identities.Identity, orgRegion string) Scope {
	var s Scope
	if identity == nil || identity.Role.PlatformGlobal() {
		return s
	}
	if identity.OrgID != "" {
		orgID := identity.OrgID
		s.OrgID = &orgID
	}
	if orgRegion != "" {
		region := orgRegion
		s.Region = &region
	}
	return s
}

func dimensionMatches(caller, resource *string) bool {
	if resource == nil {
		return true // wildcard on the resource never constrains
	}
	return caller != nil && *caller == *resource
}

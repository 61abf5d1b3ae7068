package scopes_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voltgrid/auth-server/identities"
	"github.com/voltgrid/auth-server/internal/utils"
	"github.com/voltgrid/auth-server/scopes"
)

func dispatchConfig() scopes.WidgetConfig {
	return scopes.WidgetConfig{
		Visible: true,
		Items: []scopes.WidgetItem{
			{ID: "q-1", Label: "EU queue", OrgID: utils.Ptr("org-1"), Region: utils.Ptr("eu-west")},
			{ID: "q-2", Label: "US queue", OrgID: utils.Ptr("org-2"), Region: utils.Ptr("us-east")},
			{ID: "q-3", Label: "All tenants"},
		},
	}
}

func TestAdaptWidgetConfig_ListDispatchFiltersToCallerScope(t *testing.T) {
	caller := scopes.Scope{OrgID: utils.Ptr("org-1"), Region: utils.Ptr("eu-west")}

	adapted := scopes.AdaptWidgetConfig(scopes.WidgetListDispatch, dispatchConfig(), identities.RoleOrgAdmin, caller)

	require.True(t, adapted.Visible)
	require.Len(t, adapted.Items, 2)
	require.Equal(t, "q-1", adapted.Items[0].ID)
	require.Equal(t, "q-3", adapted.Items[1].ID)
}

func TestAdaptWidgetConfig_ListDispatchHidesWhenNothingRemains(t *testing.T) {
	caller := scopes.Scope{OrgID: utils.Ptr("org-9")}
	cfg := scopes.WidgetConfig{
		Visible: true,
		Items: []scopes.WidgetItem{
			{ID: "q-1", OrgID: utils.Ptr("org-1")},
			{ID: "q-2", OrgID: utils.Ptr("org-2")},
		},
	}

	adapted := scopes.AdaptWidgetConfig(scopes.WidgetListDispatch, cfg, identities.RoleViewer, caller)

	require.False(t, adapted.Visible)
	require.Empty(t, adapted.Items)
}

func TestAdaptWidgetConfig_ListDispatchPlatformGlobalKeepsEverything(t *testing.T) {
	adapted := scopes.AdaptWidgetConfig(scopes.WidgetListDispatch, dispatchConfig(), identities.RoleSuperAdmin, scopes.Scope{})

	require.True(t, adapted.Visible)
	require.Len(t, adapted.Items, 3)
}

func TestAdaptWidgetConfig_StationMapFiltersByRegionOnly(t *testing.T) {
	caller := scopes.Scope{Region: utils.Ptr("eu-west"), OrgID: utils.Ptr("org-1")}
	cfg := scopes.WidgetConfig{
		Visible: true,
		Items: []scopes.WidgetItem{
			{ID: "m-1", Region: utils.Ptr("eu-west"), OrgID: utils.Ptr("org-2")},
			{ID: "m-2", Region: utils.Ptr("us-east")},
			{ID: "m-3"},
		},
	}

	adapted := scopes.AdaptWidgetConfig(scopes.WidgetStationMap, cfg, identities.RoleViewer, caller)

	// The map widget checks region alone, so the foreign-org EU item stays.
	require.Len(t, adapted.Items, 2)
	require.Equal(t, "m-1", adapted.Items[0].ID)
	require.Equal(t, "m-3", adapted.Items[1].ID)
}

func TestAdaptWidgetConfig_UnknownWidgetPassesThrough(t *testing.T) {
	cfg := dispatchConfig()

	adapted := scopes.AdaptWidgetConfig("sparkline", cfg, identities.RoleViewer, scopes.Scope{})

	require.Equal(t, cfg, adapted)
}

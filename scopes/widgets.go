package scopes

import "github.com/voltgrid/auth-server/identities"

// Dashboard widgets whose configuration carries a scoped item collection.
const (
	WidgetListDispatch = "list-dispatch"
	WidgetStationMap   = "station-map"
)

// WidgetItem is one entry of a widget's item collection with its resource
// scope attached. Label and ID ride along untouched for the presentation
// layer.
type WidgetItem struct {
	ID        string  `json:"id,omitempty"`
	Label     string  `json:"label,omitempty"`
	Region    *string `json:"region,omitempty"`
	OrgID     *string `json:"orgId,omitempty"`
	StationID *string `json:"stationId,omitempty"`
}

func (i WidgetItem) scope() Scope {
	return Scope{Region: i.Region, OrgID: i.OrgID, StationID: i.StationID}
}

// WidgetConfig is the part of a widget's configuration this core shapes.
type WidgetConfig struct {
	Items   []WidgetItem `json:"items"`
	Visible bool         `json:"visible"`
}

// AdaptWidgetConfig narrows a widget's item collection to the caller's
// scope and reports whether anything remains visible. Widgets it does not
// recognize pass through unfiltered.
func AdaptWidgetConfig(widgetID string, cfg WidgetConfig, role identities.Role, caller Scope) WidgetConfig {
	switch widgetID {
	case WidgetListDispatch:
		return filterItems(cfg, func(item WidgetItem) bool {
			return InScope(role, caller, item.scope())
		})
	case WidgetStationMap:
		return filterItems(cfg, func(item WidgetItem) bool {
			if item.Region == nil {
				return true
			}
			return RegionInScope(role, caller, *item.Region)
		})
	default:
		return cfg
	}
}

func filterItems(cfg WidgetConfig, keep func(WidgetItem) bool) WidgetConfig {
	filtered := make([]WidgetItem, 0, len(cfg.Items))
	for _, item := range cfg.Items {
		if keep(item) {
			filtered = append(filtered, item)
		}
	}
	cfg.Items = filtered
	cfg.Visible = len(filtered) > 0
	return cfg
}

package server

import (
	"net/http"

	"github.com/voltgrid/auth-server/scopes"
)

type widgetRequest struct {
	WidgetID string              `json:"widget_id"`
	Config   scopes.WidgetConfig `json:"config"`
}

// DispatchWidgetHandler narrows a dispatch-board widget configuration to
// the caller's scope. Authorization already happened in the guard chain;
// this is data shaping on top of it.
func (s *Server) DispatchWidgetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := principalFrom(r)

		var req widgetRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		adapted := s.guard.NarrowWidget(principal, req.WidgetID, req.Config)
		writeJSON(w, http.StatusOK, adapted)
	}
}

// FeaturePermissionsHandler resolves the caller's full action map for one
// feature, for UI gating. Denied actions come back false; the UI hides the
// controls without learning why.
func (s *Server) FeaturePermissionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal := principalFrom(r)
		feature := r.PathValue("feature")
		writeJSON(w, http.StatusOK, s.guard.Permissions(principal, feature))
	}
}

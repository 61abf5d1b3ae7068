package server

import (
	"github.com/voltgrid/auth-server/guard"
	"github.com/voltgrid/auth-server/internal/obs"
	"github.com/voltgrid/auth-server/permissions"
)

func (s *Server) initRoutes() {
	// Auth entry points: these mint and rotate tokens and are the only
	// routes the guard chain does not gate.
	s.RegisterRouteHandler("POST /auth/register", ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST /auth/login", ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST /auth/refresh", ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST /auth/logout", ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// Guarded routes declare their permission requirement as a plain value.
	s.RegisterRouteHandler("POST /api/dispatch/widget",
		ChainMiddleware(s.DispatchWidgetHandler(), s.GuardedAPIMiddleware(guard.Requires("dispatch", permissions.ActionAccess))...))
	s.RegisterRouteHandler("GET /api/permissions/{feature}",
		ChainMiddleware(s.FeaturePermissionsHandler(), s.GuardedAPIMiddleware(guard.Requires("map", permissions.ActionAccess))...))

	s.RegisterRouteHandler("GET /metrics", obs.Handler())
}

package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/voltgrid/auth-server/auth"
	"github.com/voltgrid/auth-server/guard"
	"github.com/voltgrid/auth-server/internal/config"
)

// Server is the JSON boundary over the auth core. It owns no state beyond
// wiring: every request is handled statelessly against the stores.
type Server struct {
	env    string
	mux    *http.ServeMux
	routes []string
	config config.Config
	auth   *auth.Service
	guard  *guard.Guard
	log    zerolog.Logger
}

func New(cfg config.Config, authService *auth.Service, g *guard.Guard, log zerolog.Logger) *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		config: cfg,
		auth:   authService,
		guard:  g,
		log:    log,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		s.log.Debug().Str("route", route).Msg("registered")
	}
}

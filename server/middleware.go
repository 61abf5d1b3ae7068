package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/voltgrid/auth-server/guard"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyPrincipal stores the authenticated caller.
const ContextKeyPrincipal ContextKey = "principal"

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

// APIMiddleware is the standard chain for JSON routes.
func (s *Server) APIMiddleware() []func(http.HandlerFunc) http.HandlerFunc {
	return []func(http.HandlerFunc) http.HandlerFunc{
		s.RecoverMiddleware,
		s.LoggingMiddleware,
	}
}

// GuardedAPIMiddleware authenticates the bearer token and authorizes the
// route's declared requirement before the handler runs. Ordering matters:
// authentication must fully succeed before authorization, and authorization
// before any handler logic.
func (s *Server) GuardedAPIMiddleware(req guard.Requirement) []func(http.HandlerFunc) http.HandlerFunc {
	return append(s.APIMiddleware(), s.RequireAuth(req))
}

// RequireAuth runs the guard chain for one route requirement and injects
// the principal into the request context.
func (s *Server) RequireAuth(req guard.Requirement) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			rawToken, ok := bearerToken(r)
			if !ok {
				writeError(w, errUnauthenticated)
				return
			}

			principal, err := s.guard.Authenticate(r.Context(), rawToken)
			if err != nil {
				writeError(w, err)
				return
			}

			if err := s.guard.Authorize(principal, req); err != nil {
				writeError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyPrincipal, principal)
			next(w, r.WithContext(ctx))
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func principalFrom(r *http.Request) *guard.Principal {
	principal, _ := r.Context().Value(ContextKeyPrincipal).(*guard.Principal)
	return principal
}

// LoggingMiddleware logs each request with method, path, and duration.
func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// RecoverMiddleware converts handler panics into 500s.
func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panic")
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

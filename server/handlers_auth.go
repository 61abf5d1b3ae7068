package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/voltgrid/auth-server/auth"
	"github.com/voltgrid/auth-server/identities"
	apperrors "github.com/voltgrid/auth-server/internal/errors"
	"github.com/voltgrid/auth-server/internal/obs"
)

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	TenantName string `json:"tenant_name,omitempty"`
	OrgName    string `json:"org_name,omitempty"`
	Role       string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		pair, err := s.auth.Register(r.Context(), auth.RegisterRequest{
			Email:      req.Email,
			Password:   req.Password,
			Name:       req.Name,
			TenantName: req.TenantName,
			OrgName:    req.OrgName,
			Role:       identities.Role(req.Role),
		})
		if err != nil {
			writeError(w, err)
			return
		}

		obs.ObserveRegistration()
		writeJSON(w, http.StatusCreated, pair)
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		pair, err := s.auth.Login(r.Context(), req.Email, req.Password)
		obs.ObserveLogin(err == nil)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, pair)
	}
}

func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		pair, err := s.auth.Refresh(r.Context(), req.RefreshToken)
		obs.ObserveRotation(err == nil)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, pair)
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		if err := s.auth.Logout(r.Context(), req.RefreshToken); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(apperrors.ErrValidation, "malformed JSON body")
	}
	return nil
}

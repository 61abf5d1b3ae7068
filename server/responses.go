package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	apperrors "github.com/voltgrid/auth-server/internal/errors"
)

// errUnauthenticated is what missing/malformed credentials map to before
// the guard ever runs.
var errUnauthenticated = errors.Wrap(apperrors.ErrAuthentication, "missing bearer token")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps core error classes to transport codes. Bodies stay
// generic on purpose: an authentication failure never says which check
// failed, and a denial never describes the feature.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
	case errors.Is(err, apperrors.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "already exists"})
	case errors.Is(err, apperrors.ErrAuthentication):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication failed"})
	case errors.Is(err, apperrors.ErrAuthorization):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

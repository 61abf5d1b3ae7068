package auth

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/voltgrid/auth-server/identities"
	apperrors "github.com/voltgrid/auth-server/internal/errors"
)

// validateRegistration rejects malformed registration input before any
// core logic runs.
func validateRegistration(req RegisterRequest) error {
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if err := identities.ValidatePasswordStrength(req.Password); err != nil {
		return errors.Wrap(apperrors.ErrValidation, err.Error())
	}
	if strings.TrimSpace(req.Name) == "" {
		return errors.Wrap(apperrors.ErrValidation, "name is required")
	}
	if req.Role != "" && !req.Role.Valid() {
		return errors.Wrap(apperrors.ErrValidation, "unknown role")
	}
	return nil
}

// validateCredentials rejects obviously malformed login input. Deliberately
// shallow: anything plausible proceeds to the generic credential check.
func validateCredentials(email, password string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return errors.Wrap(apperrors.ErrValidation, "password is required")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.Wrap(apperrors.ErrValidation, "email is required")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return errors.Wrap(apperrors.ErrValidation, "invalid email format")
	}
	return nil
}

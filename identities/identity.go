package identities

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Identity is an account on the charging platform. Identities are never
// hard-deleted; admin actions flip Disabled instead so refresh tokens and
// access tokens referencing the subject can be rejected on re-resolution.
type Identity struct {
	ID           string    `json:"id,omitempty"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"` // never serialize
	Name         string    `json:"name,omitempty"`
	Role         Role      `json:"role,omitempty"`
	TenantID     string    `json:"tenant_id,omitempty"`
	OrgID        string    `json:"org_id,omitempty"` // optional
	Disabled     bool      `json:"disabled,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Active reports whether the identity may authenticate.
func (i *Identity) Active() bool {
	return i != nil && !i.Disabled
}

// NormalizeEmail lower-cases and trims an address so uniqueness checks are
// case-insensitive regardless of how the store compares strings.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

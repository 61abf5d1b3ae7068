package errors

import (
	"errors"
	"fmt"
)

// Error classes raised by the core. The boundary layer maps these to
// transport codes; everything the core returns wraps one of them so
// callers can classify with errors.Is.
var (
	// ErrValidation marks malformed input rejected before core logic runs.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks an attempt to register an identity that already exists.
	ErrConflict = errors.New("already exists")

	// ErrAuthentication covers bad credentials and invalid, expired or
	// revoked refresh tokens. Deliberately undifferentiated so callers
	// cannot enumerate accounts or probe token state.
	ErrAuthentication = errors.New("authentication failed")

	// ErrAuthorization marks an authenticated caller with insufficient role.
	ErrAuthorization = errors.New("not authorized")

	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

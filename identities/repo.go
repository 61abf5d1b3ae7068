package identities

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("identity not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Repo is the identity store collaborator. Emails passed in must already be
// normalized (see NormalizeEmail); the store compares them exactly.
type Repo interface {
	Create(ctx context.Context, identity *Identity) error
	GetByEmail(ctx context.Context, email string) (*Identity, error)
	GetByID(ctx context.Context, id string) (*Identity, error)
	SetDisabled(ctx context.Context, id string, disabled bool) error
	SetRole(ctx context.Context, id string, role Role) error
	List(ctx context.Context, offset, limit int) ([]*Identity, error)
}

package refresh

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("refresh token not found")

// StoredToken is the server-side record of one refresh token. The client
// holds the opaque secret; only its one-way hash is ever stored, so a store
// dump cannot be replayed as live tokens.
type StoredToken struct {
	ID         string
	IdentityID string
	SecretHash string // sha256 of the opaque secret, hex-encoded
	IssuedAt   time.Time
	ExpiresAt  time.Time
	RevokedAt  *time.Time
}

// Active reports whether the token may still be rotated: not revoked and
// not past expiry. Expiry is detected lazily here; no sweeper flips state.
func (t *StoredToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// Repo manages server-side refresh token state. RevokeIfActive is the one
// conditional write in the system: implementations must revoke atomically
// ("revoke iff still unrevoked") and report whether this call won, so that
// concurrent rotations of the same token produce at most one winner.
type Repo interface {
	Create(ctx context.Context, token *StoredToken) error
	GetBySecretHash(ctx context.Context, hash string) (*StoredToken, error)
	RevokeIfActive(ctx context.Context, id string, at time.Time) (bool, error)
	RevokeBySecretHash(ctx context.Context, hash string, at time.Time) error
	RevokeAllForIdentity(ctx context.Context, identityID string, at time.Time) (int, error)
}

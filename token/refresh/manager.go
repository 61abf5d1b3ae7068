package refresh

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	apperrors "github.com/voltgrid/auth-server/internal/errors"
)

const defaultSecretLength = 32 // 32 bytes = 256 bits of entropy

// Manager handles refresh token issuance, rotation, and revocation.
type Manager struct {
	repo             Repo
	ttl              time.Duration
	secretLength     int
	familyRevocation bool
	nowFunc          func() time.Time
}

type ManagerOption func(*Manager)

// WithNowFunc sets the clock (primarily for testing).
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// WithFamilyRevocation controls whether presenting an already-revoked
// secret revokes every live token of that identity. A replayed rotated
// token means either the legitimate client or a thief holds a stale copy;
// killing the family forces a fresh login for whoever is genuine.
func WithFamilyRevocation(enabled bool) ManagerOption {
	return func(m *Manager) {
		m.familyRevocation = enabled
	}
}

// WithSecretLength sets how many random bytes back each opaque secret.
func WithSecretLength(n int) ManagerOption {
	return func(m *Manager) {
		if n > 0 {
			m.secretLength = n
		}
	}
}

// NewManager creates a refresh token manager. ttl is how long an issued
// token stays exchangeable (default 30 days).
func NewManager(repo Repo, ttl time.Duration, options ...ManagerOption) *Manager {
	m := &Manager{
		repo:             repo,
		ttl:              ttl,
		secretLength:     defaultSecretLength,
		familyRevocation: true,
		nowFunc:          time.Now,
	}
	if m.ttl <= 0 {
		m.ttl = 30 * 24 * time.Hour
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Issue generates a new opaque secret for the identity and stores its hash.
// The plaintext secret is returned exactly once; it is never retrievable
// again.
func (m *Manager) Issue(ctx context.Context, identityID string) (string, error) {
	secretBytes := make([]byte, m.secretLength)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", errors.Wrap(err, "[Manager.Issue] rand.Read")
	}
	secret := hex.EncodeToString(secretBytes)

	now := m.nowFunc()
	if err := m.repo.Create(ctx, &StoredToken{
		ID:         uuid.New().String(),
		IdentityID: identityID,
		SecretHash: HashSecret(secret),
		IssuedAt:   now,
		ExpiresAt:  now.Add(m.ttl),
	}); err != nil {
		return "", errors.Wrap(err, "[Manager.Issue] repo.Create")
	}

	return secret, nil
}

// Rotate exchanges a presented secret for the right to issue a new pair,
// atomically invalidating the old token. At most one concurrent caller
// wins; everyone else gets the same undifferentiated authentication
// failure as an unknown or expired token. Returns the owning identity ID.
func (m *Manager) Rotate(ctx context.Context, secret string) (string, error) {
	stored, err := m.repo.GetBySecretHash(ctx, HashSecret(secret))
	if err != nil {
		return "", errors.Wrap(apperrors.ErrAuthentication, "[Manager.Rotate] unknown token")
	}

	now := m.nowFunc()

	if stored.RevokedAt != nil {
		// Replay of a rotated token. Someone holds a stale copy; burn the
		// family so the holder of the live token has to log in again.
		if m.familyRevocation {
			_, _ = m.repo.RevokeAllForIdentity(ctx, stored.IdentityID, now)
		}
		return "", errors.Wrap(apperrors.ErrAuthentication, "[Manager.Rotate] token revoked")
	}

	if !now.Before(stored.ExpiresAt) {
		return "", errors.Wrap(apperrors.ErrAuthentication, "[Manager.Rotate] token expired")
	}

	won, err := m.repo.RevokeIfActive(ctx, stored.ID, now)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.Rotate] RevokeIfActive")
	}
	if !won {
		// Lost the race against a concurrent rotation. Definitive failure,
		// not retryable.
		return "", errors.Wrap(apperrors.ErrAuthentication, "[Manager.Rotate] token already rotated")
	}

	return stored.IdentityID, nil
}

// Revoke invalidates the token for a presented secret. Idempotent: unknown
// and already-revoked secrets succeed the same way, so the caller learns
// nothing about token validity.
func (m *Manager) Revoke(ctx context.Context, secret string) error {
	if err := m.repo.RevokeBySecretHash(ctx, HashSecret(secret), m.nowFunc()); err != nil {
		return errors.Wrap(err, "[Manager.Revoke] RevokeBySecretHash")
	}
	return nil
}

// HashSecret computes the at-rest form of an opaque secret.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

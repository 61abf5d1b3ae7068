package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/voltgrid/auth-server/token/refresh"
)

var _ refresh.Repo = (*FakeRefreshTokenRepo)(nil)

type FakeRefreshTokenRepo struct {
	tokens map[string]*refresh.StoredToken // keyed by token ID
	hashes map[string]string               // secret hash -> token ID
	lock   sync.Mutex
}

func NewFakeRefreshTokenRepo() *FakeRefreshTokenRepo {
	return &FakeRefreshTokenRepo{
		tokens: make(map[string]*refresh.StoredToken),
		hashes: make(map[string]string),
	}
}

func (r *FakeRefreshTokenRepo) Create(_ context.Context, token *refresh.StoredToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	cp := *token
	r.tokens[token.ID] = &cp
	r.hashes[token.SecretHash] = token.ID
	return nil
}

func (r *FakeRefreshTokenRepo) GetBySecretHash(_ context.Context, hash string) (*refresh.StoredToken, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	id, ok := r.hashes[hash]
	if !ok {
		return nil, refresh.ErrNotFound
	}
	cp := *r.tokens[id]
	return &cp, nil
}

// RevokeIfActive mirrors the conditional UPDATE of the real store: the
// whole check-and-set happens under one lock, so only one caller wins.
func (r *FakeRefreshTokenRepo) RevokeIfActive(_ context.Context, id string, at time.Time) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	token, ok := r.tokens[id]
	if !ok || token.RevokedAt != nil {
		return false, nil
	}
	revokedAt := at
	token.RevokedAt = &revokedAt
	return true, nil
}

func (r *FakeRefreshTokenRepo) RevokeBySecretHash(_ context.Context, hash string, at time.Time) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	id, ok := r.hashes[hash]
	if !ok {
		return nil // idempotent: unknown secrets succeed silently
	}
	token := r.tokens[id]
	if token.RevokedAt == nil {
		revokedAt := at
		token.RevokedAt = &revokedAt
	}
	return nil
}

func (r *FakeRefreshTokenRepo) RevokeAllForIdentity(_ context.Context, identityID string, at time.Time) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	revoked := 0
	for _, token := range r.tokens {
		if token.IdentityID == identityID && token.RevokedAt == nil {
			revokedAt := at
			token.RevokedAt = &revokedAt
			revoked++
		}
	}
	return revoked, nil
}

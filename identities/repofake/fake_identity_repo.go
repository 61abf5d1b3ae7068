package repofake

import (
	"context"
	"sort"
	"sync"

	"github.com/voltgrid/auth-server/identities"
)

var _ identities.Repo = (*FakeIdentityRepo)(nil)

type FakeIdentityRepo struct {
	byID    map[string]*identities.Identity
	byEmail map[string]string // email -> identity ID
	lock    sync.RWMutex
}

func NewFakeIdentityRepo() *FakeIdentityRepo {
	return &FakeIdentityRepo{
		byID:    make(map[string]*identities.Identity),
		byEmail: make(map[string]string),
	}
}

func (r *FakeIdentityRepo) Create(_ context.Context, identity *identities.Identity) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.byEmail[identity.Email]; ok {
		return identities.ErrDuplicateEmail
	}
	cp := *identity
	r.byID[identity.ID] = &cp
	r.byEmail[identity.Email] = identity.ID
	return nil
}

func (r *FakeIdentityRepo) GetByEmail(_ context.Context, email string) (*identities.Identity, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, identities.ErrNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *FakeIdentityRepo) GetByID(_ context.Context, id string) (*identities.Identity, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	identity, ok := r.byID[id]
	if !ok {
		return nil, identities.ErrNotFound
	}
	cp := *identity
	return &cp, nil
}

func (r *FakeIdentityRepo) SetDisabled(_ context.Context, id string, disabled bool) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	identity, ok := r.byID[id]
	if !ok {
		return identities.ErrNotFound
	}
	identity.Disabled = disabled
	return nil
}

func (r *FakeIdentityRepo) SetRole(_ context.Context, id string, role identities.Role) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	identity, ok := r.byID[id]
	if !ok {
		return identities.ErrNotFound
	}
	identity.Role = role
	return nil
}

func (r *FakeIdentityRepo) List(_ context.Context, offset, limit int) ([]*identities.Identity, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*identities.Identity, 0, len(r.byID))
	for _, identity := range r.byID {
		cp := *identity
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

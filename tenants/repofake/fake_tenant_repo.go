package repofake

import (
	"context"
	"sort"
	"sync"

	"github.com/voltgrid/auth-server/tenants"
)

var _ tenants.Repo = (*FakeTenantRepo)(nil)

type FakeTenantRepo struct {
	tenants map[string]*tenants.Tenant
	orgs    map[string]*tenants.Organization
	lock    sync.RWMutex
}

func NewFakeTenantRepo() *FakeTenantRepo {
	return &FakeTenantRepo{
		tenants: make(map[string]*tenants.Tenant),
		orgs:    make(map[string]*tenants.Organization),
	}
}

func (r *FakeTenantRepo) CreateTenant(_ context.Context, tenant *tenants.Tenant) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	cp := *tenant
	r.tenants[tenant.ID] = &cp
	return nil
}

func (r *FakeTenantRepo) GetTenant(_ context.Context, id string) (*tenants.Tenant, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	tenant, ok := r.tenants[id]
	if !ok {
		return nil, tenants.ErrNotFound
	}
	cp := *tenant
	return &cp, nil
}

func (r *FakeTenantRepo) DeleteTenant(_ context.Context, id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.tenants, id)
	return nil
}

func (r *FakeTenantRepo) CreateOrganization(_ context.Context, org *tenants.Organization) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	cp := *org
	r.orgs[org.ID] = &cp
	return nil
}

func (r *FakeTenantRepo) GetOrganization(_ context.Context, id string) (*tenants.Organization, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	org, ok := r.orgs[id]
	if !ok {
		return nil, tenants.ErrNotFound
	}
	cp := *org
	return &cp, nil
}

func (r *FakeTenantRepo) DeleteOrganization(_ context.Context, id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.orgs, id)
	return nil
}

func (r *FakeTenantRepo) ListOrganizations(_ context.Context, tenantID string) ([]*tenants.Organization, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	orgs := make([]*tenants.Organization, 0)
	for _, org := range r.orgs {
		if org.TenantID == tenantID {
			cp := *org
			orgs = append(orgs, &cp)
		}
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].Name < orgs[j].Name })
	return orgs, nil
}

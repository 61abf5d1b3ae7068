package tenants

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("tenant not found")

type Repo interface {
	CreateTenant(ctx context.Context, tenant *Tenant) error
	GetTenant(ctx context.Context, id string) (*Tenant, error)
	DeleteTenant(ctx context.Context, id string) error
	CreateOrganization(ctx context.Context, org *Organization) error
	GetOrganization(ctx context.Context, id string) (*Organization, error)
	ListOrganizations(ctx context.Context, tenantID string) ([]*Organization, error)
	DeleteOrganization(ctx context.Context, id string) error
}

package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/voltgrid/auth-server/tenants"
)

var _ tenants.Repo = (*TenantStore)(nil)

// TenantStore implements tenants.Repo on Postgres.
type TenantStore struct {
	db *sqlx.DB
}

func NewTenantStore(db *sqlx.DB) *TenantStore {
	return &TenantStore{db: db}
}

type tenantRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type organizationRow struct {
	ID        string         `db:"id"`
	TenantID  string         `db:"tenant_id"`
	Name      string         `db:"name"`
	Region    sql.NullString `db:"region"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r organizationRow) toOrganization() *tenants.Organization {
	return &tenants.Organization{
		ID:        r.ID,
		TenantID:  r.TenantID,
		Name:      r.Name,
		Region:    r.Region.String,
		CreatedAt: r.CreatedAt,
	}
}

func (s *TenantStore) CreateTenant(ctx context.Context, tenant *tenants.Tenant) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tenants (id, name, created_at) VALUES ($1, $2, $3)`,
		tenant.ID, tenant.Name, tenant.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "[TenantStore.CreateTenant] insert")
	}
	return nil
}

func (s *TenantStore) GetTenant(ctx context.Context, id string) (*tenants.Tenant, error) {
	var row tenantRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, name, created_at FROM tenants WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tenants.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[TenantStore.GetTenant] select")
	}
	return &tenants.Tenant{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt}, nil
}

func (s *TenantStore) DeleteTenant(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[TenantStore.DeleteTenant] delete")
	}
	return nil
}

func (s *TenantStore) CreateOrganization(ctx context.Context, org *tenants.Organization) error {
	region := sql.NullString{String: org.Region, Valid: org.Region != ""}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO organizations (id, tenant_id, name, region, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		org.ID, org.TenantID, org.Name, region, org.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "[TenantStore.CreateOrganization] insert")
	}
	return nil
}

func (s *TenantStore) GetOrganization(ctx context.Context, id string) (*tenants.Organization, error) {
	var row organizationRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, tenant_id, name, region, created_at FROM organizations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tenants.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[TenantStore.GetOrganization] select")
	}
	return row.toOrganization(), nil
}

func (s *TenantStore) DeleteOrganization(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[TenantStore.DeleteOrganization] delete")
	}
	return nil
}

func (s *TenantStore) ListOrganizations(ctx context.Context, tenantID string) ([]*tenants.Organization, error) {
	var rows []organizationRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, tenant_id, name, region, created_at FROM organizations
		 WHERE tenant_id = $1 ORDER BY name`, tenantID)
	if err != nil {
		return nil, errors.Wrap(err, "[TenantStore.ListOrganizations] select")
	}

	result := make([]*tenants.Organization, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toOrganization())
	}
	return result, nil
}

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/voltgrid/auth-server/store/postgres"
	"github.com/voltgrid/auth-server/tenants"
)

func TestTenantStore_CreateAndDeleteTenant(t *testing.T) {
	db, mock := newMockDB(t)
	store := postgres.NewTenantStore(db)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO tenants`).
		WithArgs("tenant-1", "Acme Charging", created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM tenants WHERE id`).
		WithArgs("tenant-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.CreateTenant(context.Background(), &tenants.Tenant{
		ID:        "tenant-1",
		Name:      "Acme Charging",
		CreatedAt: created,
	}))
	require.NoError(t, store.DeleteTenant(context.Background(), "tenant-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantStore_GetOrganization(t *testing.T) {
	db, mock := newMockDB(t)
	store := postgres.NewTenantStore(db)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "tenant_id", "name", "region", "created_at"}).
		AddRow("org-1", "tenant-1", "Acme EU", "eu-west", created)
	mock.ExpectQuery(`SELECT id, tenant_id, name, region, created_at FROM organizations`).
		WithArgs("org-1").
		WillReturnRows(rows)

	org, err := store.GetOrganization(context.Background(), "org-1")
	require.NoError(t, err)
	require.Equal(t, "eu-west", org.Region)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantStore_GetTenant_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := postgres.NewTenantStore(db)

	mock.ExpectQuery(`SELECT id, name, created_at FROM tenants`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}))

	_, err := store.GetTenant(context.Background(), "missing")
	require.ErrorIs(t, err, tenants.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantStore_DeleteOrganization(t *testing.T) {
	db, mock := newMockDB(t)
	store := postgres.NewTenantStore(db)

	mock.ExpectExec(`DELETE FROM organizations WHERE id`).
		WithArgs("org-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.DeleteOrganization(context.Background(), "org-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

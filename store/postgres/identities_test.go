package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/voltgrid/auth-server/identities"
	"github.com/voltgrid/auth-server/store/postgres"
)

func storedIdentity() *identities.Identity {
	return &identities.Identity{
		ID:           "identity-1",
		Email:        "owner@example.com",
		PasswordHash: "$2a$10$hash",
		Name:         "Site Owner",
		Role:         identities.RoleTenantOwner,
		TenantID:     "tenant-1",
		OrgID:        "org-1",
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestIdentityStore_Create(t *testing.T) {
	db, mock := newMockDB(t)
	store := postgres.NewIdentityStore(db)
	identity := storedIdentity()

	mock.ExpectExec(`INSERT INTO identities`).
		WithArgs(identity.ID, identity.Email, identity.PasswordHash, identity.Name,
			"tenant_owner", identity.TenantID, sql.NullString{String: "org-1", Valid: true},
			false, identity.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Create(context.Background(), identity))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityStore_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	store := postgres.NewIdentityStore(db)

	mock.ExpectExec(`INSERT INTO identities`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := store.Create(context.Background(), storedIdentity())
	require.ErrorIs(t, err, identities.ErrDuplicateEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityStore_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	store := postgres.NewIdentityStore(db)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "role", "tenant_id", "org_id", "disabled", "created_at"}).
		AddRow("identity-1", "owner@example.com", "$2a$10$hash", "Site Owner", "tenant_owner", "tenant-1", nil, false, created)
	mock.ExpectQuery(`SELECT id, email, password_hash, name, role, tenant_id, org_id, disabled, created_at`).
		WithArgs("owner@example.com").
		WillReturnRows(rows)

	identity, err := store.GetByEmail(context.Background(), "owner@example.com")
	require.NoError(t, err)
	require.Equal(t, identities.RoleTenantOwner, identity.Role)
	require.Empty(t, identity.OrgID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityStore_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	store := postgres.NewIdentityStore(db)

	mock.ExpectQuery(`SELECT id, email, password_hash, name, role, tenant_id, org_id, disabled, created_at`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "role", "tenant_id", "org_id", "disabled", "created_at"}))

	_, err := store.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, identities.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityStore_SetDisabled(t *testing.T) {
	db, mock := newMockDB(t)
	store := postgres.NewIdentityStore(db)

	mock.ExpectExec(`UPDATE identities SET disabled`).
		WithArgs("identity-1", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.SetDisabled(context.Background(), "identity-1", true))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityStore_SetRole_UnknownIdentity(t *testing.T) {
	db, mock := newMockDB(t)
	store := postgres.NewIdentityStore(db)

	mock.ExpectExec(`UPDATE identities SET role`).
		WithArgs("missing", "viewer").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.SetRole(context.Background(), "missing", identities.RoleViewer)
	require.ErrorIs(t, err, identities.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

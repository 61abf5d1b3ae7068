package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/voltgrid/auth-server/identities"
)

const uniqueViolation = "23505"

var _ identities.Repo = (*IdentityStore)(nil)

// IdentityStore implements identities.Repo on Postgres. Emails arrive
// already normalized, so the unique index on email gives case-insensitive
// uniqueness.
type IdentityStore struct {
	db *sqlx.DB
}

func NewIdentityStore(db *sqlx.DB) *IdentityStore {
	return &IdentityStore{db: db}
}

type identityRow struct {
	ID           string         `db:"id"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Name         string         `db:"name"`
	Role         string         `db:"role"`
	TenantID     string         `db:"tenant_id"`
	OrgID        sql.NullString `db:"org_id"`
	Disabled     bool           `db:"disabled"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r identityRow) toIdentity() *identities.Identity {
	return &identities.Identity{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Name:         r.Name,
		Role:         identities.Role(r.Role),
		TenantID:     r.TenantID,
		OrgID:        r.OrgID.String,
		Disabled:     r.Disabled,
		CreatedAt:    r.CreatedAt,
	}
}

func (s *IdentityStore) Create(ctx context.Context, identity *identities.Identity) error {
	orgID := sql.NullString{String: identity.OrgID, Valid: identity.OrgID != ""}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO identities (id, email, password_hash, name, role, tenant_id, org_id, disabled, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		identity.ID, identity.Email, identity.PasswordHash, identity.Name,
		string(identity.Role), identity.TenantID, orgID, identity.Disabled, identity.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return identities.ErrDuplicateEmail
		}
		return errors.Wrap(err, "[IdentityStore.Create] insert")
	}
	return nil
}

func (s *IdentityStore) GetByEmail(ctx context.Context, email string) (*identities.Identity, error) {
	var row identityRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, email, password_hash, name, role, tenant_id, org_id, disabled, created_at
		 FROM identities WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, identities.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[IdentityStore.GetByEmail] select")
	}
	return row.toIdentity(), nil
}

func (s *IdentityStore) GetByID(ctx context.Context, id string) (*identities.Identity, error) {
	var row identityRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, email, password_hash, name, role, tenant_id, org_id, disabled, created_at
		 FROM identities WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, identities.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[IdentityStore.GetByID] select")
	}
	return row.toIdentity(), nil
}

func (s *IdentityStore) SetDisabled(ctx context.Context, id string, disabled bool) error {
	return s.setField(ctx, `UPDATE identities SET disabled = $2 WHERE id = $1`, id, disabled)
}

func (s *IdentityStore) SetRole(ctx context.Context, id string, role identities.Role) error {
	return s.setField(ctx, `UPDATE identities SET role = $2 WHERE id = $1`, id, string(role))
}

func (s *IdentityStore) setField(ctx context.Context, query, id string, value any) error {
	result, err := s.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return errors.Wrap(err, "[IdentityStore.setField] update")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "[IdentityStore.setField] rows affected")
	}
	if affected == 0 {
		return identities.ErrNotFound
	}
	return nil
}

func (s *IdentityStore) List(ctx context.Context, offset, limit int) ([]*identities.Identity, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []identityRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, email, password_hash, name, role, tenant_id, org_id, disabled, created_at
		 FROM identities ORDER BY email OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, errors.Wrap(err, "[IdentityStore.List] select")
	}

	result := make([]*identities.Identity, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toIdentity())
	}
	return result, nil
}

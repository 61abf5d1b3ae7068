package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/voltgrid/auth-server/token/refresh"
)

var _ refresh.Repo = (*RefreshTokenStore)(nil)

// RefreshTokenStore implements refresh.Repo on Postgres. The conditional
// UPDATE in RevokeIfActive is what makes rotation single-use under
// concurrency: the row predicate "revoked_at IS NULL" and the row lock
// guarantee at most one winner.
type RefreshTokenStore struct {
	db *sqlx.DB
}

func NewRefreshTokenStore(db *sqlx.DB) *RefreshTokenStore {
	return &RefreshTokenStore{db: db}
}

type refreshTokenRow struct {
	ID         string       `db:"id"`
	IdentityID string       `db:"identity_id"`
	SecretHash string       `db:"secret_hash"`
	IssuedAt   time.Time    `db:"issued_at"`
	ExpiresAt  time.Time    `db:"expires_at"`
	RevokedAt  sql.NullTime `db:"revoked_at"`
}

func (r refreshTokenRow) toToken() *refresh.StoredToken {
	token := &refresh.StoredToken{
		ID:         r.ID,
		IdentityID: r.IdentityID,
		SecretHash: r.SecretHash,
		IssuedAt:   r.IssuedAt,
		ExpiresAt:  r.ExpiresAt,
	}
	if r.RevokedAt.Valid {
		revokedAt := r.RevokedAt.Time
		token.RevokedAt = &revokedAt
	}
	return token
}

func (s *RefreshTokenStore) Create(ctx context.Context, token *refresh.StoredToken) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, identity_id, secret_hash, issued_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		token.ID, token.IdentityID, token.SecretHash, token.IssuedAt, token.ExpiresAt,
	)
	if err != nil {
		return errors.Wrap(err, "[RefreshTokenStore.Create] insert")
	}
	return nil
}

func (s *RefreshTokenStore) GetBySecretHash(ctx context.Context, hash string) (*refresh.StoredToken, error) {
	var row refreshTokenRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, identity_id, secret_hash, issued_at, expires_at, revoked_at
		 FROM refresh_tokens WHERE secret_hash = $1`, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, refresh.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[RefreshTokenStore.GetBySecretHash] select")
	}
	return row.toToken(), nil
}

// RevokeIfActive marks the row revoked iff it is still unrevoked. A zero
// rows-affected result means another caller already rotated the token.
func (s *RefreshTokenStore) RevokeIfActive(ctx context.Context, id string, at time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`,
		id, at,
	)
	if err != nil {
		return false, errors.Wrap(err, "[RefreshTokenStore.RevokeIfActive] update")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "[RefreshTokenStore.RevokeIfActive] rows affected")
	}
	return affected == 1, nil
}

func (s *RefreshTokenStore) RevokeBySecretHash(ctx context.Context, hash string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = $2 WHERE secret_hash = $1 AND revoked_at IS NULL`,
		hash, at,
	)
	if err != nil {
		return errors.Wrap(err, "[RefreshTokenStore.RevokeBySecretHash] update")
	}
	return nil
}

func (s *RefreshTokenStore) RevokeAllForIdentity(ctx context.Context, identityID string, at time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = $2 WHERE identity_id = $1 AND revoked_at IS NULL`,
		identityID, at,
	)
	if err != nil {
		return 0, errors.Wrap(err, "[RefreshTokenStore.RevokeAllForIdentity] update")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "[RefreshTokenStore.RevokeAllForIdentity] rows affected")
	}
	return int(affected), nil
}

// DeleteExpiredBefore removes long-expired rows. Housekeeping for an
// operator cron; nothing in the core calls it.
func (s *RefreshTokenStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "[RefreshTokenStore.DeleteExpiredBefore] delete")
	}
	return result.RowsAffected()
}

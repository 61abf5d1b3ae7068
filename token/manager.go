package token

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	apperrors "github.com/voltgrid/auth-server/internal/errors"
	"github.com/voltgrid/auth-server/identities"
	"github.com/voltgrid/auth-server/token/refresh"
)

// Claims is the verified payload of an access token.
type Claims struct {
	Subject   string
	Role      identities.Role
	TenantID  string
	OrgID     string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Pair is what every auth entry point hands back: a short-lived signed
// access token plus a long-lived opaque refresh secret.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Manager mints and verifies access tokens and drives the refresh token
// lifecycle. Signing and verification are delegated to the Signer.
type Manager struct {
	signer       Signer
	refresh      *refresh.Manager
	issuer       string
	accessExpiry time.Duration
	nowFunc      func() time.Time
}

type ManagerOption func(*Manager)

func WithAccessTokenExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessExpiry = expiry
	}
}

func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func New(signer Signer, refreshManager *refresh.Manager, options ...ManagerOption) *Manager {
	m := &Manager{
		signer:  signer,
		refresh: refreshManager,
		issuer:  "voltgrid-auth",
		nowFunc: time.Now,
	}

	for _, opt := range options {
		opt(m)
	}

	if m.accessExpiry == 0 {
		m.accessExpiry = 15 * time.Minute
	}
	return m
}

// IssuePair mints an access token and a fresh refresh token for a verified
// identity. One new refresh token row per call.
func (m *Manager) IssuePair(ctx context.Context, identity *identities.Identity) (*Pair, error) {
	accessToken, err := m.IssueAccessToken(identity)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.IssuePair] IssueAccessToken")
	}

	refreshSecret, err := m.refresh.Issue(ctx, identity.ID)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.IssuePair] refresh.Issue")
	}

	return &Pair{
		AccessToken:  accessToken,
		RefreshToken: refreshSecret,
	}, nil
}

// IssueAccessToken signs the access-token payload for the identity.
func (m *Manager) IssueAccessToken(identity *identities.Identity) (string, error) {
	now := m.nowFunc()
	claims := jwt.MapClaims{
		"iss":    m.issuer,
		"sub":    identity.ID,
		"role":   string(identity.Role),
		"tenant": identity.TenantID,
		"iat":    now.Unix(),
		"exp":    now.Add(m.accessExpiry).Unix(),
		"jti":    uuid.New().String(),
	}
	if identity.OrgID != "" {
		claims["org"] = identity.OrgID
	}

	signedToken, err := m.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.IssueAccessToken] signer.Sign")
	}
	return signedToken, nil
}

// Verify checks the access token's signature and expiry and returns its
// claims. It never consults the identity store; the guard re-resolves the
// subject separately.
func (m *Manager) Verify(rawToken string) (*Claims, error) {
	parsed, err := jwt.Parse(rawToken, m.signer.GetVerificationKey,
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.nowFunc),
	)
	if err != nil || !parsed.Valid {
		return nil, errors.Wrap(apperrors.ErrAuthentication, "[Manager.Verify] invalid token")
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.Wrap(apperrors.ErrAuthentication, "[Manager.Verify] malformed claims")
	}

	sub, _ := mapClaims["sub"].(string)
	roleStr, _ := mapClaims["role"].(string)
	tenantID, _ := mapClaims["tenant"].(string)
	orgID, _ := mapClaims["org"].(string)
	jti, _ := mapClaims["jti"].(string)
	iat, _ := mapClaims["iat"].(float64)
	exp, _ := mapClaims["exp"].(float64)

	role, err := identities.ParseRole(roleStr)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrAuthentication, "[Manager.Verify] unknown role claim")
	}

	return &Claims{
		Subject:   sub,
		Role:      role,
		TenantID:  tenantID,
		OrgID:     orgID,
		TokenID:   jti,
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

// Rotate exchanges a refresh secret for the owning identity ID, atomically
// invalidating the presented token. See refresh.Manager.Rotate.
func (m *Manager) Rotate(ctx context.Context, secret string) (string, error) {
	return m.refresh.Rotate(ctx, secret)
}

// RevokeRefresh invalidates a refresh secret. Idempotent.
func (m *Manager) RevokeRefresh(ctx context.Context, secret string) error {
	return m.refresh.Revoke(ctx, secret)
}

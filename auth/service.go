package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/voltgrid/auth-server/events"
	"github.com/voltgrid/auth-server/identities"
	apperrors "github.com/voltgrid/auth-server/internal/errors"
	"github.com/voltgrid/auth-server/tenants"
	"github.com/voltgrid/auth-server/token"
)

// Repos holds all repository dependencies for the Service
type Repos struct {
	Identities identities.Repo
	Tenants    tenants.Repo
}

// Hasher is the credential hashing collaborator. identities.Hasher is the
// production implementation.
type Hasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash, password string) bool
}

// Service implements the auth entry points: register, login, refresh,
// logout. It is stateless between requests; all durable state lives in the
// identity and token stores.
type Service struct {
	repos     Repos
	tokens    *token.Manager
	hasher    Hasher
	dummyHash string
	emitter   events.Emitter
	nowTime   func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithEmitter sets the fire-and-forget event emitter.
func WithEmitter(emitter events.Emitter) ServiceOption {
	return func(s *Service) {
		s.emitter = emitter
	}
}

// NewService initializes the auth service with required dependencies.
func NewService(repos Repos, tokens *token.Manager, hasher Hasher, options ...ServiceOption) (*Service, error) {
	if repos.Identities == nil {
		return nil, errors.New("[NewService] Identities repo is required")
	}
	if repos.Tenants == nil {
		return nil, errors.New("[NewService] Tenants repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token manager is required")
	}
	if hasher == nil {
		return nil, errors.New("[NewService] hasher is required")
	}

	// Hash of a throwaway value at the configured cost, burned on the
	// unknown-email branch of Login so its latency matches a real compare.
	dummyHash, err := hasher.Hash(context.Background(), uuid.New().String())
	if err != nil {
		return nil, errors.Wrap(err, "[NewService] dummy hash")
	}

	s := &Service{
		repos:     repos,
		tokens:    tokens,
		hasher:    hasher,
		dummyHash: dummyHash,
		emitter:   events.Nop(),
		nowTime:   time.Now,
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

// RegisterRequest carries registration input. TenantName, OrgName and Role
// are optional; omitted values are provisioned or defaulted.
type RegisterRequest struct {
	Email      string
	Password   string
	Name       string
	TenantName string
	OrgName    string
	Role       identities.Role
}

// Register provisions a new identity, its tenant (and organization when
// named), and returns a fresh token pair. A duplicate email fails with
// ErrConflict.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*token.Pair, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	email := identities.NormalizeEmail(req.Email)

	if _, err := s.repos.Identities.GetByEmail(ctx, email); err == nil {
		return nil, errors.Wrap(apperrors.ErrConflict, "[Service.Register] email already registered")
	}

	role := req.Role
	if role == "" {
		role = identities.RoleTenantOwner
	}

	// Hash before provisioning so a hashing failure leaves no rows behind.
	passwordHash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] Hash")
	}

	tenant := &tenants.Tenant{
		ID:        uuid.New().String(),
		Name:      req.TenantName,
		CreatedAt: s.nowTime(),
	}
	if tenant.Name == "" {
		tenant.Name = req.Name
	}
	if err := s.repos.Tenants.CreateTenant(ctx, tenant); err != nil {
		return nil, errors.Wrap(err, "[Service.Register] CreateTenant")
	}

	var orgID string
	if req.OrgName != "" {
		org := &tenants.Organization{
			ID:        uuid.New().String(),
			TenantID:  tenant.ID,
			Name:      req.OrgName,
			CreatedAt: s.nowTime(),
		}
		if err := s.repos.Tenants.CreateOrganization(ctx, org); err != nil {
			s.rollbackProvisioning(ctx, tenant.ID, "")
			return nil, errors.Wrap(err, "[Service.Register] CreateOrganization")
		}
		orgID = org.ID
	}

	identity := &identities.Identity{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Role:         role,
		TenantID:     tenant.ID,
		OrgID:        orgID,
		CreatedAt:    s.nowTime(),
	}

	if err := s.repos.Identities.Create(ctx, identity); err != nil {
		s.rollbackProvisioning(ctx, tenant.ID, orgID)
		if errors.Is(err, identities.ErrDuplicateEmail) {
			// Lost a race with a concurrent registration for the same email.
			return nil, errors.Wrap(apperrors.ErrConflict, "[Service.Register] email already registered")
		}
		return nil, errors.Wrap(err, "[Service.Register] Create")
	}

	pair, err := s.tokens.IssuePair(ctx, identity)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] IssuePair")
	}

	s.emitter.Emit("auth/registered", events.IdentityEvent{
		IdentityID: identity.ID,
		TenantID:   identity.TenantID,
		Role:       string(identity.Role),
	})

	return pair, nil
}

// rollbackProvisioning removes tenant and organization rows provisioned by
// a registration that failed after creating them. Best effort: the rows are
// unreachable either way, deletion just keeps the store tidy.
func (s *Service) rollbackProvisioning(ctx context.Context, tenantID, orgID string) {
	if orgID != "" {
		_ = s.repos.Tenants.DeleteOrganization(ctx, orgID)
	}
	_ = s.repos.Tenants.DeleteTenant(ctx, tenantID)
}

// Login verifies credentials and returns a fresh token pair. All failure
// paths return the same undifferentiated authentication error so callers
// cannot tell an unknown email from a wrong password or a disabled account.
func (s *Service) Login(ctx context.Context, email, password string) (*token.Pair, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	identity, err := s.repos.Identities.GetByEmail(ctx, identities.NormalizeEmail(email))
	if err != nil {
		// Burn a compare so an unknown email costs the same as a wrong
		// password; the error alone is not the only observable.
		s.hasher.Compare(ctx, s.dummyHash, password)
		return nil, errors.Wrap(apperrors.ErrAuthentication, "[Service.Login] unknown email")
	}

	if !s.hasher.Compare(ctx, identity.PasswordHash, password) {
		return nil, errors.Wrap(apperrors.ErrAuthentication, "[Service.Login] password mismatch")
	}

	if !identity.Active() {
		return nil, errors.Wrap(apperrors.ErrAuthentication, "[Service.Login] identity disabled")
	}

	pair, err := s.tokens.IssuePair(ctx, identity)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Login] IssuePair")
	}

	s.emitter.Emit("auth/login", events.IdentityEvent{
		IdentityID: identity.ID,
		TenantID:   identity.TenantID,
		Role:       string(identity.Role),
	})

	return pair, nil
}

// Refresh exchanges a valid refresh secret for a new token pair. The
// presented token is revoked atomically before the new pair is issued; a
// replayed, already-rotated secret fails and burns the token family. The
// identity is re-resolved after rotation so a stolen-but-valid refresh
// token cannot outlive its owner's account.
func (s *Service) Refresh(ctx context.Context, secret string) (*token.Pair, error) {
	identityID, err := s.tokens.Rotate(ctx, secret)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Refresh] Rotate")
	}

	identity, err := s.repos.Identities.GetByID(ctx, identityID)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrAuthentication, "[Service.Refresh] identity gone")
	}
	if !identity.Active() {
		return nil, errors.Wrap(apperrors.ErrAuthentication, "[Service.Refresh] identity disabled")
	}

	pair, err := s.tokens.IssuePair(ctx, identity)
	if err != nil {
		// The old token is already revoked; surface the failure instead of
		// leaving the caller with a half-rotated session.
		return nil, errors.Wrap(err, "[Service.Refresh] IssuePair after rotation")
	}

	return pair, nil
}

// Logout revokes the refresh token for a presented secret. Idempotent:
// unknown and already-revoked tokens return success, revealing nothing.
func (s *Service) Logout(ctx context.Context, secret string) error {
	if err := s.tokens.RevokeRefresh(ctx, secret); err != nil {
		return errors.Wrap(err, "[Service.Logout] RevokeRefresh")
	}
	return nil
}

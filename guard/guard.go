package guard

import (
	"context"

	"github.com/pkg/errors"

	"github.com/voltgrid/auth-server/identities"
	apperrors "github.com/voltgrid/auth-server/internal/errors"
	"github.com/voltgrid/auth-server/permissions"
	"github.com/voltgrid/auth-server/scopes"
	"github.com/voltgrid/auth-server/tenants"
	"github.com/voltgrid/auth-server/token"
)

// Requirement is the declarative permission a route demands, attached as a
// plain value and consumed as an ordinary argument. No reflection, no
// metadata.
type Requirement struct {
	Feature string
	Action  string
}

// Requires builds a Requirement; an empty action defaults to "access".
func Requires(feature, action string) Requirement {
	if action == "" {
		action = permissions.ActionAccess
	}
	return Requirement{Feature: feature, Action: action}
}

// Principal is the authenticated caller: the re-resolved identity plus its
// derived scope.
type Principal struct {
	IdentityID string
	Role       identities.Role
	TenantID   string
	OrgID      string
	Scope      scopes.Scope
}

// Guard composes the per-request chain: authenticate, then authorize, then
// optionally narrow results. Authorize must not run without a Principal
// from Authenticate; narrowing is defense-in-depth on top of authorization,
// never a substitute for it.
type Guard struct {
	tokens     *token.Manager
	identities identities.Repo
	tenants    tenants.Repo
	registry   *permissions.Registry
}

func New(tokens *token.Manager, identityRepo identities.Repo, tenantRepo tenants.Repo, registry *permissions.Registry) (*Guard, error) {
	if tokens == nil {
		return nil, errors.New("[guard.New] token manager is required")
	}
	if identityRepo == nil {
		return nil, errors.New("[guard.New] identity repo is required")
	}
	if registry == nil {
		return nil, errors.New("[guard.New] permission registry is required")
	}
	return &Guard{
		tokens:     tokens,
		identities: identityRepo,
		tenants:    tenantRepo,
		registry:   registry,
	}, nil
}

// Authenticate verifies the access token's signature and expiry, then
// re-resolves the identity by subject. A token for a deleted or disabled
// identity is rejected even when cryptographically valid and unexpired.
// The stored role wins over the role claim: an admin demotion takes effect
// without waiting for the token to expire.
func (g *Guard) Authenticate(ctx context.Context, rawToken string) (*Principal, error) {
	claims, err := g.tokens.Verify(rawToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Guard.Authenticate] Verify")
	}

	identity, err := g.identities.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrAuthentication, "[Guard.Authenticate] subject gone")
	}
	if !identity.Active() {
		return nil, errors.Wrap(apperrors.ErrAuthentication, "[Guard.Authenticate] subject disabled")
	}

	var orgRegion string
	if identity.OrgID != "" && g.tenants != nil {
		if org, err := g.tenants.GetOrganization(ctx, identity.OrgID); err == nil {
			orgRegion = org.Region
		}
	}

	return &Principal{
		IdentityID: identity.ID,
		Role:       identity.Role,
		TenantID:   identity.TenantID,
		OrgID:      identity.OrgID,
		Scope:      scopes.ForIdentity(identity, orgRegion),
	}, nil
}

// Authorize consults the permission registry for the route's requirement.
// Denials are fail-closed and carry no detail about why.
func (g *Guard) Authorize(principal *Principal, req Requirement) error {
	if principal == nil {
		return errors.Wrap(apperrors.ErrAuthentication, "[Guard.Authorize] no principal")
	}
	if !g.registry.Allowed(principal.Role, req.Feature, req.Action) {
		return errors.Wrapf(apperrors.ErrAuthorization, "[Guard.Authorize] %s/%s denied", req.Feature, req.Action)
	}
	return nil
}

// Permissions resolves the full action map of a feature for UI gating.
func (g *Guard) Permissions(principal *Principal, feature string) map[string]bool {
	if principal == nil {
		return map[string]bool{}
	}
	return g.registry.ForFeature(principal.Role, feature)
}

// NarrowWidget filters a widget's item collection to the principal's scope.
func (g *Guard) NarrowWidget(principal *Principal, widgetID string, cfg scopes.WidgetConfig) scopes.WidgetConfig {
	return scopes.AdaptWidgetConfig(widgetID, cfg, principal.Role, principal.Scope)
}

package guard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voltgrid/auth-server/guard"
	"github.com/voltgrid/auth-server/identities"
	identityfake "github.com/voltgrid/auth-server/identities/repofake"
	apperrors "github.com/voltgrid/auth-server/internal/errors"
	"github.com/voltgrid/auth-server/internal/utils"
	"github.com/voltgrid/auth-server/permissions"
	"github.com/voltgrid/auth-server/scopes"
	"github.com/voltgrid/auth-server/tenants"
	tenantfake "github.com/voltgrid/auth-server/tenants/repofake"
	"github.com/voltgrid/auth-server/token"
	"github.com/voltgrid/auth-server/token/refresh"
	refreshfake "github.com/voltgrid/auth-server/token/refresh/repofake"
)

type guardFixture struct {
	guard      *guard.Guard
	tokens     *token.Manager
	identities *identityfake.FakeIdentityRepo
	tenants    *tenantfake.FakeTenantRepo
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	f := &guardFixture{
		identities: identityfake.NewFakeIdentityRepo(),
		tenants:    tenantfake.NewFakeTenantRepo(),
	}

	refreshManager := refresh.NewManager(refreshfake.NewFakeRefreshTokenRepo(), 30*24*time.Hour)
	f.tokens = token.New(token.NewHMACSigner("test-signing-secret"), refreshManager)

	registry := permissions.NewRegistry([]permissions.FeatureSpec{
		{
			Name: "dispatch",
			Actions: map[string]permissions.Allowance{
				permissions.ActionAccess: permissions.AnyOf(permissions.PlatformOperators, permissions.TenantManagers),
			},
		},
		{
			Name: "map",
			Actions: map[string]permissions.Allowance{
				permissions.ActionAccess: permissions.Everyone(),
				permissions.ActionExport: permissions.AnyOf(permissions.PlatformAdmins),
			},
		},
	})

	g, err := guard.New(f.tokens, f.identities, f.tenants, registry)
	require.NoError(t, err)
	f.guard = g
	return f
}

// seedIdentity stores an identity with an org in eu-west and returns it with
// a valid access token.
func (f *guardFixture) seedIdentity(t *testing.T, role identities.Role) (*identities.Identity, string) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.tenants.CreateTenant(ctx, &tenants.Tenant{ID: "tenant-1", Name: "Acme Charging"}))
	require.NoError(t, f.tenants.CreateOrganization(ctx, &tenants.Organization{
		ID:       "org-1",
		TenantID: "tenant-1",
		Name:     "Acme EU",
		Region:   "eu-west",
	}))

	identity := &identities.Identity{
		ID:       "identity-1",
		Email:    "user@example.com",
		Role:     role,
		TenantID: "tenant-1",
		OrgID:    "org-1",
	}
	require.NoError(t, f.identities.Create(ctx, identity))

	accessToken, err := f.tokens.IssueAccessToken(identity)
	require.NoError(t, err)
	return identity, accessToken
}

func TestAuthenticate_ResolvesPrincipalWithScope(t *testing.T) {
	f := newGuardFixture(t)
	_, accessToken := f.seedIdentity(t, identities.RoleOrgAdmin)

	principal, err := f.guard.Authenticate(context.Background(), accessToken)
	require.NoError(t, err)
	require.Equal(t, "identity-1", principal.IdentityID)
	require.Equal(t, identities.RoleOrgAdmin, principal.Role)
	require.Equal(t, "tenant-1", principal.TenantID)
	require.Equal(t, "org-1", utils.Value(principal.Scope.OrgID))
	require.Equal(t, "eu-west", utils.Value(principal.Scope.Region))
}

func TestAuthenticate_InvalidTokenRejected(t *testing.T) {
	f := newGuardFixture(t)

	_, err := f.guard.Authenticate(context.Background(), "not-a-token")
	require.ErrorIs(t, err, apperrors.ErrAuthentication)
}

func TestAuthenticate_DeletedSubjectRejected(t *testing.T) {
	f := newGuardFixture(t)

	// Valid token whose subject was never stored.
	accessToken, err := f.tokens.IssueAccessToken(&identities.Identity{
		ID:       "ghost",
		Role:     identities.RoleViewer,
		TenantID: "tenant-1",
	})
	require.NoError(t, err)

	_, err = f.guard.Authenticate(context.Background(), accessToken)
	require.ErrorIs(t, err, apperrors.ErrAuthentication)
}

func TestAuthenticate_DisabledSubjectRejected(t *testing.T) {
	f := newGuardFixture(t)
	identity, accessToken := f.seedIdentity(t, identities.RoleViewer)

	require.NoError(t, f.identities.SetDisabled(context.Background(), identity.ID, true))

	_, err := f.guard.Authenticate(context.Background(), accessToken)
	require.ErrorIs(t, err, apperrors.ErrAuthentication)
}

func TestAuthenticate_StoredRoleWinsOverClaim(t *testing.T) {
	f := newGuardFixture(t)
	identity, accessToken := f.seedIdentity(t, identities.RoleOrgAdmin)

	// Demotion applies immediately even though the token still says org_admin.
	require.NoError(t, f.identities.SetRole(context.Background(), identity.ID, identities.RoleViewer))

	principal, err := f.guard.Authenticate(context.Background(), accessToken)
	require.NoError(t, err)
	require.Equal(t, identities.RoleViewer, principal.Role)
}

func TestAuthorize(t *testing.T) {
	f := newGuardFixture(t)
	_, accessToken := f.seedIdentity(t, identities.RoleViewer)

	principal, err := f.guard.Authenticate(context.Background(), accessToken)
	require.NoError(t, err)

	require.NoError(t, f.guard.Authorize(principal, guard.Requires("map", permissions.ActionAccess)))

	err = f.guard.Authorize(principal, guard.Requires("dispatch", permissions.ActionAccess))
	require.ErrorIs(t, err, apperrors.ErrAuthorization)

	err = f.guard.Authorize(nil, guard.Requires("map", permissions.ActionAccess))
	require.ErrorIs(t, err, apperrors.ErrAuthentication)
}

func TestRequires_DefaultsAction(t *testing.T) {
	req := guard.Requires("map", "")
	require.Equal(t, permissions.ActionAccess, req.Action)
}

func TestPermissions(t *testing.T) {
	f := newGuardFixture(t)
	_, accessToken := f.seedIdentity(t, identities.RoleViewer)

	principal, err := f.guard.Authenticate(context.Background(), accessToken)
	require.NoError(t, err)

	require.Equal(t, map[string]bool{
		permissions.ActionAccess: true,
		permissions.ActionExport: false,
	}, f.guard.Permissions(principal, "map"))
	require.Empty(t, f.guard.Permissions(nil, "map"))
}

func TestNarrowWidget(t *testing.T) {
	f := newGuardFixture(t)
	_, accessToken := f.seedIdentity(t, identities.RoleOrgAdmin)

	principal, err := f.guard.Authenticate(context.Background(), accessToken)
	require.NoError(t, err)

	cfg := scopes.WidgetConfig{
		Visible: true,
		Items: []scopes.WidgetItem{
			{ID: "q-1", OrgID: utils.Ptr("org-1")},
			{ID: "q-2", OrgID: utils.Ptr("org-2")},
		},
	}

	adapted := f.guard.NarrowWidget(principal, scopes.WidgetListDispatch, cfg)
	require.Len(t, adapted.Items, 1)
	require.Equal(t, "q-1", adapted.Items[0].ID)
	require.True(t, adapted.Visible)
}

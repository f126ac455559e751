package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/armorview/go-console-framework/pkg/api/contract"
	"github.com/armorview/go-console-framework/pkg/querycache"
	"github.com/armorview/go-console-framework/pkg/session"
)

const namespaceAuth = "auth"

// AuthClient covers the current user, the tenant memberships and the tenant switch.
type AuthClient struct {
	client *Client
}

// Me returns the currently authenticated user.
func (a *AuthClient) Me(ctx context.Context) (contract.User, error) {
	key := querycache.Key(namespaceAuth+":me", nil)
	tags := []querycache.Tag{{Type: TagAuth}}

	return querycache.GetOrFetchAs(ctx, a.client.cache, key, tags, func(ctx context.Context) (contract.User, error) {
		var response contract.ApiResponse[contract.User]
		err := a.client.do(ctx, http.MethodGet, "/auth/me", nil, nil, &response)
		return response.Data, err
	})
}

// CurrentTenant returns the tenant the session token is scoped to.
func (a *AuthClient) CurrentTenant(ctx context.Context) (contract.Tenant, error) {
	key := querycache.Key(namespaceAuth+":currentTenant", nil)
	tags := []querycache.Tag{{Type: TagAuth}}

	return querycache.GetOrFetchAs(ctx, a.client.cache, key, tags, func(ctx context.Context) (contract.Tenant, error) {
		var response contract.ApiResponse[contract.Tenant]
		err := a.client.do(ctx, http.MethodGet, "/api/user/tenant/current", nil, nil, &response)
		return response.Data, err
	})
}

// Tenants returns every tenant the user is a member of.
func (a *AuthClient) Tenants(ctx context.Context) ([]contract.Tenant, error) {
	key := querycache.Key(namespaceAuth+":tenants", nil)
	tags := []querycache.Tag{{Type: TagAuth}}

	return querycache.GetOrFetchAs(ctx, a.client.cache, key, tags, func(ctx context.Context) ([]contract.Tenant, error) {
		var response contract.ApiResponse[[]contract.Tenant]
		err := a.client.do(ctx, http.MethodGet, "/api/user/tenants", nil, nil, &response)
		return response.Data, err
	})
}

// SwitchTenant asks the backend for a token scoped to the given tenant and installs it in the
// session. Installing the token advances the session epoch, which discards every cached query
// result, including fetches still in flight when the switch happened. Queries issued afterwards
// run with the new token and see only the new tenant's data.
func (a *AuthClient) SwitchTenant(ctx context.Context, tenantId string) (contract.Tenant, error) {
	query := url.Values{}
	query.Set("tenantId", tenantId)

	var response contract.ApiResponse[contract.SwitchTenantResponse]
	err := a.client.do(ctx, http.MethodGet, "/api/user/tenant/switch", query, nil, &response)
	if err != nil {
		return contract.Tenant{}, err
	}

	tenant, err := tenantFromToken(response.Data.Token)
	if err != nil {
		return contract.Tenant{}, err
	}

	a.client.session.SetCredentials(session.WithToken(response.Data.Token))
	a.client.session.SetCurrentTenant(tenant)
	a.client.cache.Flush()
	return tenant, nil
}

// tenantFromToken reads the tenant claims out of a backend-issued token. The token is decoded
// without signature verification, validation is the backend's job and the signing key never
// leaves it.
func tenantFromToken(token string) (contract.Tenant, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return contract.Tenant{}, errors.Wrap(err, "failed to decode tenant token")
	}

	tenant := contract.Tenant{}
	if value, ok := claims["tenantId"].(string); ok {
		tenant.TenantId = value
	}
	if value, ok := claims["tenantName"].(string); ok {
		tenant.TenantName = value
	}
	if value, ok := claims["roleName"].(string); ok {
		tenant.RoleName = value
	}

	if tenant.TenantId == "" {
		return contract.Tenant{}, errors.New("tenant token carries no tenantId claim")
	}
	return tenant, nil
}

// Logout invalidates the session on the backend and clears the local credentials either way;
// a dead backend must not be able to keep a client logged in.
func (a *AuthClient) Logout(ctx context.Context) error {
	err := a.client.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)

	a.client.session.ClearCredentials()
	a.client.cache.Flush()
	return err
}

// InitializeSession hydrates the session from the backend after a token became available,
// either from durable storage at startup or from a fresh login. It loads the user, the current
// tenant and the tenant memberships in one go. A 401 means the persisted token expired; the
// caller is expected to send the user back through login.
func (a *AuthClient) InitializeSession(ctx context.Context) error {
	if !a.client.session.IsAuthenticated() {
		return errors.New("no session token available")
	}

	user, err := a.Me(ctx)
	if err != nil {
		return err
	}

	tenant, err := a.CurrentTenant(ctx)
	if err != nil {
		return err
	}

	tenants, err := a.Tenants(ctx)
	if err != nil {
		return err
	}

	a.client.session.SetCredentials(
		session.WithUser(&user),
		session.WithCurrentTenant(&tenant),
		session.WithTenants(tenants),
	)
	return nil
}

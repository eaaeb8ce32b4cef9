package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"projecthub-service/internal/authz"
	"projecthub-service/internal/tenancy"
	"projecthub-service/pkg/jwtutil"
)

func setupAuthTest(t *testing.T) {
	t.Helper()
	jwtutil.Initialize(&jwtutil.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
}

func invokeAuth(t *testing.T, authHeader string) (*authz.Caller, tenancy.Scope, bool, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var caller *authz.Caller
	var scope tenancy.Scope
	reached := false
	handler := AuthMiddleware(func(c echo.Context) error {
		reached = true
		caller, _ = authz.CallerFromContext(c.Request().Context())
		scope, _ = tenancy.FromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return caller, scope, reached, rec
}

func TestAuthMiddlewareInstallsCallerAndScope(t *testing.T) {
	setupAuthTest(t)

	tenantID := uint(4)
	token, err := jwtutil.GenerateToken(7, "jdoe", "jdoe@123.com", &tenantID, []string{"Administrator"})
	require.NoError(t, err)

	caller, scope, reached, _ := invokeAuth(t, "Bearer "+token)
	require.True(t, reached)
	require.NotNil(t, caller)
	require.Equal(t, uint(7), caller.ID)
	require.Equal(t, "jdoe", caller.UserName)
	require.Equal(t, uint(4), *caller.TenantID)
	require.True(t, caller.HasRole(authz.Administrator))

	id, ok := scope.TenantID()
	require.True(t, ok)
	require.Equal(t, uint(4), id)
}

func TestAuthMiddlewareHostScopeForTenantlessCaller(t *testing.T) {
	setupAuthTest(t)

	token, err := jwtutil.GenerateToken(1, "admin", "admin@defaulttenant.com", nil, []string{"HostAdministrator"})
	require.NoError(t, err)

	caller, scope, reached, _ := invokeAuth(t, "Bearer "+token)
	require.True(t, reached)
	require.Nil(t, caller.TenantID)
	require.True(t, caller.IsHostAdministrator())
	require.True(t, scope.IsHost())
	require.False(t, scope.IsUnscoped())
}

func TestAuthMiddlewareRejectsTenantlessNonHost(t *testing.T) {
	setupAuthTest(t)

	token, err := jwtutil.GenerateToken(9, "drifter", "drifter@nowhere.com", nil, []string{"User"})
	require.NoError(t, err)

	_, _, reached, rec := invokeAuth(t, "Bearer "+token)
	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	setupAuthTest(t)

	_, _, reached, rec := invokeAuth(t, "")
	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	setupAuthTest(t)

	_, _, reached, rec := invokeAuth(t, "Basic dXNlcjpwYXNz")
	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	setupAuthTest(t)

	_, _, reached, rec := invokeAuth(t, "Bearer not.a.token")
	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"projecthub-service/internal/authz"
	"projecthub-service/internal/tenancy"
	"projecthub-service/pkg/jwtutil"
	"projecthub-service/pkg/logger"
	"projecthub-service/prometheus"
)

// AuthMiddleware validates the bearer token and installs the caller and
// the tenant scope on the request context. The scope is the caller's own
// tenant, or the host scope for tenantless callers; elevating beyond that
// is an explicit per-operation decision in the resolvers.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		// Extract the token from the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header")
			prometheus.RecordAuthError("missing_header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
		}

		// Check if the header format is valid
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format")
			prometheus.RecordAuthError("invalid_header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization header format"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Warn("Invalid or expired token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		caller := &authz.Caller{
			ID:       claims.UserID,
			UserName: claims.UserName,
			Email:    claims.Email,
			TenantID: claims.TenantID,
			Roles:    authz.ParseRoles(claims.Roles),
		}

		// A token without a tenant only belongs to a host administrator;
		// any other tenantless caller has no rows it could be scoped to
		if caller.TenantID == nil && !caller.IsHostAdministrator() {
			log.Warn("Tenantless caller without host role",
				zap.Uint("user_id", claims.UserID),
				zap.String("user_name", claims.UserName))
			prometheus.RecordAuthError("tenantless_caller")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "a caller without a tenant must be a host administrator"})
		}

		// Request-local scope: the caller's tenant, or host-level rows for
		// host administrators
		scope := tenancy.ScopeFor(caller.TenantID)

		req := c.Request()
		ctx := authz.WithCaller(req.Context(), caller)
		ctx = tenancy.WithScope(ctx, scope)
		c.SetRequest(req.WithContext(ctx))

		// Keep the claims reachable for non-GraphQL handlers
		c.Set("user", claims)
		log.Debug("JWT token validated successfully",
			zap.Uint("user_id", claims.UserID),
			zap.String("user_name", claims.UserName),
			zap.String("scope", scope.String()))

		return next(c)
	}
}

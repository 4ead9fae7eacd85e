package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/relaycrm/crm-system/internal/core/domain"
	"github.com/relaycrm/crm-system/pkg/access"
	"github.com/relaycrm/crm-system/pkg/jwtx"
)

// RequireRoles enforces role-based access on a route. The decision is
// delegated to access.CanAccess, the same gate the client SDK uses for
// navigation, so server and client can never disagree on who sees what.
func RequireRoles(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !access.CanAccess(required, roleFromContext(c)) {
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
			}
			return next(c)
		}
	}
}

// roleFromContext resolves the caller's role name from the verified claims.
// Signup tokens carry only the role ID, so the name falls back to the
// catalog lookup.
func roleFromContext(c echo.Context) string {
	if name, _ := c.Get(CtxRoleName).(string); name != "" {
		return name
	}
	if claims, ok := c.Get(CtxClaims).(*jwtx.Claims); ok {
		return domain.RoleName(claims.RoleID)
	}
	return ""
}

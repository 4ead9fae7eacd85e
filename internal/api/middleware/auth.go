package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/relaycrm/crm-system/internal/api/metrics"
	"github.com/relaycrm/crm-system/pkg/jwtx"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxRoleID   = "role_id"
	CtxRoleName = "role_name"
	CtxClaims   = "claims"
)

// Auth validates the bearer token and injects the verified claims into the
// echo context. Every failure is a 401; the metric label records why.
func Auth(tokens *jwtx.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenVerificationsTotal.WithLabelValues("malformed").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Malformed authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				switch {
				case errors.Is(err, jwtx.ErrExpired):
					metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
				case errors.Is(err, jwtx.ErrMalformed):
					metrics.TokenVerificationsTotal.WithLabelValues("malformed").Inc()
				default:
					metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(CtxUserID, claims.UserID())
			c.Set(CtxRoleID, claims.RoleID)
			c.Set(CtxRoleName, claims.RoleName)
			c.Set(CtxClaims, claims)

			return next(c)
		}
	}
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/relaycrm/crm-system/internal/api/middleware"
)

// ctxUserID extracts the authenticated user ID injected by the Auth
// middleware. An empty value means the middleware never ran, which is a
// wiring bug surfacing as 401 rather than a panic.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.CtxUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication claims")
	}
	return userID, nil
}

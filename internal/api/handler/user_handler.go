package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/relaycrm/crm-system/internal/core/ports"
	"github.com/relaycrm/crm-system/pkg/httpx"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the profile of the authenticated caller.
//
// @Summary      Current user profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  httpx.Response
// @Failure      401  {object}  httpx.Response
// @Router       /user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, httpx.OK(user))
}

// List returns a page of users. Admin only.
//
// @Summary      List users
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  httpx.Response
// @Failure      401    {object}  httpx.Response
// @Failure      403    {object}  httpx.Response
// @Router       /user [get]
func (h *UserHandler) List(c echo.Context) error {
	page, limit := pageParams(c)

	users, meta, err := h.userService.ListUsers(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	payload := struct {
		Users any            `json:"users"`
		Meta  ports.PageMeta `json:"meta"`
	}{Users: users, Meta: meta}
	return c.JSON(http.StatusOK, httpx.OK(payload))
}

// pageParams reads ?page and ?limit, defaulting to 1 and 10.
func pageParams(c echo.Context) (int64, int64) {
	page := int64(1)
	if v, err := strconv.ParseInt(c.QueryParam("page"), 10, 64); err == nil && v > 0 {
		page = v
	}
	limit := int64(10)
	if v, err := strconv.ParseInt(c.QueryParam("limit"), 10, 64); err == nil && v > 0 {
		limit = v
	}
	return page, limit
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/relaycrm/crm-system/internal/core/domain"
	"github.com/relaycrm/crm-system/internal/core/ports"
	"github.com/relaycrm/crm-system/pkg/httpx"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	RoleID       int64  `json:"roleId"`
	DepartmentID *int64 `json:"departmentId,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authPayload struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Signup creates a new user account and returns the user plus a token.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "User registration details"
// @Success      201   {object}  httpx.Response
// @Failure      400   {object}  httpx.Response
// @Failure      409   {object}  httpx.Response
// @Failure      500   {object}  httpx.Response
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httpx.Fail("invalid payload"))
	}

	user, token, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		RoleID:       req.RoleID,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, httpx.OK(authPayload{User: user, Token: token}))
}

// Login authenticates a user and returns the user plus a token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  httpx.Response
// @Failure      400   {object}  httpx.Response
// @Failure      401   {object}  httpx.Response
// @Failure      404   {object}  httpx.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, httpx.Fail("invalid payload"))
	}

	user, token, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, httpx.OK(authPayload{User: user, Token: token}))
}

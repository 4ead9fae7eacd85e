package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/relaycrm/crm-system/internal/core/domain"
	"github.com/relaycrm/crm-system/internal/core/ports"
	"github.com/relaycrm/crm-system/pkg/httpx"
)

type stubAuthService struct {
	user  *domain.User
	token string
	err   error

	lastSignup ports.SignupInput
	lastLogin  ports.LoginInput
}

func (s *stubAuthService) Signup(_ context.Context, in ports.SignupInput) (*domain.User, string, error) {
	s.lastSignup = in
	if s.err != nil {
		return nil, "", s.err
	}
	return s.user, s.token, nil
}

func (s *stubAuthService) Login(_ context.Context, in ports.LoginInput) (*domain.User, string, error) {
	s.lastLogin = in
	if s.err != nil {
		return nil, "", s.err
	}
	return s.user, s.token, nil
}

func testUser() *domain.User {
	return &domain.User{
		ID:           "user_1",
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$should-never-appear",
		RoleID:       domain.RoleIDSalesManager,
		RoleName:     domain.RoleSalesManager,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

func jsonContext(t *testing.T, e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) httpx.Envelope {
	t.Helper()
	var env httpx.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, rec.Body.String())
	}
	return env
}

func TestAuthHandlerSignupSuccess(t *testing.T) {
	e := echo.New()
	svc := &stubAuthService{user: testUser(), token: "signed.jwt.token"}
	h := NewAuthHandler(svc)

	body := `{"name":"Alice","email":"alice@example.com","password":"secret123","roleId":2}`
	c, rec := jsonContext(t, e, http.MethodPost, "/auth/signup", body)

	if err := h.Signup(c); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("expected success envelope: %s", rec.Body.String())
	}

	var payload struct {
		User  *domain.User `json:"user"`
		Token string       `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Token != "signed.jwt.token" || payload.User.Email != "alice@example.com" {
		t.Fatalf("unexpected payload: %s", env.Data)
	}
	if strings.Contains(rec.Body.String(), "should-never-appear") {
		t.Fatalf("response leaks password hash: %s", rec.Body.String())
	}

	if svc.lastSignup.RoleID != 2 || svc.lastSignup.Password != "secret123" {
		t.Fatalf("input not forwarded: %+v", svc.lastSignup)
	}
}

func TestAuthHandlerSignupInvalidJSON(t *testing.T) {
	e := echo.New()
	h := NewAuthHandler(&stubAuthService{})

	c, rec := jsonContext(t, e, http.MethodPost, "/auth/signup", "{not-json")
	if err := h.Signup(c); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Success {
		t.Fatalf("expected failure envelope")
	}
}

func TestAuthHandlerSignupServiceErrorPassesThrough(t *testing.T) {
	// Domain errors go to the central error handler untouched, so the kind
	// survives to the status mapping.
	e := echo.New()
	svc := &stubAuthService{err: domain.Conflict("Email already registered")}
	h := NewAuthHandler(svc)

	body := `{"name":"Alice","email":"alice@example.com","password":"secret123","roleId":2}`
	c, _ := jsonContext(t, e, http.MethodPost, "/auth/signup", body)

	err := h.Signup(c)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict to pass through, got %v", err)
	}
}

func TestAuthHandlerLoginSuccess(t *testing.T) {
	e := echo.New()
	svc := &stubAuthService{user: testUser(), token: "signed.jwt.token"}
	h := NewAuthHandler(svc)

	c, rec := jsonContext(t, e, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"secret123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); !env.Success {
		t.Fatalf("expected success envelope: %s", rec.Body.String())
	}
	if svc.lastLogin.Email != "alice@example.com" {
		t.Fatalf("input not forwarded: %+v", svc.lastLogin)
	}
}

func TestAuthHandlerLoginServiceErrorPassesThrough(t *testing.T) {
	e := echo.New()
	svc := &stubAuthService{err: domain.Authentication("Invalid credentials")}
	h := NewAuthHandler(svc)

	c, _ := jsonContext(t, e, http.MethodPost, "/auth/login", `{"email":"alice@example.com","password":"nope"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("expected authentication error to pass through, got %v", err)
	}
}

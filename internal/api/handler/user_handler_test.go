package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/relaycrm/crm-system/internal/api/middleware"
	"github.com/relaycrm/crm-system/internal/core/domain"
	"github.com/relaycrm/crm-system/internal/core/ports"
)

type stubUserService struct {
	user *domain.User
	err  error

	lastPage, lastLimit int64
}

func (s *stubUserService) CurrentUser(_ context.Context, userID string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubUserService) ListUsers(_ context.Context, page, limit int64) ([]*domain.User, ports.PageMeta, error) {
	s.lastPage, s.lastLimit = page, limit
	return []*domain.User{s.user}, ports.PageMeta{Total: 1, Page: page, Limit: limit, TotalPages: 1}, nil
}

func TestUserHandlerMe(t *testing.T) {
	e := echo.New()
	h := NewUserHandler(&stubUserService{user: testUser()})

	req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, "user_1")

	if err := h.Me(c); err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	var user domain.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.ID != "user_1" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUserHandlerMeWithoutClaims(t *testing.T) {
	e := echo.New()
	h := NewUserHandler(&stubUserService{user: testUser()})

	req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %v", err)
	}
}

func TestUserHandlerListPaging(t *testing.T) {
	e := echo.New()
	svc := &stubUserService{user: testUser()}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/user?page=3&limit=25", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if svc.lastPage != 3 || svc.lastLimit != 25 {
		t.Fatalf("query params not forwarded: page=%d limit=%d", svc.lastPage, svc.lastLimit)
	}
}

func TestUserHandlerListPagingDefaults(t *testing.T) {
	e := echo.New()
	svc := &stubUserService{user: testUser()}
	h := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/user?page=abc&limit=-1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if svc.lastPage != 1 || svc.lastLimit != 10 {
		t.Fatalf("expected defaults 1/10, got page=%d limit=%d", svc.lastPage, svc.lastLimit)
	}
}

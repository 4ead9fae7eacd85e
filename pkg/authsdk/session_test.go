package authsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/relaycrm/crm-system/pkg/httpx"
	"github.com/relaycrm/crm-system/pkg/jwtx"
)

func signToken(t *testing.T, mutate func(*jwtx.Claims)) string {
	t.Helper()
	claims := &jwtx.Claims{
		Email:    "alice@example.com",
		RoleID:   2,
		RoleName: "sales-manager",
	}
	claims.Subject = "user_1"
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	if mutate != nil {
		mutate(claims)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validToken(t *testing.T) string {
	return signToken(t, nil)
}

func expiredToken(t *testing.T) string {
	return signToken(t, func(c *jwtx.Claims) {
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	})
}

// profileServer serves GET /user/me. status 0 means 200 with the given user.
type profileServer struct {
	mu       sync.Mutex
	status   int
	user     User
	requests atomic.Int64
	delay    time.Duration

	srv *httptest.Server
}

func newProfileServer(t *testing.T) *profileServer {
	t.Helper()
	ps := &profileServer{
		user: User{ID: "user_1", Email: "alice@example.com", RoleID: 2, RoleName: "sales-manager", IsActive: true},
	}
	ps.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.requests.Add(1)
		if ps.delay > 0 {
			time.Sleep(ps.delay)
		}
		ps.mu.Lock()
		status := ps.status
		user := ps.user
		ps.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if status != 0 {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(httpx.Fail("Invalid or expired token"))
			return
		}
		raw, _ := json.Marshal(user)
		_ = json.NewEncoder(w).Encode(httpx.Envelope{Success: true, Data: raw})
	}))
	t.Cleanup(ps.srv.Close)
	return ps
}

func (ps *profileServer) setStatus(code int) {
	ps.mu.Lock()
	ps.status = code
	ps.mu.Unlock()
}

func newTestSession(t *testing.T, ps *profileServer, token string) (*Session, *MemoryTokenStore) {
	t.Helper()
	store := NewMemoryTokenStore()
	if token != "" {
		if err := store.Save(token); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}
	s, err := NewSession(NewClient(ps.srv.URL), store, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	return s, store
}

func TestNewSessionLoadsStoredToken(t *testing.T) {
	ps := newProfileServer(t)
	s, _ := newTestSession(t, ps, validToken(t))

	if !s.IsAuthenticated() {
		t.Fatalf("expected authenticated session from stored token")
	}
	if s.State() != StateAuthenticated {
		t.Fatalf("unexpected state: %s", s.State())
	}
	// Role is available before any network call, straight from the claims.
	if s.Role() != "sales-manager" {
		t.Fatalf("unexpected role: %q", s.Role())
	}
	if ps.requests.Load() != 0 {
		t.Fatalf("session construction should not touch the network")
	}
}

func TestNewSessionEmptyStore(t *testing.T) {
	ps := newProfileServer(t)
	s, _ := newTestSession(t, ps, "")

	if s.IsAuthenticated() || s.State() != StateNoSession {
		t.Fatalf("expected no session, got %s", s.State())
	}
	if err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate returned error: %v", err)
	}
	if ps.requests.Load() != 0 {
		t.Fatalf("hydrating an empty session should not touch the network")
	}
}

func TestHydrateSuccess(t *testing.T) {
	ps := newProfileServer(t)
	s, _ := newTestSession(t, ps, validToken(t))

	if err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate returned error: %v", err)
	}
	if s.State() != StateAuthenticated {
		t.Fatalf("unexpected state: %s", s.State())
	}
	if !s.ProfileConfirmed() {
		t.Fatalf("profile should be confirmed after a successful fetch")
	}
	user := s.User()
	if user == nil || user.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if s.Role() != "sales-manager" {
		t.Fatalf("unexpected role: %q", s.Role())
	}
}

func TestHydrateExpiredTokenClearsWithoutNetwork(t *testing.T) {
	ps := newProfileServer(t)
	s, store := newTestSession(t, ps, expiredToken(t))

	if err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate returned error: %v", err)
	}
	if s.IsAuthenticated() || s.State() != StateNoSession {
		t.Fatalf("expired token should clear the session, state=%s", s.State())
	}
	if ps.requests.Load() != 0 {
		t.Fatalf("expired token must be rejected locally, saw %d requests", ps.requests.Load())
	}
	if token, _ := store.Load(); token != "" {
		t.Fatalf("store not cleared")
	}
}

func TestHydrateUndecodableTokenClears(t *testing.T) {
	ps := newProfileServer(t)
	s, store := newTestSession(t, ps, "garbage-not-a-jwt")

	if err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate returned error: %v", err)
	}
	if s.IsAuthenticated() {
		t.Fatalf("undecodable token should clear the session")
	}
	if ps.requests.Load() != 0 {
		t.Fatalf("undecodable token must not reach the network")
	}
	if token, _ := store.Load(); token != "" {
		t.Fatalf("store not cleared")
	}
}

func TestHydrateRejectedTokenClears(t *testing.T) {
	ps := newProfileServer(t)
	ps.setStatus(http.StatusUnauthorized)
	s, store := newTestSession(t, ps, validToken(t))

	if err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("an auth rejection resolves the hydration, got error: %v", err)
	}
	if s.IsAuthenticated() || s.State() != StateNoSession {
		t.Fatalf("rejected token should clear the session, state=%s", s.State())
	}
	if token, _ := store.Load(); token != "" {
		t.Fatalf("store not cleared")
	}
}

func TestHydrateTransientFailureKeepsToken(t *testing.T) {
	ps := newProfileServer(t)
	ps.setStatus(http.StatusInternalServerError)
	token := validToken(t)
	s, store := newTestSession(t, ps, token)

	err := s.Hydrate(context.Background())
	if err == nil {
		t.Fatalf("expected error from failed profile fetch")
	}
	if !s.IsAuthenticated() {
		t.Fatalf("transient failure must not destroy the session")
	}
	if s.ProfileConfirmed() {
		t.Fatalf("profile should stay unconfirmed after a failed fetch")
	}
	if got, _ := store.Load(); got != token {
		t.Fatalf("token should survive a transient failure")
	}

	// The retry succeeds once the server recovers.
	ps.setStatus(0)
	if err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
	if !s.ProfileConfirmed() {
		t.Fatalf("retry should confirm the profile")
	}
}

func TestHydrateRoleMismatchPrefersClaims(t *testing.T) {
	ps := newProfileServer(t)
	ps.mu.Lock()
	ps.user.RoleName = "support"
	ps.mu.Unlock()
	s, _ := newTestSession(t, ps, validToken(t))

	if err := s.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate returned error: %v", err)
	}
	if s.Role() != "sales-manager" {
		t.Fatalf("token claims should win a role divergence, got %q", s.Role())
	}
}

func TestHydrateCoalescesConcurrentCalls(t *testing.T) {
	ps := newProfileServer(t)
	ps.delay = 50 * time.Millisecond
	s, _ := newTestSession(t, ps, validToken(t))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Hydrate(context.Background()); err != nil {
				t.Errorf("Hydrate returned error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := ps.requests.Load(); got != 1 {
		t.Fatalf("expected one coalesced profile fetch, got %d", got)
	}
	if s.State() != StateAuthenticated {
		t.Fatalf("unexpected state: %s", s.State())
	}
}

func TestLogoutDuringHydrationIsNotResurrected(t *testing.T) {
	ps := newProfileServer(t)
	ps.delay = 50 * time.Millisecond
	s, _ := newTestSession(t, ps, validToken(t))

	done := make(chan error, 1)
	go func() { done <- s.Hydrate(context.Background()) }()

	// Let the fetch start, then log out underneath it.
	time.Sleep(10 * time.Millisecond)
	if err := s.Logout(); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Hydrate returned error: %v", err)
	}

	if s.IsAuthenticated() || s.User() != nil {
		t.Fatalf("late profile response resurrected a logged-out session")
	}
}

func TestSetAuthAndLogout(t *testing.T) {
	ps := newProfileServer(t)
	s, store := newTestSession(t, ps, "")

	token := validToken(t)
	user := &User{ID: "user_1", Email: "alice@example.com", RoleID: 2, RoleName: "sales-manager"}
	if err := s.SetAuth(token, user); err != nil {
		t.Fatalf("SetAuth returned error: %v", err)
	}
	if !s.IsAuthenticated() || s.State() != StateAuthenticated {
		t.Fatalf("expected authenticated state after SetAuth")
	}
	if s.Role() != "sales-manager" {
		t.Fatalf("unexpected role: %q", s.Role())
	}
	if got, _ := store.Load(); got != token {
		t.Fatalf("SetAuth did not persist the token")
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if s.IsAuthenticated() || s.Role() != "" || s.User() != nil {
		t.Fatalf("logout left session state behind")
	}
	if got, _ := store.Load(); got != "" {
		t.Fatalf("logout did not clear the store")
	}
}

func TestSetAuthRoleFallsBackToProfile(t *testing.T) {
	ps := newProfileServer(t)
	s, _ := newTestSession(t, ps, "")

	// Signup tokens carry no roleName claim; the returned user fills it in.
	token := signToken(t, func(c *jwtx.Claims) { c.RoleName = "" })
	user := &User{ID: "user_1", RoleID: 2, RoleName: "sales-manager"}
	if err := s.SetAuth(token, user); err != nil {
		t.Fatalf("SetAuth returned error: %v", err)
	}
	if s.Role() != "sales-manager" {
		t.Fatalf("expected role from profile, got %q", s.Role())
	}
}

func TestSessionCanAccess(t *testing.T) {
	ps := newProfileServer(t)
	s, _ := newTestSession(t, ps, validToken(t))

	if !s.CanAccess() {
		t.Fatalf("open gate should pass")
	}
	if !s.CanAccess("sales-manager") {
		t.Fatalf("member should pass")
	}
	if s.CanAccess("admin") {
		t.Fatalf("non-admin passed an admin gate")
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if s.CanAccess("sales-manager") {
		t.Fatalf("cleared session passed a role gate")
	}
	if !s.CanAccess() {
		t.Fatalf("open gate should pass even without a session")
	}
}

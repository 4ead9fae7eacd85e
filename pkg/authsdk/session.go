package authsdk

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/relaycrm/crm-system/pkg/access"
	"github.com/relaycrm/crm-system/pkg/jwtx"
)

// State is the session lifecycle state.
type State string

const (
	StateNoSession     State = "no_session"
	StateHydrating     State = "hydrating"
	StateAuthenticated State = "authenticated"
)

// expirySkew is the clock-drift allowance when checking a stored token's
// expiry locally.
const expirySkew = 5 * time.Second

// Session holds at most one token and one hydrated profile, backed by a
// TokenStore. It is safe for concurrent use.
//
// Lifecycle: NoSession → Hydrating → {Authenticated, NoSession}, and
// Authenticated → NoSession on Logout or a confirmed auth failure. Holding a
// token means "authenticated" locally; the server is only consulted during
// hydration.
type Session struct {
	client *Client
	store  TokenStore
	log    zerolog.Logger

	mu    sync.Mutex
	state State
	token string
	user  *User
	role  string
	// profileConfirmed is false while the role rests on decoded claims or a
	// stale profile (hydration fetch not yet succeeded).
	profileConfirmed bool

	hydrating bool
	hydrated  chan struct{} // closed when the in-flight hydration finishes
	// generation increments on every Logout/SetAuth; a hydration fetch that
	// started under an older generation discards its result instead of
	// resurrecting a cleared session.
	generation uint64
}

// NewSession creates a Session and loads any previously stored token. No
// network call is made; call Hydrate to confirm the session with the server.
func NewSession(client *Client, store TokenStore, log zerolog.Logger) (*Session, error) {
	token, err := store.Load()
	if err != nil {
		return nil, err
	}

	s := &Session{
		client: client,
		store:  store,
		log:    log,
		state:  StateNoSession,
		token:  token,
	}
	if token != "" {
		s.state = StateAuthenticated
		if claims, err := jwtx.Decode(token); err == nil {
			s.role = claims.RoleName
		}
	}
	return s, nil
}

// Hydrate validates the stored token and fetches the current profile.
//
// An expired or undecodable token clears the session without any network
// call. A 401/403 from the profile fetch clears the session. Any other
// fetch failure keeps the token: a valid session must not be destroyed by a
// transient infrastructure error; the returned error signals that the
// profile is unconfirmed and the call can be retried.
//
// Concurrent calls coalesce: a second Hydrate while one is in flight waits
// for the first and returns nil.
func (s *Session) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	if s.hydrating {
		done := s.hydrated
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	}

	if s.token == "" {
		s.state = StateNoSession
		s.mu.Unlock()
		return nil
	}

	s.hydrating = true
	s.hydrated = make(chan struct{})
	s.state = StateHydrating
	gen := s.generation
	token := s.token

	claims, err := jwtx.Decode(token)
	if err != nil || claims.ExpiredAt(time.Now(), expirySkew) {
		// Dead on arrival: clear locally, skip the network entirely.
		s.clearLocked()
		s.finishLocked()
		s.mu.Unlock()
		return nil
	}

	// Optimistic role from claims while the profile is in flight.
	if claims.RoleName != "" {
		s.role = claims.RoleName
	}
	s.mu.Unlock()

	user, fetchErr := s.client.Me(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generation != gen {
		// Session was logged out or replaced while the fetch was in
		// flight; this response no longer speaks for anyone.
		s.finishLocked()
		return nil
	}

	switch {
	case fetchErr == nil:
		s.applyProfileLocked(claims.RoleName, user)
		s.state = StateAuthenticated
		s.profileConfirmed = true
		s.finishLocked()
		return nil
	case IsAuthError(fetchErr):
		s.log.Debug().Err(fetchErr).Msg("stored token rejected, clearing session")
		s.clearLocked()
		s.finishLocked()
		return nil
	default:
		// Transient failure: keep the token, stay authenticated with an
		// unconfirmed profile.
		s.log.Warn().Err(fetchErr).Msg("profile fetch failed, keeping session for retry")
		s.state = StateAuthenticated
		s.finishLocked()
		return fetchErr
	}
}

// SetAuth installs a fresh token and user after a successful login or
// signup. The change is atomic: no reader observes the token without the
// derived role.
func (s *Session) SetAuth(token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(token); err != nil {
		return err
	}

	claimsRole := ""
	if claims, err := jwtx.Decode(token); err == nil {
		claimsRole = claims.RoleName
	}

	s.token = token
	s.applyProfileLocked(claimsRole, user)
	s.state = StateAuthenticated
	s.profileConfirmed = true
	s.generation++
	return nil
}

// Logout clears the local session. The token itself stays valid until its
// natural expiry; there is no server-side revocation.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	return nil
}

// IsAuthenticated reports whether a token is held locally. It does not
// re-verify with the server.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// IsHydrating reports whether the startup bootstrap is in flight. UIs must
// hold role-sensitive rendering while this is true.
func (s *Session) IsHydrating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrating
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the held token, or "" when there is none.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// ProfileConfirmed reports whether the current profile was confirmed by the
// server, as opposed to being rebuilt optimistically from token claims after
// a failed fetch.
func (s *Session) ProfileConfirmed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileConfirmed
}

// User returns the hydrated profile, or nil before hydration completes.
func (s *Session) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Role returns the current role name. Token claims take precedence; the
// fetched profile is the fallback.
func (s *Session) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// CanAccess reports whether the current role passes the gate for the given
// role requirements. The same function drives server-side route guarding,
// so navigation and enforcement cannot drift apart.
func (s *Session) CanAccess(required ...string) bool {
	return access.CanAccess(required, s.Role())
}

// applyProfileLocked merges a fetched or freshly returned profile and
// resolves the role with claims-first precedence. A divergence between the
// two sources is logged, never silently absorbed.
func (s *Session) applyProfileLocked(claimsRole string, user *User) {
	s.user = user

	profileRole := ""
	if user != nil {
		profileRole = user.RoleName
	}
	switch {
	case claimsRole == "":
		s.role = profileRole
	case profileRole != "" && profileRole != claimsRole:
		s.log.Warn().
			Str("claims_role", claimsRole).
			Str("profile_role", profileRole).
			Msg("role mismatch between token claims and profile, using claims")
		s.role = claimsRole
	default:
		s.role = claimsRole
	}
}

func (s *Session) clearLocked() {
	if err := s.store.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("token store clear failed")
	}
	s.token = ""
	s.user = nil
	s.role = ""
	s.profileConfirmed = false
	s.state = StateNoSession
	s.generation++
}

func (s *Session) finishLocked() {
	if s.hydrating {
		s.hydrating = false
		close(s.hydrated)
	}
}

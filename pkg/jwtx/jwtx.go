// Package jwtx issues and verifies the HS256 tokens used by the CRM API.
//
// Verification failures are typed (ErrMalformed, ErrSignatureInvalid,
// ErrExpired) so callers can react differently to a tampered token versus a
// naturally expired one. Decode parses without verifying and must only feed
// optimistic client-side decisions, never a server-side gate.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSecret is returned by NewService when no signing secret is
	// configured. There is deliberately no fallback secret: the service
	// refuses to operate rather than sign with a guessable constant.
	ErrNoSecret = errors.New("jwtx: no signing secret configured")

	ErrMalformed        = errors.New("jwtx: malformed token")
	ErrSignatureInvalid = errors.New("jwtx: invalid signature")
	ErrExpired          = errors.New("jwtx: token expired")
)

const DefaultTTL = 24 * time.Hour

// Service signs and verifies tokens with a single server-held secret.
// All operations are CPU-bound; nothing here touches I/O.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService builds a Service. Fails closed with ErrNoSecret when secret is
// empty. A non-positive ttl falls back to DefaultTTL.
func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue stamps iat/exp on the claims and returns the signed token.
func (s *Service) Issue(claims Claims) (string, error) {
	now := s.now().UTC()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return t.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the claims on success.
func (s *Service) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		default:
			return nil, ErrSignatureInvalid
		}
	}
	if !tkn.Valid {
		return nil, ErrSignatureInvalid
	}
	return claims, nil
}

// Decode parses the claims without verifying the signature. Returns
// ErrMalformed when the token cannot be parsed at all.
func Decode(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrMalformed
	}
	return claims, nil
}

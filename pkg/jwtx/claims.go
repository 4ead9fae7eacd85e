package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload shared by the server and the client SDK.
// Subject carries the user ID; the custom fields mirror the user record so
// the client can derive a role before fetching the profile.
type Claims struct {
	jwt.RegisteredClaims

	Email        string `json:"email,omitempty"`
	RoleID       int64  `json:"roleId,omitempty"`
	RoleName     string `json:"roleName,omitempty"`
	DepartmentID *int64 `json:"departmentId,omitempty"`
}

// UserID returns the subject claim.
func (c *Claims) UserID() string { return c.Subject }

// ExpiredAt reports whether the token is expired at the given instant,
// allowing skew of clock drift. A token with no exp claim never expires here;
// the server-side verifier is the authority for that case.
func (c *Claims) ExpiredAt(now time.Time, skew time.Duration) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !now.Add(-skew).Before(c.ExpiresAt.Time)
}

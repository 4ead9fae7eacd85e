// Package access holds the single role gate shared by the server's RBAC
// middleware and the client SDK's navigation guard. Keeping one function for
// both call sites stops the two from drifting: a route hidden from the
// sidebar is denied on direct access with the same rule.
package access

import "slices"

// Admin is the superuser role: it passes every gate unconditionally.
const Admin = "admin"

// CanAccess reports whether role may use a resource restricted to required.
// Rules, in order: no requirements means public; no role means denied; admin
// always passes; otherwise the role must be listed.
func CanAccess(required []string, role string) bool {
	if len(required) == 0 {
		return true
	}
	if role == "" {
		return false
	}
	if role == Admin {
		return true
	}
	return slices.Contains(required, role)
}

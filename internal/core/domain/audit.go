package domain

import "time"

// AuditAction names an auth-flow event worth recording.
type AuditAction string

const (
	AuditSignup      AuditAction = "signup"
	AuditLoginOK     AuditAction = "login_ok"
	AuditLoginFailed AuditAction = "login_failed"
)

// AuditEvent records one auth action against an email address. Events are
// written asynchronously; losing one on shutdown is acceptable.
type AuditEvent struct {
	Action    AuditAction
	Email     string
	UserID    string
	Reason    string // failure detail, empty on success
	Timestamp time.Time
}

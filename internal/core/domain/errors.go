package domain

import "fmt"

// Kind classifies a domain failure. Handlers map each kind to exactly one
// HTTP status, so services never reason about transport codes.
type Kind string

const (
	KindValidation     Kind = "validation"     // malformed or missing input
	KindConflict       Kind = "conflict"       // duplicate email
	KindNotFound       Kind = "not_found"      // no such user / lead
	KindAuthentication Kind = "authentication" // bad credentials or invalid/expired token
	KindAuthorization  Kind = "authorization"  // authenticated but role insufficient
	KindInternal       Kind = "internal"       // hashing/signing/store failure
)

// Error is the tagged error type carried across the core. errors.Is matches
// two *Error values by kind, which lets callers test against the canonical
// sentinels below without caring about the message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Canonical sentinels, one per kind, for errors.Is checks.
var (
	ErrValidation     = &Error{Kind: KindValidation, Message: "invalid input"}
	ErrConflict       = &Error{Kind: KindConflict, Message: "conflict"}
	ErrNotFound       = &Error{Kind: KindNotFound, Message: "not found"}
	ErrAuthentication = &Error{Kind: KindAuthentication, Message: "invalid credentials"}
	ErrAuthorization  = &Error{Kind: KindAuthorization, Message: "forbidden"}
	ErrInternal       = &Error{Kind: KindInternal, Message: "internal error"}
)

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Authentication(msg string) *Error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

func Authorization(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

// Internal wraps an unexpected failure. The cause stays attached for logging
// but is never rendered to clients.
func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, cause: cause}
}

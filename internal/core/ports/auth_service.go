package ports

import (
	"context"

	"github.com/relaycrm/crm-system/internal/core/domain"
)

// SignupInput carries a signup request into the auth service. Validation
// happens inside the service, not at the transport edge.
type SignupInput struct {
	Name         string `validate:"required"`
	Email        string `validate:"required,email"`
	Password     string `validate:"required,min=6"`
	RoleID       int64  `validate:"required,gt=0"`
	DepartmentID *int64
}

// LoginInput carries a login request into the auth service.
type LoginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// AuthService orchestrates signup and login. Both return the sanitized user
// and a signed token.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, string, error)
	Login(ctx context.Context, in LoginInput) (*domain.User, string, error)
}

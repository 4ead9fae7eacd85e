package ports

import (
	"context"

	"github.com/relaycrm/crm-system/internal/core/domain"
)

// UserRepository defines the persistence interface for user records.
// Implementations must reject a duplicate email on Create with
// domain.ErrConflict, so a race between two concurrent signups resolves at
// the store's unique constraint.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context, page, limit int64) ([]*domain.User, int64, error)
}

package ports

import (
	"context"

	"github.com/relaycrm/crm-system/internal/core/domain"
)

// LeadUpdate lists the mutable lead fields. Nil means "leave unchanged".
type LeadUpdate struct {
	Name       *string
	Email      *string
	Phone      *string
	Status     *domain.LeadStatus
	AssignedTo *string
}

// LeadRepository defines the persistence interface for leads.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	FindByID(ctx context.Context, id string) (*domain.Lead, error)
	List(ctx context.Context, page, limit int64) ([]*domain.Lead, int64, error)
	Update(ctx context.Context, id string, upd LeadUpdate) (*domain.Lead, error)
}

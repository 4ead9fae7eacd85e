package ports

import (
	"context"

	"github.com/relaycrm/crm-system/internal/core/domain"
)

// CreateLeadInput carries a new lead into the service.
type CreateLeadInput struct {
	Name       string `validate:"required"`
	Email      string `validate:"omitempty,email"`
	Phone      string
	Source     string
	AssignedTo string
}

// LeadService exposes the lead pipeline operations.
type LeadService interface {
	CreateLead(ctx context.Context, in CreateLeadInput) (*domain.Lead, error)
	ListLeads(ctx context.Context, page, limit int64) ([]*domain.Lead, PageMeta, error)
	UpdateLead(ctx context.Context, id string, upd LeadUpdate) (*domain.Lead, error)
}

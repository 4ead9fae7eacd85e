package ports

import (
	"context"

	"github.com/relaycrm/crm-system/internal/core/domain"
)

// PageMeta describes one page of a listing.
type PageMeta struct {
	Total       int64 `json:"total"`
	Page        int64 `json:"page"`
	Limit       int64 `json:"limit"`
	TotalPages  int64 `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// UserService exposes profile reads for authenticated callers.
type UserService interface {
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, page, limit int64) ([]*domain.User, PageMeta, error)
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/relaycrm/crm-system/internal/core/domain"
	"github.com/relaycrm/crm-system/internal/core/ports"
)

type leadService struct {
	repo     ports.LeadRepository
	validate *validator.Validate
	log      zerolog.Logger
}

// NewLeadService returns a LeadService implementation.
func NewLeadService(repo ports.LeadRepository, log zerolog.Logger) ports.LeadService {
	return &leadService{repo: repo, validate: validator.New(), log: log}
}

func (s *leadService) CreateLead(ctx context.Context, in ports.CreateLeadInput) (*domain.Lead, error) {
	if err := s.validate.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 && ve[0].Field() == "Email" {
			return nil, domain.Validationf("invalid lead email")
		}
		return nil, domain.Validationf("lead name is required")
	}

	now := time.Now().UTC()
	lead := &domain.Lead{
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Source:     in.Source,
		Status:     domain.LeadStatusNew,
		AssignedTo: in.AssignedTo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return nil, domain.Internal("create lead", err)
	}
	s.log.Info().Str("lead_id", created.ID).Msg("lead created")
	return created, nil
}

func (s *leadService) ListLeads(ctx context.Context, page, limit int64) ([]*domain.Lead, ports.PageMeta, error) {
	page, limit = normalizePage(page, limit)

	leads, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, ports.PageMeta{}, domain.Internal("list leads", err)
	}
	return leads, pageMeta(total, page, limit), nil
}

func (s *leadService) UpdateLead(ctx context.Context, id string, upd ports.LeadUpdate) (*domain.Lead, error) {
	if id == "" {
		return nil, domain.Validationf("lead id is required")
	}
	if upd == (ports.LeadUpdate{}) {
		return nil, domain.Validationf("no update data provided")
	}
	if upd.Status != nil && !validLeadStatus(*upd.Status) {
		return nil, domain.Validationf("unknown lead status %q", *upd.Status)
	}

	lead, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, domain.Internal("update lead", err)
	}
	return lead, nil
}

func validLeadStatus(s domain.LeadStatus) bool {
	switch s {
	case domain.LeadStatusNew, domain.LeadStatusContacted, domain.LeadStatusQualified,
		domain.LeadStatusWon, domain.LeadStatusLost:
		return true
	}
	return false
}

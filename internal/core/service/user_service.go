package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/relaycrm/crm-system/internal/api/metrics"
	"github.com/relaycrm/crm-system/internal/core/domain"
	"github.com/relaycrm/crm-system/internal/core/ports"
)

// ProfileCache abstracts the short-TTL profile cache (Redis).
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
}

type userService struct {
	repo  ports.UserRepository
	cache ProfileCache
	log   zerolog.Logger
}

// NewUserService returns a UserService. cache may be nil, in which case every
// read goes to the repository.
func NewUserService(repo ports.UserRepository, cache ProfileCache, log zerolog.Logger) ports.UserService {
	return &userService{repo: repo, cache: cache, log: log}
}

// CurrentUser resolves the profile behind a verified token subject.
func (s *userService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	if s.cache != nil {
		if user, err := s.cache.Get(ctx, userID); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("profile cache read failed, falling back to store")
		} else if user != nil {
			metrics.ProfileCacheTotal.WithLabelValues("hit").Inc()
			return user, nil
		} else {
			metrics.ProfileCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, domain.Internal("lookup user", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("profile cache write failed")
		}
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int64) ([]*domain.User, ports.PageMeta, error) {
	page, limit = normalizePage(page, limit)

	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, ports.PageMeta{}, domain.Internal("list users", err)
	}
	return users, pageMeta(total, page, limit), nil
}

func normalizePage(page, limit int64) (int64, int64) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func pageMeta(total, page, limit int64) ports.PageMeta {
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return ports.PageMeta{
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

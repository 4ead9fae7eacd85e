package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/relaycrm/crm-system/internal/api/metrics"
	"github.com/relaycrm/crm-system/internal/core/domain"
	"github.com/relaycrm/crm-system/internal/core/ports"
	"github.com/relaycrm/crm-system/pkg/cryptox"
	"github.com/relaycrm/crm-system/pkg/jwtx"
)

// AuthService implements signup and login. It holds no state of its own:
// uniqueness of email is the store's concern, and tokens are stateless.
type AuthService struct {
	repo     ports.UserRepository
	tokens   *jwtx.Service
	audit    ports.AuditRecorder
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens *jwtx.Service, audit ports.AuditRecorder, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		audit:    audit,
		validate: validator.New(),
		log:      log,
	}
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, string, error) {
	if err := s.validate.Struct(in); err != nil {
		metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return nil, "", signupValidationError(err)
	}

	// Pre-check for a friendly 409. The store's unique index is the real
	// arbiter: a concurrent signup that slips past this lookup still fails
	// on Create with the same conflict error.
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		metrics.SignupsTotal.WithLabelValues("conflict").Inc()
		return nil, "", domain.Conflict("Email already registered")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", domain.Internal("lookup user", err)
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return nil, "", domain.Internal("hash password", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		RoleID:       in.RoleID,
		RoleName:     domain.RoleName(in.RoleID),
		DepartmentID: in.DepartmentID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.SignupsTotal.WithLabelValues("conflict").Inc()
			return nil, "", domain.Conflict("Email already registered")
		}
		return nil, "", domain.Internal("create user", err)
	}

	token, err := s.tokens.Issue(s.signupClaims(created))
	if err != nil {
		return nil, "", domain.Internal("issue token", err)
	}

	metrics.SignupsTotal.WithLabelValues("ok").Inc()
	s.record(domain.AuditEvent{Action: domain.AuditSignup, Email: created.Email, UserID: created.ID})
	s.log.Info().Str("user_id", created.ID).Int64("role_id", created.RoleID).Msg("user registered")
	return created, token, nil
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*domain.User, string, error) {
	if err := s.validate.Struct(in); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return nil, "", domain.Validationf("Email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Unknown email answers 404 while a wrong password answers 401.
			// That is a user-enumeration side channel, but clients depend on
			// the split, so it stays.
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
			s.record(domain.AuditEvent{Action: domain.AuditLoginFailed, Email: in.Email, Reason: "user not found"})
			return nil, "", domain.NotFound("User not found")
		}
		return nil, "", domain.Internal("lookup user", err)
	}

	ok, err := cryptox.VerifyPassword(in.Password, user.PasswordHash)
	if err != nil {
		return nil, "", domain.Internal("verify password", err)
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
		s.record(domain.AuditEvent{Action: domain.AuditLoginFailed, Email: in.Email, UserID: user.ID, Reason: "invalid credentials"})
		return nil, "", domain.Authentication("Invalid credentials")
	}

	token, err := s.tokens.Issue(s.loginClaims(user))
	if err != nil {
		return nil, "", domain.Internal("issue token", err)
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	s.record(domain.AuditEvent{Action: domain.AuditLoginOK, Email: user.Email, UserID: user.ID})
	return user, token, nil
}

func (s *AuthService) signupClaims(u *domain.User) jwtx.Claims {
	c := jwtx.Claims{
		RoleID:       u.RoleID,
		DepartmentID: u.DepartmentID,
	}
	c.Subject = u.ID
	return c
}

func (s *AuthService) loginClaims(u *domain.User) jwtx.Claims {
	c := s.signupClaims(u)
	c.Email = u.Email
	c.RoleName = u.RoleName
	return c
}

func (s *AuthService) record(ev domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	ev.Timestamp = time.Now().UTC()
	s.audit.Record(ev)
}

// signupValidationError renders the first failed field with the exact
// wording clients already match on.
func signupValidationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return domain.Validationf("invalid signup payload")
	}
	fe := ve[0]
	switch {
	case fe.Tag() == "required":
		return domain.Validationf("name, email, password, and roleId are required")
	case fe.Field() == "Email":
		return domain.Validationf("Invalid email format")
	case fe.Field() == "Password":
		return domain.Validationf("Password must be at least 6 characters long")
	default:
		return domain.Validationf("invalid signup payload")
	}
}

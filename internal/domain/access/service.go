// Package access implementa el gate de roles y pausa que consultan los
// entry points mutables de passes.
package access

import (
	"context"
	"errors"
	"strings"
	"time"

	"pass-breeding/internal/platform/apperr"

	"github.com/google/uuid"
)

var (
	ErrMissingRole  = apperr.New(apperr.KindAuthorization, "missing_role", "AccessControl: missing role")
	ErrPaused       = apperr.New(apperr.KindOperational, "paused", "Pausable: paused")
	ErrNotPaused    = apperr.New(apperr.KindStatePrecondition, "not_paused", "Pausable: not paused")
	ErrUnknownRole  = apperr.New(apperr.KindConfiguration, "unknown_role", "Unknown role")
	ErrInvalidInput = apperr.New(apperr.KindConfiguration, "invalid_input", "invalid input")
	ErrSelfRevoke   = apperr.New(apperr.KindConfiguration, "self_revoke", "AccessControl: admin cannot revoke itself")

	// ErrNotFound lo devuelven los repos cuando no existe la membresía.
	ErrNotFound = errors.New("grant not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Bootstrap da admin + minter a la cuenta inicial (idempotente).
func (s *Service) Bootstrap(ctx context.Context, admin string) error {
	admin = strings.TrimSpace(admin)
	if admin == "" {
		return ErrInvalidInput.WithMessage("admin account required")
	}
	for _, role := range []Role{RoleAdmin, RoleMinter} {
		if _, err := s.ensure(ctx, role, admin, admin); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) HasRole(ctx context.Context, account string, role Role) (bool, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return false, nil
	}
	_, err := s.repo.Get(ctx, role, account)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RequireRole falla con el mensaje de AccessControl si la cuenta no tiene el rol.
func (s *Service) RequireRole(ctx context.Context, account string, role Role) error {
	ok, err := s.HasRole(ctx, account, role)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMissingRole.WithMessage("AccessControl: account %s is missing role %s", strings.ToLower(account), role)
	}
	return nil
}

func (s *Service) RequireNotPaused(ctx context.Context) error {
	paused, err := s.repo.Paused(ctx)
	if err != nil {
		return err
	}
	if paused {
		return ErrPaused
	}
	return nil
}

func (s *Service) IsPaused(ctx context.Context) (bool, error) {
	return s.repo.Paused(ctx)
}

func (s *Service) Grant(ctx context.Context, caller string, role Role, account string) (Grant, error) {
	if !role.Valid() {
		return Grant{}, ErrUnknownRole
	}
	account = strings.TrimSpace(account)
	if account == "" {
		return Grant{}, ErrInvalidInput.WithMessage("account required")
	}
	if err := s.RequireRole(ctx, caller, RoleAdmin); err != nil {
		return Grant{}, err
	}
	return s.ensure(ctx, role, account, caller)
}

func (s *Service) Revoke(ctx context.Context, caller string, role Role, account string) error {
	if !role.Valid() {
		return ErrUnknownRole
	}
	account = strings.TrimSpace(account)
	if account == "" {
		return ErrInvalidInput.WithMessage("account required")
	}
	if err := s.RequireRole(ctx, caller, RoleAdmin); err != nil {
		return err
	}
	// Evita quedarse sin admin por accidente.
	if role == RoleAdmin && account == caller {
		return ErrSelfRevoke
	}

	// Idempotente
	err := s.repo.Delete(ctx, role, account)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

func (s *Service) ListMembers(ctx context.Context, role Role) ([]Grant, error) {
	if !role.Valid() {
		return nil, ErrUnknownRole
	}
	return s.repo.ListByRole(ctx, role)
}

func (s *Service) Pause(ctx context.Context, caller string) error {
	if err := s.RequireRole(ctx, caller, RoleAdmin); err != nil {
		return err
	}
	if err := s.RequireNotPaused(ctx); err != nil {
		return err
	}
	return s.repo.SetPaused(ctx, true)
}

func (s *Service) Unpause(ctx context.Context, caller string) error {
	if err := s.RequireRole(ctx, caller, RoleAdmin); err != nil {
		return err
	}
	paused, err := s.repo.Paused(ctx)
	if err != nil {
		return err
	}
	if !paused {
		return ErrNotPaused
	}
	return s.repo.SetPaused(ctx, false)
}

func (s *Service) ensure(ctx context.Context, role Role, account, grantedBy string) (Grant, error) {
	existing, err := s.repo.Get(ctx, role, account)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Grant{}, err
	}

	g := Grant{
		ID:        uuid.NewString(),
		Role:      role,
		Account:   account,
		GrantedBy: grantedBy,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return Grant{}, err
	}
	return g, nil
}

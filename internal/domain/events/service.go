package events

import (
	"context"
	"errors"
	"strings"

	"pass-breeding/internal/platform/apperr"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

var (
	ErrInvalidInput = apperr.New(apperr.KindConfiguration, "invalid_input", "invalid input")
	ErrNotFound     = apperr.New(apperr.KindInvalidReference, "event_not_found", "event not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id string) (PassEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return PassEvent{}, ErrInvalidInput
	}
	e, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return PassEvent{}, ErrNotFound
	}
	return e, err
}

func (s *Service) ListByPass(ctx context.Context, passID uint64, filter ListFilter) ([]PassEvent, error) {
	if passID == 0 {
		return nil, ErrInvalidInput.WithMessage("Id 0 is invalid")
	}
	filter, err := normalize(filter)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByPass(ctx, passID, filter)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]PassEvent, error) {
	filter, err := normalize(filter)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

func normalize(f ListFilter) (ListFilter, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	for _, t := range f.Types {
		if !t.Valid() {
			return ListFilter{}, ErrInvalidInput.WithMessage("unknown event type %q", t)
		}
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return ListFilter{}, ErrInvalidInput.WithMessage("from must be before to")
	}
	f.Actor = strings.TrimSpace(f.Actor)
	return f, nil
}

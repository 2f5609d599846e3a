package memory

import (
	"context"

	"pass-breeding/internal/domain/events"
)

type eventRepo struct {
	s *Store
}

func (r eventRepo) GetByID(ctx context.Context, id string) (events.PassEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i, ok := r.s.eventIdx[id]
	if !ok {
		return events.PassEvent{}, events.ErrNotFound
	}
	return r.s.events[i], nil
}

func (r eventRepo) ListByPass(ctx context.Context, passID uint64, filter events.ListFilter) ([]events.PassEvent, error) {
	return r.list(func(e events.PassEvent) bool {
		return e.PassID == passID && filter.Matches(e)
	}, filter.Limit), nil
}

func (r eventRepo) List(ctx context.Context, filter events.ListFilter) ([]events.PassEvent, error) {
	return r.list(filter.Matches, filter.Limit), nil
}

// list recorre del más reciente al más viejo (orden de inserción inverso).
func (r eventRepo) list(match func(events.PassEvent) bool, limit int) []events.PassEvent {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if limit <= 0 {
		limit = events.DefaultLimit
	}

	out := make([]events.PassEvent, 0)
	for i := len(r.s.events) - 1; i >= 0 && len(out) < limit; i-- {
		if match(r.s.events[i]) {
			out = append(out, r.s.events[i])
		}
	}
	return out
}

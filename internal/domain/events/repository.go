package events

import (
	"context"
	"time"
)

// Repository es el lado de lectura del log. La escritura ocurre en el mismo
// changeset que el estado de los passes (ver passes.Changeset).
type Repository interface {
	GetByID(ctx context.Context, id string) (PassEvent, error)
	ListByPass(ctx context.Context, passID uint64, filter ListFilter) ([]PassEvent, error)
	List(ctx context.Context, filter ListFilter) ([]PassEvent, error)
}

type ListFilter struct {
	Types []EventType
	Actor string
	From  *time.Time
	To    *time.Time
	Limit int
}

// Matches aplica el filtro en memoria (sin Limit).
func (f ListFilter) Matches(e PassEvent) bool {
	if len(f.Types) > 0 {
		ok := false
		for _, t := range f.Types {
			if e.Type == t {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.Actor != "" && e.Actor != f.Actor {
		return false
	}
	if f.From != nil && e.OccurredAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.OccurredAt.After(*f.To) {
		return false
	}
	return true
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pass-breeding/internal/domain/events"
)

type EventsRepo struct {
	db *sql.DB
}

var _ events.Repository = (*EventsRepo)(nil)

func (r *EventsRepo) GetByID(ctx context.Context, id string) (events.PassEvent, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return events.PassEvent{}, events.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, pass_id, type, actor, occurred_at, payload
		FROM pass_events
		WHERE id = ?
	`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return events.PassEvent{}, events.ErrNotFound
	}
	return e, err
}

func (r *EventsRepo) ListByPass(ctx context.Context, passID uint64, filter events.ListFilter) ([]events.PassEvent, error) {
	return r.list(ctx, &passID, filter)
}

func (r *EventsRepo) List(ctx context.Context, filter events.ListFilter) ([]events.PassEvent, error) {
	return r.list(ctx, nil, filter)
}

func (r *EventsRepo) list(ctx context.Context, passID *uint64, filter events.ListFilter) ([]events.PassEvent, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT id, pass_id, type, actor, occurred_at, payload FROM pass_events WHERE 1 = 1`)
	args := []any{}

	if passID != nil {
		sb.WriteString(" AND pass_id = ?")
		args = append(args, int64(*passID))
	}
	if len(filter.Types) > 0 {
		sb.WriteString(" AND type IN (?" + strings.Repeat(",?", len(filter.Types)-1) + ")")
		for _, t := range filter.Types {
			args = append(args, string(t))
		}
	}
	if filter.Actor != "" {
		sb.WriteString(" AND actor = ?")
		args = append(args, filter.Actor)
	}
	if filter.From != nil {
		sb.WriteString(" AND occurred_at >= ?")
		args = append(args, toMillis(*filter.From))
	}
	if filter.To != nil {
		sb.WriteString(" AND occurred_at <= ?")
		args = append(args, toMillis(*filter.To))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = events.DefaultLimit
	}
	if limit > events.MaxLimit {
		limit = events.MaxLimit
	}
	sb.WriteString(" ORDER BY seq DESC LIMIT ?")
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.PassEvent, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEvent(row rowScanner) (events.PassEvent, error) {
	var (
		e          events.PassEvent
		passID, at int64
		typ        string
		payload    string
	)
	if err := row.Scan(&e.ID, &passID, &typ, &e.Actor, &at, &payload); err != nil {
		return events.PassEvent{}, err
	}
	e.PassID = uint64(passID)
	e.Type = events.EventType(typ)
	e.OccurredAt = fromMillis(at)
	e.Payload = []byte(payload)
	return e, nil
}

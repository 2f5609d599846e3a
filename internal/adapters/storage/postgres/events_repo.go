package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pass-breeding/internal/domain/events"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
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
		WHERE id = $1
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
	sb.WriteString(`
		SELECT id, pass_id, type, actor, occurred_at, payload
		FROM pass_events
		WHERE TRUE
	`)

	args := []any{}
	argN := 1

	if passID != nil {
		sb.WriteString(fmt.Sprintf(" AND pass_id = $%d", argN))
		args = append(args, int64(*passID))
		argN++
	}

	if len(filter.Types) > 0 {
		placeholders := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, string(t))
			argN++
		}
		sb.WriteString(" AND type IN (" + strings.Join(placeholders, ",") + ")")
	}

	if filter.Actor != "" {
		sb.WriteString(fmt.Sprintf(" AND actor = $%d", argN))
		args = append(args, filter.Actor)
		argN++
	}
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = events.DefaultLimit
	}
	if limit > events.MaxLimit {
		limit = events.MaxLimit
	}

	sb.WriteString(" ORDER BY seq DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
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
		e       events.PassEvent
		passID  int64
		typ     string
		payload []byte
	)
	if err := row.Scan(&e.ID, &passID, &typ, &e.Actor, &e.OccurredAt, &payload); err != nil {
		return events.PassEvent{}, err
	}
	e.PassID = uint64(passID)
	e.Type = events.EventType(typ)
	e.OccurredAt = e.OccurredAt.UTC()
	e.Payload = payload
	return e, nil
}

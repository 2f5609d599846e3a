package events

import (
	"encoding/json"
	"fmt"

	"pass-breeding/internal/domain/events/details"
)

// Details decodifica el payload al tipo de details correspondiente.
func (e PassEvent) Details() (any, error) {
	var v any
	switch e.Type {
	case EventTypeBirth:
		v = &details.Birth{}
	case EventTypePregnant:
		v = &details.Pregnancy{}
	case EventTypeSiringApproved:
		v = &details.SiringApproval{}
	case EventTypeTransfer:
		v = &details.Transfer{}
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return v, nil
}

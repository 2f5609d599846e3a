package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PassEvent es una entrada del log de ciclo de vida de un pass.
// PassID es el pass principal del evento (hijo en BIRTH, matrona en PREGNANT,
// sire en SIRING_APPROVED, el token en TRANSFER).
type PassEvent struct {
	ID     string
	PassID uint64

	Type EventType

	Actor      string
	OccurredAt time.Time

	// Payload JSON según Type (ver details).
	Payload json.RawMessage
}

// New arma un evento con ID nuevo y payload serializado.
func New(typ EventType, passID uint64, actor string, at time.Time, payload any) (PassEvent, error) {
	if !typ.Valid() {
		return PassEvent{}, fmt.Errorf("unknown event type %q", typ)
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return PassEvent{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	return PassEvent{
		ID:         uuid.NewString(),
		PassID:     passID,
		Type:       typ,
		Actor:      actor,
		OccurredAt: at,
		Payload:    b,
	}, nil
}

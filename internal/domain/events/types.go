package events

type EventType string

const (
	EventTypeBirth          EventType = "BIRTH"
	EventTypePregnant       EventType = "PREGNANT"
	EventTypeSiringApproved EventType = "SIRING_APPROVED"
	EventTypeTransfer       EventType = "TRANSFER"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeBirth, EventTypePregnant, EventTypeSiringApproved, EventTypeTransfer:
		return true
	default:
		return false
	}
}

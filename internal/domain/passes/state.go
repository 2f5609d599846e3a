package passes

import "time"

// State es el estado de cría derivado de los campos del pass.
type State string

const (
	StateAvailable   State = "available"
	StateCoolingDown State = "cooling_down"
	StatePregnant    State = "pregnant"
	StateExhausted   State = "exhausted"
)

// StateOf deriva el estado. Precedencia: preñada, agotado, cooldown, disponible.
// Un pass con CooldownIndex >= maxBreedTimes queda agotado aunque la tabla se haya achicado.
func StateOf(p Pass, now time.Time, maxBreedTimes int) State {
	switch {
	case p.SiringWithID != 0:
		return StatePregnant
	case maxBreedTimes < 0 || int64(p.CooldownIndex) >= int64(maxBreedTimes):
		return StateExhausted
	case now.Before(p.CooldownEndTime):
		return StateCoolingDown
	default:
		return StateAvailable
	}
}

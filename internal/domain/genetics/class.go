package genetics

import "pass-breeding/internal/platform/apperr"

// Class es el tier de rareza del pass.
// @Enum 0, 1, 2
type Class uint8

const (
	ClassBronze Class = 0
	ClassSilver Class = 1
	ClassGold   Class = 2

	ClassCount = 3
)

var ErrInvalidClass = apperr.New(apperr.KindConfiguration, "invalid_class", "Invalid class")

func (c Class) Valid() bool {
	return c < ClassCount
}

func (c Class) String() string {
	switch c {
	case ClassBronze:
		return "bronze"
	case ClassSilver:
		return "silver"
	case ClassGold:
		return "gold"
	default:
		return "unknown"
	}
}

// ParseClass valida un entero recibido por API.
func ParseClass(v int) (Class, error) {
	if v < 0 || v >= ClassCount {
		return 0, ErrInvalidClass.WithMessage("class %d must be < %d", v, ClassCount)
	}
	return Class(v), nil
}

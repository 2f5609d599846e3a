// Package schedule mantiene las tablas de cooldown y fees por tier de cría.
//
// El tier i aplica a un pass cuyo cooldownIndex es i (antes de criar).
package schedule

import (
	"math/big"
	"time"

	"pass-breeding/internal/platform/apperr"
)

const Day = 24 * time.Hour

var (
	ErrOutOfBounds   = apperr.New(apperr.KindConfiguration, "out_of_bounds", "Out of bounds")
	ErrCooldownIndex = apperr.New(apperr.KindConfiguration, "cooldown_index", "Idx must be < maxBreedTimes")
	ErrInvalidValue  = apperr.New(apperr.KindConfiguration, "invalid_value", "Invalid value")
)

// Ether convierte unidades enteras a wei (18 decimales).
func Ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000_000))
}

// Tier es una fila de la tabla.
type Tier struct {
	Cooldown time.Duration
	FeeA     *big.Int
	FeeB     *big.Int
}

func (t Tier) clone() Tier {
	return Tier{
		Cooldown: t.Cooldown,
		FeeA:     new(big.Int).Set(t.FeeA),
		FeeB:     new(big.Int).Set(t.FeeB),
	}
}

// Schedule no es thread-safe; su dueño (passes.Service) serializa el acceso.
type Schedule struct {
	tiers []Tier
}

// Default arma la tabla inicial de 3 tiers.
func Default() *Schedule {
	return &Schedule{tiers: []Tier{
		{Cooldown: 1 * Day, FeeA: Ether(20), FeeB: Ether(400)},
		{Cooldown: 3 * Day, FeeA: Ether(20), FeeB: Ether(2000)},
		{Cooldown: 5 * Day, FeeA: Ether(20), FeeB: Ether(3200)},
	}}
}

// New arma una tabla a partir de tiers ya cargados (p. ej. desde storage).
func New(tiers []Tier) (*Schedule, error) {
	if len(tiers) < 1 {
		return nil, ErrInvalidValue.WithMessage("maxBreedTimes must be >= 1, got %d", len(tiers))
	}
	out := make([]Tier, 0, len(tiers))
	for i, t := range tiers {
		if t.Cooldown < 0 {
			return nil, ErrInvalidValue.WithMessage("tier %d: cooldown must be non-negative", i)
		}
		if t.FeeA == nil || t.FeeB == nil || t.FeeA.Sign() < 0 || t.FeeB.Sign() < 0 {
			return nil, ErrInvalidValue.WithMessage("tier %d: fees must be non-negative", i)
		}
		out = append(out, t.clone())
	}
	return &Schedule{tiers: out}, nil
}

// DefaultTier es la progresión usada al agrandar la tabla.
func DefaultTier(idx int) Tier {
	return Tier{
		Cooldown: time.Duration(2*idx+1) * Day,
		FeeA:     Ether(int64(10 * (idx + 1))),
		FeeB:     Ether(10000),
	}
}

func (s *Schedule) MaxBreedTimes() int {
	return len(s.tiers)
}

func (s *Schedule) Tier(idx int) (Tier, error) {
	if idx < 0 || idx >= len(s.tiers) {
		return Tier{}, ErrOutOfBounds.WithMessage("Out of bounds: tier %d, maxBreedTimes %d", idx, len(s.tiers))
	}
	return s.tiers[idx].clone(), nil
}

func (s *Schedule) CooldownDuration(idx int) (time.Duration, error) {
	t, err := s.Tier(idx)
	if err != nil {
		return 0, err
	}
	return t.Cooldown, nil
}

func (s *Schedule) FeeA(idx int) (*big.Int, error) {
	t, err := s.Tier(idx)
	if err != nil {
		return nil, err
	}
	return t.FeeA, nil
}

func (s *Schedule) FeeB(idx int) (*big.Int, error) {
	t, err := s.Tier(idx)
	if err != nil {
		return nil, err
	}
	return t.FeeB, nil
}

// Tiers devuelve una copia de la tabla completa.
func (s *Schedule) Tiers() []Tier {
	out := make([]Tier, 0, len(s.tiers))
	for _, t := range s.tiers {
		out = append(out, t.clone())
	}
	return out
}

func (s *Schedule) Clone() *Schedule {
	return &Schedule{tiers: s.Tiers()}
}

// SetMaxBreedTimes cambia el largo de la tabla.
// Los tiers existentes por debajo de n se conservan; los nuevos usan DefaultTier.
func (s *Schedule) SetMaxBreedTimes(n int) error {
	if n < 1 {
		return ErrInvalidValue.WithMessage("maxBreedTimes must be >= 1, got %d", n)
	}
	if n <= len(s.tiers) {
		s.tiers = s.tiers[:n:n]
		return nil
	}
	for i := len(s.tiers); i < n; i++ {
		s.tiers = append(s.tiers, DefaultTier(i))
	}
	return nil
}

// SetFees pisa los fees de un tier.
func (s *Schedule) SetFees(idx int, feeA, feeB *big.Int) error {
	if idx < 0 || idx >= len(s.tiers) {
		return ErrOutOfBounds
	}
	if feeA == nil || feeB == nil || feeA.Sign() < 0 || feeB.Sign() < 0 {
		return ErrInvalidValue.WithMessage("fees must be non-negative")
	}
	s.tiers[idx].FeeA = new(big.Int).Set(feeA)
	s.tiers[idx].FeeB = new(big.Int).Set(feeB)
	return nil
}

// SetCooldown pisa la duración de un tier.
func (s *Schedule) SetCooldown(idx int, d time.Duration) error {
	if idx < 0 || idx >= len(s.tiers) {
		return ErrCooldownIndex
	}
	if d < 0 {
		return ErrInvalidValue.WithMessage("cooldown must be non-negative")
	}
	s.tiers[idx].Cooldown = d
	return nil
}

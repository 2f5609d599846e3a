package passes

import (
	"time"

	"pass-breeding/internal/domain/genetics"
)

// PassID es positivo y se asigna en orden desde 1. 0 = "sin padre" / inválido.
type PassID uint64

// Channel registra cómo se creó el pass; cada cap cuenta solo su canal.
// @Enum genesis, launchpad, birth
type Channel string

const (
	ChannelGenesis   Channel = "genesis"
	ChannelLaunchpad Channel = "launchpad"
	ChannelBirth     Channel = "birth"
)

// Pass es el token coleccionable con su estado de cría.
//
// Inmutables desde la creación: ID, Genes, MatronID, SireID, SingerID, Class,
// Generation, BirthTime, Channel. Mutan solo CooldownIndex, CooldownEndTime y SiringWithID.
type Pass struct {
	ID PassID

	Genes    genetics.Genes
	MatronID PassID
	SireID   PassID
	SingerID uint32
	Class    genetics.Class

	Generation uint32

	CooldownIndex   uint32
	CooldownEndTime time.Time

	// SiringWithID != 0 marca a la matrona como preñada de ese sire.
	SiringWithID PassID

	BirthTime time.Time
	Channel   Channel
}

func (p Pass) IsPregnant() bool {
	return p.SiringWithID != 0
}

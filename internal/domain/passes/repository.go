package passes

import (
	"context"
	"errors"

	"pass-breeding/internal/domain/events"
)

// ErrNotFound lo devuelven los stores cuando el pass no existe.
var ErrNotFound = errors.New("pass not found")

// ErrNoSettings lo devuelve SettingsRepository cuando todavía no se guardó nada.
var ErrNoSettings = errors.New("settings not stored")

// SettingsRepository guarda el documento de Settings (ver EncodeSettings).
// Hay un único documento; SaveSettings lo reemplaza.
type SettingsRepository interface {
	LoadSettings(ctx context.Context) ([]byte, error)
	SaveSettings(ctx context.Context, doc []byte) error
}

// Repository guarda los passes. Los cambios entran solo por Apply.
type Repository interface {
	GetByID(ctx context.Context, id PassID) (Pass, error)
	Count(ctx context.Context) (uint64, error)
	CountByChannel(ctx context.Context, ch Channel) (uint64, error)

	// SiringApproval devuelve la cuenta aprobada para usar sireID ("" si no hay).
	SiringApproval(ctx context.Context, sireID PassID) (string, error)

	// Apply aplica el changeset completo o nada.
	Apply(ctx context.Context, cs Changeset) error
}

// Registry es el registro de ownership/enumeración.
type Registry interface {
	OwnerOf(ctx context.Context, id PassID) (string, error)
	TokensOf(ctx context.Context, owner string) ([]PassID, error)
}

// Store junta ambos; los adapters los implementan sobre el mismo almacenamiento
// para que mint + owner + eventos se confirmen juntos.
type Store interface {
	Repository
	Registry
}

type Minted struct {
	Pass  Pass
	Owner string
}

type Transfer struct {
	ID   PassID
	From string
	To   string
}

// Approval con Grantee vacío borra la aprobación.
type Approval struct {
	SireID  PassID
	Grantee string
}

type Changeset struct {
	Minted    []Minted
	Updated   []Pass
	Transfers []Transfer
	Approvals []Approval
	Events    []events.PassEvent
}

func (cs Changeset) Empty() bool {
	return len(cs.Minted) == 0 && len(cs.Updated) == 0 && len(cs.Transfers) == 0 &&
		len(cs.Approvals) == 0 && len(cs.Events) == 0
}

// Package details define los payloads tipados de cada tipo de evento.
package details

import (
	"pass-breeding/internal/domain/genetics"
)

type Birth struct {
	Owner    string         `json:"owner"`
	ID       uint64         `json:"id"`
	MatronID uint64         `json:"matron_id"`
	SireID   uint64         `json:"sire_id"`
	SingerID uint32         `json:"singer_id"`
	Genes    genetics.Genes `json:"genes"`
	Class    genetics.Class `json:"class"`
}

type Pregnancy struct {
	Owner    string `json:"owner"`
	MatronID uint64 `json:"matron_id"`
	SireID   uint64 `json:"sire_id"`
}

type SiringApproval struct {
	Owner   string `json:"owner"`
	SireID  uint64 `json:"sire_id"`
	Grantee string `json:"grantee"` // "" = aprobación retirada
}

// Transfer con From vacío es un mint.
type Transfer struct {
	From string `json:"from"`
	To   string `json:"to"`
	ID   uint64 `json:"id"`
}

// Package genetics empaqueta los traits de un pass y los mezcla al criar.
//
// Internamente se trabaja con Traits (array fijo); Genes es solo la forma
// serializada (5 bits por slot, slot 0 en los bits menos significativos).
package genetics

import (
	"pass-breeding/internal/platform/apperr"
)

const (
	TraitCount = 7
	TraitBits  = 5
	MaxTrait   = 1<<TraitBits - 1

	// BaseTraitMax es el mayor trait asignable sin mezcla; los ascendidos empiezan en AscendedBase.
	BaseTraitMax = 3
	AscendedBase = 4

	genesBits = TraitCount * TraitBits
)

var (
	ErrTraitOverflow = apperr.New(apperr.KindConfiguration, "trait_overflow", "trait does not fit in 5 bits")
	ErrGenesOverflow = apperr.New(apperr.KindConfiguration, "genes_overflow", "genes use more than 35 bits")
)

// Traits son los 7 slots en orden (slot 0 primero).
type Traits [TraitCount]uint8

// Genes es la representación empaquetada de Traits.
type Genes uint64

// Encode empaqueta traits; falla si alguno no entra en su campo.
func Encode(t Traits) (Genes, error) {
	var g Genes
	for i := TraitCount - 1; i >= 0; i-- {
		if t[i] > MaxTrait {
			return 0, ErrTraitOverflow.WithMessage("trait %d at slot %d does not fit in %d bits", t[i], i, TraitBits)
		}
		g = g<<TraitBits | Genes(t[i])
	}
	return g, nil
}

// Decode es la inversa exacta de Encode.
func Decode(g Genes) (Traits, error) {
	if !g.Valid() {
		return Traits{}, ErrGenesOverflow
	}
	var t Traits
	for i := 0; i < TraitCount; i++ {
		t[i] = uint8(g >> (i * TraitBits) & MaxTrait)
	}
	return t, nil
}

// MustEncode es para valores constantes (tests / seeds); hace panic si no encaja.
func MustEncode(t Traits) Genes {
	g, err := Encode(t)
	if err != nil {
		panic(err)
	}
	return g
}

func (g Genes) Valid() bool {
	return g>>genesBits == 0
}

// Traits decodifica ignorando el error (solo para genes ya validados).
func (g Genes) Traits() Traits {
	t, _ := Decode(g)
	return t
}

package schedule

import "pass-breeding/internal/domain/genetics"

// ClassRates son las probabilidades (en %) de clase del hijo.
//
// Same[p][c]: padres de clase p, probabilidad de que el hijo sea clase c (c != p).
// El resto hasta 100 queda en la clase de los padres.
// Diff[m][s]: padres de clases distintas, probabilidad de heredar la clase de la matrona.
type ClassRates struct {
	Same [genetics.ClassCount][genetics.ClassCount]uint8
	Diff [genetics.ClassCount][genetics.ClassCount]uint8
}

func DefaultClassRates() ClassRates {
	var r ClassRates
	for m := 0; m < genetics.ClassCount; m++ {
		for s := 0; s < genetics.ClassCount; s++ {
			if m != s {
				r.Diff[m][s] = 50
			}
		}
	}
	return r
}

// SetSame actualiza Same[parent][child]; la fila no puede pasar de 100.
func (r *ClassRates) SetSame(parent, child genetics.Class, rate uint8) error {
	if !parent.Valid() || !child.Valid() {
		return genetics.ErrInvalidClass
	}
	if parent == child {
		return ErrInvalidValue.WithMessage("same class rate for %s is the remainder of its row", parent)
	}
	if rate > 100 {
		return ErrInvalidValue.WithMessage("rate %d must be <= 100", rate)
	}

	sum := 0
	for c := genetics.Class(0); c < genetics.ClassCount; c++ {
		if c == parent || c == child {
			continue
		}
		sum += int(r.Same[parent][c])
	}
	if sum+int(rate) > 100 {
		return ErrInvalidValue.WithMessage("same class rates for %s sum above 100", parent)
	}
	r.Same[parent][child] = rate
	return nil
}

// SetDiff actualiza Diff[matron][sire].
func (r *ClassRates) SetDiff(matron, sire genetics.Class, rate uint8) error {
	if !matron.Valid() || !sire.Valid() {
		return genetics.ErrInvalidClass
	}
	if matron == sire {
		return ErrInvalidValue.WithMessage("diff class rate needs two different classes")
	}
	if rate > 100 {
		return ErrInvalidValue.WithMessage("rate %d must be <= 100", rate)
	}
	r.Diff[matron][sire] = rate
	return nil
}

// ChildClass elige la clase del hijo con un draw uniforme.
func (r ClassRates) ChildClass(matron, sire genetics.Class, draw uint64) genetics.Class {
	roll := uint8(draw % 100)

	if matron != sire {
		if roll < r.Diff[matron][sire] {
			return matron
		}
		return sire
	}

	var acc uint8
	for c := genetics.Class(0); c < genetics.ClassCount; c++ {
		if c == matron {
			continue
		}
		acc += r.Same[matron][c]
		if roll < acc {
			return c
		}
	}
	return matron
}

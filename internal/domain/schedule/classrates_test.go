package schedule

import (
	"errors"
	"testing"

	"pass-breeding/internal/domain/genetics"
)

func TestChildClass_Defaults(t *testing.T) {
	r := DefaultClassRates()

	for draw := uint64(0); draw < 100; draw++ {
		if got := r.ChildClass(genetics.ClassSilver, genetics.ClassSilver, draw); got != genetics.ClassSilver {
			t.Fatalf("draw %d: expected silver from silver parents, got %s", draw, got)
		}
	}

	if got := r.ChildClass(genetics.ClassBronze, genetics.ClassGold, 49); got != genetics.ClassBronze {
		t.Fatalf("expected matron class below 50, got %s", got)
	}
	if got := r.ChildClass(genetics.ClassBronze, genetics.ClassGold, 50); got != genetics.ClassGold {
		t.Fatalf("expected sire class from 50, got %s", got)
	}
}

func TestChildClass_SameClassUpgrade(t *testing.T) {
	r := DefaultClassRates()
	if err := r.SetSame(genetics.ClassSilver, genetics.ClassGold, 70); err != nil {
		t.Fatalf("SetSame error: %v", err)
	}
	if r.Same[genetics.ClassSilver][genetics.ClassGold] != 70 {
		t.Fatalf("expected stored rate 70")
	}

	if got := r.ChildClass(genetics.ClassSilver, genetics.ClassSilver, 69); got != genetics.ClassGold {
		t.Fatalf("expected gold under 70, got %s", got)
	}
	if got := r.ChildClass(genetics.ClassSilver, genetics.ClassSilver, 170); got != genetics.ClassSilver {
		t.Fatalf("expected silver from 70, got %s", got)
	}
}

func TestSetSame_Validation(t *testing.T) {
	r := DefaultClassRates()
	if err := r.SetSame(3, 0, 10); !errors.Is(err, genetics.ErrInvalidClass) {
		t.Fatalf("expected ErrInvalidClass, got %v", err)
	}
	if err := r.SetSame(1, 1, 10); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for diagonal, got %v", err)
	}
	if err := r.SetSame(0, 1, 60); err != nil {
		t.Fatalf("SetSame error: %v", err)
	}
	if err := r.SetSame(0, 2, 50); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected row sum above 100 to fail, got %v", err)
	}
}

func TestSetDiff(t *testing.T) {
	r := DefaultClassRates()
	if err := r.SetDiff(genetics.ClassBronze, genetics.ClassSilver, 65); err != nil {
		t.Fatalf("SetDiff error: %v", err)
	}
	if got := r.ChildClass(genetics.ClassBronze, genetics.ClassSilver, 64); got != genetics.ClassBronze {
		t.Fatalf("expected bronze under 65, got %s", got)
	}
	if err := r.SetDiff(genetics.ClassBronze, genetics.ClassSilver, 101); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

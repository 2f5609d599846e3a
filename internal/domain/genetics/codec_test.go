package genetics

import (
	"errors"
	"math/rand"
	"testing"
)

func TestEncode_PacksSlotZeroFirst(t *testing.T) {
	g, err := Encode(Traits{1, 2, 3, 0, 0, 0, 0})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	want := Genes(1 | 2<<5 | 3<<10)
	if g != want {
		t.Fatalf("expected %d, got %d", want, g)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 500; n++ {
		var tr Traits
		for i := range tr {
			tr[i] = uint8(rng.Intn(MaxTrait + 1))
		}

		g, err := Encode(tr)
		if err != nil {
			t.Fatalf("Encode(%v) error: %v", tr, err)
		}
		got, err := Decode(g)
		if err != nil {
			t.Fatalf("Decode(%d) error: %v", g, err)
		}
		if got != tr {
			t.Fatalf("round trip mismatch: %v -> %d -> %v", tr, g, got)
		}
	}
}

func TestEncode_RejectsOverflowingTrait(t *testing.T) {
	_, err := Encode(Traits{0, 0, 0, 32, 0, 0, 0})
	if !errors.Is(err, ErrTraitOverflow) {
		t.Fatalf("expected ErrTraitOverflow, got %v", err)
	}
}

func TestDecode_RejectsBitsAboveLastSlot(t *testing.T) {
	_, err := Decode(Genes(1) << 35)
	if !errors.Is(err, ErrGenesOverflow) {
		t.Fatalf("expected ErrGenesOverflow, got %v", err)
	}

	max := MustEncode(Traits{31, 31, 31, 31, 31, 31, 31})
	if !max.Valid() {
		t.Fatalf("expected all-ones genes to be valid")
	}
}

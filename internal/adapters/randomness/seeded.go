// Package randomness implementa las fuentes de aleatoriedad del breeding.
package randomness

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"math/big"
	"sync"

	"golang.org/x/crypto/sha3"

	"pass-breeding/internal/ports/randomness"
)

// Seeded es determinista: keccak256(seed || counter). Solo para dev y tests.
type Seeded struct {
	mu      sync.Mutex
	seed    uint64
	counter uint64
}

func NewSeeded(seed uint64) *Seeded {
	return &Seeded{seed: seed}
}

var _ randomness.Source = (*Seeded)(nil)

func (s *Seeded) Random(_ context.Context) (*big.Int, error) {
	s.mu.Lock()
	n := s.counter
	s.counter++
	s.mu.Unlock()

	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], s.seed)
	binary.BigEndian.PutUint64(buf[8:], n)

	h := sha3.NewLegacyKeccak256()
	h.Write(buf[:])
	return new(big.Int).SetBytes(h.Sum(nil)), nil
}

// Crypto lee 32 bytes de crypto/rand.
type Crypto struct{}

var _ randomness.Source = Crypto{}

func (Crypto) Random(ctx context.Context) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(buf[:]), nil
}

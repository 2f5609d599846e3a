package randomness

import (
	"context"
	"math/big"
)

// Source entrega un entero de 256 bits por llamada.
// Debe ser impredecible en producción y reproducible en tests (seed inyectable).
type Source interface {
	Random(ctx context.Context) (*big.Int, error)
}

// Resolver construye un Source a partir del identificador configurado
// (ej: "crypto", "seeded:42", "https://random.example.com").
type Resolver func(id string) (Source, error)

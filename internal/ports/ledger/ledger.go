package ledger

import (
	"context"
	"math/big"
)

// FeeTransfer mueve dos montos (uno por token) del pagador a la tesorería.
type FeeTransfer struct {
	Payer    string
	Treasury string

	TokenA  string
	AmountA *big.Int

	TokenB  string
	AmountB *big.Int
}

// Reverse arma la transferencia inversa (compensación).
func (t FeeTransfer) Reverse() FeeTransfer {
	return FeeTransfer{
		Payer:    t.Treasury,
		Treasury: t.Payer,
		TokenA:   t.TokenA,
		AmountA:  t.AmountA,
		TokenB:   t.TokenB,
		AmountB:  t.AmountB,
	}
}

// Ledger aplica la transferencia completa o ninguna parte.
type Ledger interface {
	TransferFee(ctx context.Context, t FeeTransfer) error
}

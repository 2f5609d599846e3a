// Package memory es un ledger de saldos por token en memoria (dev y tests).
package memory

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"pass-breeding/internal/ports/ledger"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidTransfer     = errors.New("invalid transfer")
)

type balanceKey struct {
	token   string
	account string
}

type Ledger struct {
	mu       sync.RWMutex
	balances map[balanceKey]*big.Int
}

func NewLedger() *Ledger {
	return &Ledger{balances: map[balanceKey]*big.Int{}}
}

var _ ledger.Ledger = (*Ledger)(nil)

// Credit suma amount al saldo de account en token.
func (l *Ledger) Credit(token, account string, amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	k := balanceKey{token: token, account: account}
	cur := l.balanceLocked(k)
	l.balances[k] = new(big.Int).Add(cur, amount)
}

func (l *Ledger) Balance(token, account string) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return new(big.Int).Set(l.balanceLocked(balanceKey{token: token, account: account}))
}

func (l *Ledger) balanceLocked(k balanceKey) *big.Int {
	if b, ok := l.balances[k]; ok {
		return b
	}
	return new(big.Int)
}

// TransferFee mueve ambos montos o ninguno.
func (l *Ledger) TransferFee(ctx context.Context, t ledger.FeeTransfer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Payer) == "" || strings.TrimSpace(t.Treasury) == "" {
		return fmt.Errorf("%w: payer and treasury are required", ErrInvalidTransfer)
	}

	// Si ambos tokens son el mismo, el saldo tiene que cubrir la suma.
	need := map[string]*big.Int{}
	for _, leg := range []struct {
		token  string
		amount *big.Int
	}{{t.TokenA, t.AmountA}, {t.TokenB, t.AmountB}} {
		if leg.amount == nil || leg.amount.Sign() == 0 {
			continue
		}
		if leg.amount.Sign() < 0 || strings.TrimSpace(leg.token) == "" {
			return fmt.Errorf("%w: bad leg for token %q", ErrInvalidTransfer, leg.token)
		}
		cur, ok := need[leg.token]
		if !ok {
			cur = new(big.Int)
		}
		need[leg.token] = new(big.Int).Add(cur, leg.amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for token, amount := range need {
		have := l.balanceLocked(balanceKey{token: token, account: t.Payer})
		if have.Cmp(amount) < 0 {
			return fmt.Errorf("%w: %s has %s %s, needs %s", ErrInsufficientBalance, t.Payer, have, token, amount)
		}
	}
	for token, amount := range need {
		from := balanceKey{token: token, account: t.Payer}
		to := balanceKey{token: token, account: t.Treasury}
		l.balances[from] = new(big.Int).Sub(l.balanceLocked(from), amount)
		l.balances[to] = new(big.Int).Add(l.balanceLocked(to), amount)
	}
	return nil
}

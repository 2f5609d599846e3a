package memory

import (
	"fmt"
	"math/big"
	"strings"
)

// Seed es un saldo inicial.
type Seed struct {
	Token   string
	Account string
	Amount  *big.Int
}

// ParseSeeds lee entradas "token:account:amount" (amount en unidades base, decimal).
// La cuenta puede contener ':'; token es lo anterior al primero y amount lo posterior al último.
func ParseSeeds(entries []string) ([]Seed, error) {
	out := make([]Seed, 0, len(entries))
	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		first := strings.Index(entry, ":")
		last := strings.LastIndex(entry, ":")
		if first <= 0 || last == first {
			return nil, fmt.Errorf("ledger seed %q: want token:account:amount", entry)
		}
		token := entry[:first]
		account := strings.TrimSpace(entry[first+1 : last])
		amount, ok := new(big.Int).SetString(strings.TrimSpace(entry[last+1:]), 10)
		if account == "" || !ok || amount.Sign() <= 0 {
			return nil, fmt.Errorf("ledger seed %q: want a non-empty account and a positive amount", entry)
		}
		out = append(out, Seed{Token: strings.TrimSpace(token), Account: account, Amount: amount})
	}
	return out, nil
}

// Fund acredita cada seed.
func (l *Ledger) Fund(seeds []Seed) {
	for _, s := range seeds {
		l.Credit(s.Token, s.Account, s.Amount)
	}
}

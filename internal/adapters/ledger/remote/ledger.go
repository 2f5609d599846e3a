// Package remote delega el cobro de fees a un servicio de pagos externo.
package remote

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"pass-breeding/internal/platform/httpclient"
	"pass-breeding/internal/ports/ledger"
)

const transferPath = "/v1/fee-transfers"

var (
	ErrNotConfigured = errors.New("ledger client not configured")
	ErrRejected      = errors.New("fee transfer rejected")
)

type Ledger struct {
	client *httpclient.Client
}

func NewLedger(client *httpclient.Client) *Ledger {
	return &Ledger{client: client}
}

var _ ledger.Ledger = (*Ledger)(nil)

type legRequest struct {
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

type transferRequest struct {
	Payer    string       `json:"payer"`
	Treasury string       `json:"treasury"`
	Legs     []legRequest `json:"legs"`
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// TransferFee manda ambas patas en un único request; el servicio las aplica atómicamente.
func (l *Ledger) TransferFee(ctx context.Context, t ledger.FeeTransfer) error {
	if l == nil || !l.client.IsConfigured() {
		return ErrNotConfigured
	}
	req := transferRequest{
		Payer:    t.Payer,
		Treasury: t.Treasury,
		Legs: []legRequest{
			{Token: t.TokenA, Amount: amountString(t.AmountA)},
			{Token: t.TokenB, Amount: amountString(t.AmountB)},
		},
	}

	err := l.client.DoJSON(ctx, http.MethodPost, transferPath, nil, req, nil)
	switch code := httpclient.StatusCode(err); {
	case err == nil:
		return nil
	case code == http.StatusPaymentRequired || code == http.StatusConflict || code == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %v", ErrRejected, err)
	default:
		return fmt.Errorf("fee transfer: %w", err)
	}
}

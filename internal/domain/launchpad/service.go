// Package launchpad es el canal externo de venta: cada compra mintea un lote de
// passes de launchpad a nombre del comprador.
package launchpad

import (
	"context"
	"strings"

	"pass-breeding/internal/domain/passes"
	"pass-breeding/internal/platform/apperr"
	"pass-breeding/internal/platform/logger"
)

var ErrInvalidInput = apperr.New(apperr.KindConfiguration, "invalid_purchase", "invalid purchase")

// Minter es el subconjunto de passes.Service que usa el launchpad.
type Minter interface {
	MintBatch(ctx context.Context, caller, to string, count int) ([]passes.Pass, error)
}

type Service struct {
	minter  Minter
	account string

	// maxPerPurchase = 0 no limita el tamaño del lote.
	maxPerPurchase int

	log logger.Logger
}

func NewService(minter Minter, account string, maxPerPurchase int, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		minter:         minter,
		account:        strings.TrimSpace(account),
		maxPerPurchase: maxPerPurchase,
		log:            log.With(map[string]any{"component": "launchpad"}),
	}
}

// Purchase mintea count passes para buyer actuando como la cuenta de launchpad.
func (s *Service) Purchase(ctx context.Context, buyer string, count int) ([]passes.Pass, error) {
	buyer = strings.TrimSpace(buyer)
	if buyer == "" {
		return nil, ErrInvalidInput.WithMessage("buyer is required")
	}
	if count < 1 {
		return nil, ErrInvalidInput.WithMessage("count must be >= 1")
	}
	if s.maxPerPurchase > 0 && count > s.maxPerPurchase {
		return nil, ErrInvalidInput.WithMessage("count must be <= %d", s.maxPerPurchase)
	}

	out, err := s.minter.MintBatch(ctx, s.account, buyer, count)
	if err != nil {
		s.log.Debug("purchase rejected", map[string]any{"buyer": buyer, "count": count, "err": err.Error()})
		return nil, err
	}

	s.log.Info("purchase completed", map[string]any{"buyer": buyer, "count": count, "first_id": out[0].ID})
	return out, nil
}

func (s *Service) Account() string {
	return s.account
}

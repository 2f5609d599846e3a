package passes

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"time"

	"pass-breeding/internal/domain/access"
	"pass-breeding/internal/domain/genetics"
	"pass-breeding/internal/ports/randomness"
)

// update aplica fn sobre una copia de Settings, la guarda y recién ahí la publica.
func (s *Service) update(ctx context.Context, caller, op string, fn func(*Settings) error) error {
	return s.updateThen(ctx, caller, op, fn, nil)
}

// updateThen corre commit con s.mu tomado, solo si la copia quedó guardada.
func (s *Service) updateThen(ctx context.Context, caller, op string, fn func(*Settings) error, commit func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gate.RequireRole(ctx, caller, access.RoleAdmin); err != nil {
		s.log.Debug("admin update rejected", map[string]any{"op": op, "caller": caller, "err": err.Error()})
		return err
	}
	next := s.settings.clone()
	if err := fn(&next); err != nil {
		s.log.Debug("admin update rejected", map[string]any{"op": op, "caller": caller, "err": err.Error()})
		return err
	}
	if err := s.saveSettings(ctx, next); err != nil {
		s.log.Error("settings not saved", map[string]any{"op": op, "caller": caller, "err": err.Error()})
		return ErrStorage.Wrap(err)
	}
	s.settings = next
	if commit != nil {
		commit()
	}
	s.log.Info("settings updated", map[string]any{"op": op, "caller": caller})
	return nil
}

func (s *Service) saveSettings(ctx context.Context, st Settings) error {
	if s.settingsRepo == nil {
		return nil
	}
	doc, err := EncodeSettings(st)
	if err != nil {
		return err
	}
	return s.settingsRepo.SaveSettings(ctx, doc)
}

// LoadSettings reemplaza la configuración inicial por la guardada. Si no hay
// nada guardado, la inicial queda como primer documento.
func (s *Service) LoadSettings(ctx context.Context) error {
	if s.settingsRepo == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.settingsRepo.LoadSettings(ctx)
	if errors.Is(err, ErrNoSettings) {
		if err := s.saveSettings(ctx, s.settings); err != nil {
			return ErrStorage.Wrap(err)
		}
		s.log.Info("settings seeded", nil)
		return nil
	}
	if err != nil {
		return ErrStorage.Wrap(err)
	}
	stored, err := DecodeSettings(doc)
	if err != nil {
		return ErrStorage.Wrap(err)
	}

	if stored.RandomService != s.settings.RandomService && stored.RandomService != "" && s.resolveRandom != nil {
		src, err := s.resolveRandom(stored.RandomService)
		if err != nil {
			return ErrRandomServiceBad.Wrap(err)
		}
		s.random = src
	}
	s.settings = stored
	s.log.Info("settings loaded", map[string]any{"max_breed_times": stored.Schedule.MaxBreedTimes()})
	return nil
}

// setAddress valida "no vacía" y "distinta de la actual".
func setAddress(dst *string, v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return ErrZeroAddress
	}
	if *dst == v {
		return ErrAlreadySet
	}
	*dst = v
	return nil
}

func (s *Service) UpdateBaseURI(ctx context.Context, caller, uri string) error {
	return s.update(ctx, caller, "update_base_uri", func(st *Settings) error {
		uri = strings.TrimSpace(uri)
		if uri == "" {
			return ErrEmptyURI
		}
		st.BaseURI = uri
		return nil
	})
}

func (s *Service) UpdateTreasury(ctx context.Context, caller, treasury string) error {
	return s.update(ctx, caller, "update_treasury", func(st *Settings) error {
		return setAddress(&st.Treasury, treasury)
	})
}

// UpdateRandomService cambia la fuente de randomness; el id se resuelve antes de publicar.
func (s *Service) UpdateRandomService(ctx context.Context, caller, id string) error {
	var src randomness.Source
	return s.updateThen(ctx, caller, "update_random_service", func(st *Settings) error {
		if err := setAddress(&st.RandomService, id); err != nil {
			return err
		}
		if s.resolveRandom == nil {
			return ErrRandomServiceBad.WithMessage("random service cannot be changed at runtime")
		}
		var err error
		if src, err = s.resolveRandom(st.RandomService); err != nil {
			return ErrRandomServiceBad.Wrap(err)
		}
		return nil
	}, func() { s.random = src })
}

func (s *Service) UpdateFeeTokens(ctx context.Context, caller, tokenA, tokenB string) error {
	return s.update(ctx, caller, "update_fee_tokens", func(st *Settings) error {
		tokenA, tokenB = strings.TrimSpace(tokenA), strings.TrimSpace(tokenB)
		if tokenA == "" || tokenB == "" {
			return ErrZeroAddress
		}
		if st.FeeTokenA == tokenA && st.FeeTokenB == tokenB {
			return ErrAlreadySet
		}
		st.FeeTokenA, st.FeeTokenB = tokenA, tokenB
		return nil
	})
}

func (s *Service) UpdateLaunchpad(ctx context.Context, caller, account string) error {
	return s.update(ctx, caller, "update_launchpad", func(st *Settings) error {
		return setAddress(&st.LaunchpadAccount, account)
	})
}

// UpdateLaunchpadMaxSupply no puede bajar del supply de launchpad ya minteado.
func (s *Service) UpdateLaunchpadMaxSupply(ctx context.Context, caller string, maxSupply uint64) error {
	return s.update(ctx, caller, "update_launchpad_max_supply", func(st *Settings) error {
		minted, err := s.store.CountByChannel(ctx, ChannelLaunchpad)
		if err != nil {
			return ErrStorage.Wrap(err)
		}
		if maxSupply < minted {
			return ErrMaxSupplyTooLow.WithMessage("Max supply %d below current supply %d", maxSupply, minted)
		}
		st.LaunchpadMaxSupply = maxSupply
		return nil
	})
}

// UpdateMaxBreedTimes redimensiona la tabla. Passes con índice >= n quedan agotados.
func (s *Service) UpdateMaxBreedTimes(ctx context.Context, caller string, n int) error {
	return s.update(ctx, caller, "update_max_breed_times", func(st *Settings) error {
		return st.Schedule.SetMaxBreedTimes(n)
	})
}

func (s *Service) UpdateBreedingFees(ctx context.Context, caller string, idx int, feeA, feeB *big.Int) error {
	return s.update(ctx, caller, "update_breeding_fees", func(st *Settings) error {
		return st.Schedule.SetFees(idx, feeA, feeB)
	})
}

func (s *Service) UpdateCooldown(ctx context.Context, caller string, idx int, d time.Duration) error {
	return s.update(ctx, caller, "update_cooldown", func(st *Settings) error {
		return st.Schedule.SetCooldown(idx, d)
	})
}

func (s *Service) UpdateSameClassRate(ctx context.Context, caller string, parent, child genetics.Class, rate uint8) error {
	return s.update(ctx, caller, "update_same_class_rate", func(st *Settings) error {
		return st.ClassRates.SetSame(parent, child, rate)
	})
}

func (s *Service) UpdateDiffClassRate(ctx context.Context, caller string, matron, sire genetics.Class, rate uint8) error {
	return s.update(ctx, caller, "update_diff_class_rate", func(st *Settings) error {
		return st.ClassRates.SetDiff(matron, sire, rate)
	})
}

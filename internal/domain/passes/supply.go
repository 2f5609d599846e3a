package passes

import (
	"context"
	"strings"

	"pass-breeding/internal/domain/access"
	"pass-breeding/internal/domain/events"
	"pass-breeding/internal/domain/events/details"
	"pass-breeding/internal/domain/genetics"
)

type MintInput struct {
	To       string
	SingerID uint32
	Genes    genetics.Genes
	Class    genetics.Class
}

// MintSingle crea un pass génesis con genes y clase explícitos (requiere MINTER_ROLE).
func (s *Service) MintSingle(ctx context.Context, caller string, in MintInput) (p Pass, err error) {
	ctx, span := s.startSpan(ctx, "MintSingle")
	defer func() { s.finish(span, "mint_single", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gate.RequireRole(ctx, caller, access.RoleMinter); err != nil {
		return Pass{}, err
	}
	if err := s.gate.RequireNotPaused(ctx); err != nil {
		return Pass{}, err
	}

	to := strings.TrimSpace(in.To)
	if to == "" {
		return Pass{}, ErrZeroAddress
	}
	if !in.Class.Valid() {
		return Pass{}, genetics.ErrInvalidClass
	}
	if !in.Genes.Valid() {
		return Pass{}, ErrInvalidGenes.WithMessage("genes %d use more than %d bits", in.Genes, genetics.TraitCount*genetics.TraitBits)
	}

	minted, err := s.store.CountByChannel(ctx, ChannelGenesis)
	if err != nil {
		return Pass{}, ErrStorage.Wrap(err)
	}
	if minted >= s.settings.GenesisCap {
		return Pass{}, ErrGenesisCap.WithMessage("Max gen0 limit exceed: %d", s.settings.GenesisCap)
	}

	id, err := s.nextID(ctx)
	if err != nil {
		return Pass{}, err
	}
	now := s.now()
	p = Pass{
		ID:        id,
		Genes:     in.Genes,
		SingerID:  in.SingerID,
		Class:     in.Class,
		BirthTime: now,
		Channel:   ChannelGenesis,
	}

	evs, err := mintEvents(caller, to, p)
	if err != nil {
		return Pass{}, err
	}
	if err := s.commit(ctx, Changeset{
		Minted: []Minted{{Pass: p, Owner: to}},
		Events: evs,
	}); err != nil {
		return Pass{}, err
	}

	span.SetAttributes(passAttr("pass_id", id))
	s.log.Info("genesis pass minted", map[string]any{"pass_id": id, "to": to, "class": in.Class.String()})
	return p, nil
}

// MintBatch mintea count passes de launchpad para to. Solo lo puede llamar la cuenta
// de launchpad configurada (con MINTER_ROLE). Si el lote excede el cap se rechaza entero.
func (s *Service) MintBatch(ctx context.Context, caller, to string, count int) (out []Pass, err error) {
	ctx, span := s.startSpan(ctx, "MintBatch")
	defer func() { s.finish(span, "mint_batch", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gate.RequireRole(ctx, caller, access.RoleMinter); err != nil {
		return nil, err
	}
	if s.settings.LaunchpadAccount == "" || caller != s.settings.LaunchpadAccount {
		return nil, ErrLaunchpadAuth
	}
	if err := s.gate.RequireNotPaused(ctx); err != nil {
		return nil, err
	}

	to = strings.TrimSpace(to)
	if to == "" {
		return nil, ErrZeroAddress
	}
	if count < 1 {
		return nil, ErrInvalidBatchSize
	}

	supply, err := s.store.CountByChannel(ctx, ChannelLaunchpad)
	if err != nil {
		return nil, ErrStorage.Wrap(err)
	}
	if supply+uint64(count) > s.settings.LaunchpadMaxSupply {
		return nil, ErrLaunchpadCap
	}

	if s.random == nil {
		return nil, ErrRandomness
	}
	draw, err := s.random.Random(ctx)
	if err != nil {
		return nil, ErrRandomness.Wrap(err)
	}

	first, err := s.nextID(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	cs := Changeset{}
	var prev genetics.Traits

	for i := 0; i < count; i++ {
		index := supply + uint64(i)
		traits := genetics.RandomTraits(genetics.DeriveWord(draw, index))
		// Dos passes seguidos del lote no comparten genes.
		for nonce := uint64(1); i > 0 && traits == prev; nonce++ {
			traits = genetics.RandomTraits(genetics.DeriveWord(draw, index, nonce))
		}
		prev = traits

		genes, err := genetics.Encode(traits)
		if err != nil {
			return nil, ErrInvalidGenes.Wrap(err)
		}
		id := first + PassID(i)
		p := Pass{
			ID:        id,
			Genes:     genes,
			SingerID:  uint32(index % uint64(s.settings.SingerCount)),
			Class:     LaunchpadClass,
			BirthTime: now,
			Channel:   ChannelLaunchpad,
		}
		evs, err := mintEvents(caller, to, p)
		if err != nil {
			return nil, err
		}
		cs.Minted = append(cs.Minted, Minted{Pass: p, Owner: to})
		cs.Events = append(cs.Events, evs...)
		out = append(out, p)
	}

	if err := s.commit(ctx, cs); err != nil {
		return nil, err
	}

	span.SetAttributes(passAttr("first_id", first))
	s.log.Info("launchpad batch minted", map[string]any{
		"to":       to,
		"count":    count,
		"first_id": first,
		"supply":   supply + uint64(count),
	})
	return out, nil
}

// mintEvents arma TRANSFER (sin from) + BIRTH de un pass nuevo, en ese orden.
// Los génesis y de launchpad llevan matron_id = sire_id = 0.
func mintEvents(caller, owner string, p Pass) ([]events.PassEvent, error) {
	transfer, err := events.New(events.EventTypeTransfer, uint64(p.ID), caller, p.BirthTime, details.Transfer{To: owner, ID: uint64(p.ID)})
	if err != nil {
		return nil, err
	}
	birth, err := events.New(events.EventTypeBirth, uint64(p.ID), caller, p.BirthTime, details.Birth{
		Owner:    owner,
		ID:       uint64(p.ID),
		MatronID: uint64(p.MatronID),
		SireID:   uint64(p.SireID),
		SingerID: p.SingerID,
		Genes:    p.Genes,
		Class:    p.Class,
	})
	if err != nil {
		return nil, err
	}
	return []events.PassEvent{transfer, birth}, nil
}

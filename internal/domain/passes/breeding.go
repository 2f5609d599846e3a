package passes

import (
	"context"
	"errors"
	"strings"

	"pass-breeding/internal/domain/access"
	"pass-breeding/internal/domain/events"
	"pass-breeding/internal/domain/events/details"
	"pass-breeding/internal/domain/genetics"
	"pass-breeding/internal/ports/ledger"
)

// ApproveSiring permite que grantee use sireID como sire en un único BreedWith.
// grantee vacío retira la aprobación.
func (s *Service) ApproveSiring(ctx context.Context, caller string, sireID PassID, grantee string) (err error) {
	ctx, span := s.startSpan(ctx, "ApproveSiring", passAttr("sire_id", sireID))
	defer func() { s.finish(span, "approve_siring", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gate.RequireNotPaused(ctx); err != nil {
		return err
	}
	if _, err := s.load(ctx, sireID); err != nil {
		return err
	}
	owner, err := s.ownerOf(ctx, sireID)
	if err != nil {
		return err
	}
	if owner != caller {
		return ErrNotSireOwner
	}
	grantee = strings.TrimSpace(grantee)

	ev, err := events.New(events.EventTypeSiringApproved, uint64(sireID), caller, s.now(), details.SiringApproval{
		Owner:   owner,
		SireID:  uint64(sireID),
		Grantee: grantee,
	})
	if err != nil {
		return err
	}

	if err := s.commit(ctx, Changeset{
		Approvals: []Approval{{SireID: sireID, Grantee: grantee}},
		Events:    []events.PassEvent{ev},
	}); err != nil {
		return err
	}

	s.log.Info("siring approved", map[string]any{"sire_id": sireID, "owner": owner, "grantee": grantee})
	return nil
}

// BreedWith cría matronID con sireID, cobra el fee del tier de la matrona y la deja preñada.
//
// El caller debe ser dueño de la matrona, o dueño del sire con la matrona aprobada
// para él. El otro lado tiene que ser propio o aprobado vía ApproveSiring.
func (s *Service) BreedWith(ctx context.Context, caller string, matronID, sireID PassID) (matron Pass, err error) {
	ctx, span := s.startSpan(ctx, "BreedWith", passAttr("matron_id", matronID), passAttr("sire_id", sireID))
	defer func() { s.finish(span, "breed_with", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gate.RequireNotPaused(ctx); err != nil {
		return Pass{}, err
	}

	matron, err = s.load(ctx, matronID)
	if err != nil {
		return Pass{}, err
	}
	sire, err := s.load(ctx, sireID)
	if err != nil {
		return Pass{}, err
	}

	consumed, err := s.authorizePair(ctx, caller, matronID, sireID)
	if err != nil {
		return Pass{}, err
	}

	if matronID == sireID {
		return Pass{}, ErrInvalidPair
	}

	now := s.now()
	maxBreed := s.settings.Schedule.MaxBreedTimes()
	if int(matron.CooldownIndex) >= maxBreed {
		return Pass{}, ErrMatronLimit
	}
	if int(sire.CooldownIndex) >= maxBreed {
		return Pass{}, ErrSireLimit
	}
	switch StateOf(matron, now, maxBreed) {
	case StateAvailable:
	case StatePregnant:
		return Pass{}, ErrMatronPregnant
	default:
		return Pass{}, ErrMatronNotReady
	}
	if StateOf(sire, now, maxBreed) != StateAvailable {
		return Pass{}, ErrSireNotReady
	}

	// Fee y cooldown por el índice de la matrona antes de criar.
	tier, err := s.settings.Schedule.Tier(int(matron.CooldownIndex))
	if err != nil {
		return Pass{}, err
	}
	if s.settings.Treasury == "" {
		return Pass{}, ErrTreasuryNotSet
	}
	fee := ledger.FeeTransfer{
		Payer:    caller,
		Treasury: s.settings.Treasury,
		TokenA:   s.settings.FeeTokenA,
		AmountA:  tier.FeeA,
		TokenB:   s.settings.FeeTokenB,
		AmountB:  tier.FeeB,
	}

	endTime := now.Add(tier.Cooldown)
	matron.CooldownIndex++
	sire.CooldownIndex++
	if endTime.After(matron.CooldownEndTime) {
		matron.CooldownEndTime = endTime
	}
	if endTime.After(sire.CooldownEndTime) {
		sire.CooldownEndTime = endTime
	}
	matron.SiringWithID = sireID

	ev, err := events.New(events.EventTypePregnant, uint64(matronID), caller, now, details.Pregnancy{
		Owner:    caller,
		MatronID: uint64(matronID),
		SireID:   uint64(sireID),
	})
	if err != nil {
		return Pass{}, err
	}
	cs := Changeset{
		Updated:   []Pass{matron, sire},
		Approvals: consumed,
		Events:    []events.PassEvent{ev},
	}

	if err := s.ledger.TransferFee(ctx, fee); err != nil {
		return Pass{}, ErrFeeTransfer.Wrap(err)
	}
	if err := s.commit(ctx, cs); err != nil {
		if rerr := s.ledger.TransferFee(ctx, fee.Reverse()); rerr != nil {
			s.log.Error("fee refund failed", map[string]any{
				"payer":     caller,
				"matron_id": matronID,
				"err":       rerr.Error(),
			})
		}
		return Pass{}, err
	}

	s.log.Info("breeding started", map[string]any{
		"caller":         caller,
		"matron_id":      matronID,
		"sire_id":        sireID,
		"tier":           matron.CooldownIndex - 1,
		"cooldown_until": endTime,
	})
	return matron, nil
}

// authorizePair valida ownership/aprobaciones y devuelve las aprobaciones a consumir.
func (s *Service) authorizePair(ctx context.Context, caller string, matronID, sireID PassID) ([]Approval, error) {
	matronOwner, err := s.ownerOf(ctx, matronID)
	if err != nil {
		return nil, err
	}
	sireOwner, err := s.ownerOf(ctx, sireID)
	if err != nil {
		return nil, err
	}
	if caller == "" {
		return nil, ErrNotMatronOwner
	}

	var consumed []Approval
	approvedFor := func(id PassID) (bool, error) {
		grantee, err := s.store.SiringApproval(ctx, id)
		if err != nil {
			return false, ErrStorage.Wrap(err)
		}
		return grantee == caller, nil
	}

	if matronOwner != caller {
		if sireOwner != caller {
			return nil, ErrNotMatronOwner
		}
		ok, err := approvedFor(matronID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotMatronOwner
		}
		consumed = append(consumed, Approval{SireID: matronID})
	}

	if sireOwner != caller {
		ok, err := approvedFor(sireID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSireNotApproved
		}
		consumed = append(consumed, Approval{SireID: sireID})
	}
	return consumed, nil
}

// GiveBirth crea el hijo de una matrona preñada cuyo cooldown terminó.
// Cualquiera puede llamarlo; el hijo va al dueño actual de la matrona.
func (s *Service) GiveBirth(ctx context.Context, caller string, matronID PassID) (child Pass, err error) {
	ctx, span := s.startSpan(ctx, "GiveBirth", passAttr("matron_id", matronID))
	defer func() { s.finish(span, "give_birth", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gate.RequireNotPaused(ctx); err != nil {
		return Pass{}, err
	}

	matron, err := s.load(ctx, matronID)
	if err != nil {
		return Pass{}, err
	}
	if !matron.IsPregnant() {
		return Pass{}, ErrNotPregnant
	}
	now := s.now()
	if now.Before(matron.CooldownEndTime) {
		return Pass{}, ErrNotReadyToBirth
	}
	sire, err := s.load(ctx, matron.SiringWithID)
	if err != nil {
		return Pass{}, err
	}
	owner, err := s.ownerOf(ctx, matronID)
	if err != nil {
		return Pass{}, err
	}

	if s.random == nil {
		return Pass{}, ErrRandomness
	}
	seed, err := s.random.Random(ctx)
	if err != nil {
		return Pass{}, ErrRandomness.Wrap(err)
	}

	genes, err := s.mixer.MixGenes(matron.Genes, sire.Genes, seed)
	if err != nil {
		return Pass{}, ErrInvalidGenes.Wrap(err)
	}
	classDraw := genetics.Uint64(genetics.DeriveWord(seed, uint64(matron.ID), uint64(sire.ID)))

	id, err := s.nextID(ctx)
	if err != nil {
		return Pass{}, err
	}
	child = Pass{
		ID:         id,
		Genes:      genes,
		MatronID:   matron.ID,
		SireID:     sire.ID,
		SingerID:   matron.SingerID,
		Class:      s.settings.ClassRates.ChildClass(matron.Class, sire.Class, classDraw),
		Generation: max(matron.Generation, sire.Generation) + 1,
		BirthTime:  now,
		Channel:    ChannelBirth,
	}
	matron.SiringWithID = 0

	evs, err := mintEvents(caller, owner, child)
	if err != nil {
		return Pass{}, err
	}

	if err := s.commit(ctx, Changeset{
		Minted:  []Minted{{Pass: child, Owner: owner}},
		Updated: []Pass{matron},
		Events:  evs,
	}); err != nil {
		return Pass{}, err
	}

	span.SetAttributes(passAttr("child_id", id))
	s.log.Info("pass born", map[string]any{
		"child_id":   id,
		"matron_id":  matron.ID,
		"sire_id":    sire.ID,
		"owner":      owner,
		"generation": child.Generation,
		"class":      child.Class.String(),
	})
	return child, nil
}

// Transfer mueve un pass entre cuentas; borra su aprobación de siring.
func (s *Service) Transfer(ctx context.Context, caller, to string, id PassID) (err error) {
	ctx, span := s.startSpan(ctx, "Transfer", passAttr("pass_id", id))
	defer func() { s.finish(span, "transfer", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.gate.RequireNotPaused(ctx); err != nil {
		if errors.Is(err, access.ErrPaused) {
			return ErrTransferPaused
		}
		return err
	}

	to = strings.TrimSpace(to)
	if to == "" {
		return ErrZeroAddress
	}
	owner, err := s.ownerOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != caller {
		return ErrNotOwner
	}
	if owner == to {
		return ErrSameOwner
	}

	ev, err := events.New(events.EventTypeTransfer, uint64(id), caller, s.now(), details.Transfer{From: owner, To: to, ID: uint64(id)})
	if err != nil {
		return err
	}
	if err := s.commit(ctx, Changeset{
		Transfers: []Transfer{{ID: id, From: owner, To: to}},
		Approvals: []Approval{{SireID: id}},
		Events:    []events.PassEvent{ev},
	}); err != nil {
		return err
	}

	s.log.Info("pass transferred", map[string]any{"pass_id": id, "from": owner, "to": to})
	return nil
}

package passes

import (
	"context"
	"errors"
	"testing"
	"time"

	"pass-breeding/internal/domain/events"
	"pass-breeding/internal/domain/genetics"
	"pass-breeding/internal/domain/schedule"
)

func breedPair(t *testing.T, f *fixture) (Pass, Pass) {
	t.Helper()
	a := f.mint(t, "alice", genetics.Traits{0, 1, 2, 3, 0, 1, 2}, genetics.ClassBronze)
	b := f.mint(t, "alice", genetics.Traits{1, 0, 3, 2, 1, 0, 3}, genetics.ClassBronze)
	return a, b
}

func TestBreedWith_StartsPregnancyAndChargesFee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := breedPair(t, f)

	matron, err := f.svc.BreedWith(ctx, "alice", a.ID, b.ID)
	if err != nil {
		t.Fatalf("BreedWith error: %v", err)
	}
	if matron.SiringWithID != b.ID || matron.CooldownIndex != 1 {
		t.Fatalf("unexpected matron: %+v", matron)
	}

	wantEnd := t0.Add(schedule.Day)
	sire := f.get(t, b.ID)
	if !matron.CooldownEndTime.Equal(wantEnd) || !sire.CooldownEndTime.Equal(wantEnd) {
		t.Fatalf("expected both parents to cool down until %s, got %s / %s", wantEnd, matron.CooldownEndTime, sire.CooldownEndTime)
	}
	if sire.CooldownIndex != 1 || sire.SiringWithID != 0 {
		t.Fatalf("unexpected sire: %+v", sire)
	}

	if len(f.ledger.transfers) != 1 {
		t.Fatalf("expected one fee transfer, got %d", len(f.ledger.transfers))
	}
	fee := f.ledger.transfers[0]
	if fee.Payer != "alice" || fee.Treasury != "treasury" || fee.TokenA != "token-a" || fee.TokenB != "token-b" {
		t.Fatalf("unexpected fee transfer: %+v", fee)
	}
	if fee.AmountA.Cmp(schedule.Ether(20)) != 0 || fee.AmountB.Cmp(schedule.Ether(400)) != 0 {
		t.Fatalf("expected tier 0 fees, got %s / %s", fee.AmountA, fee.AmountB)
	}

	if st, _ := f.svc.State(ctx, a.ID); st != StatePregnant {
		t.Fatalf("expected matron pregnant, got %s", st)
	}
	if st, _ := f.svc.State(ctx, b.ID); st != StateCoolingDown {
		t.Fatalf("expected sire cooling down, got %s", st)
	}
	if ok, _ := f.svc.IsReadyToBreed(ctx, a.ID); ok {
		t.Fatalf("expected pregnant matron not ready")
	}

	types := f.store.eventTypes()
	if types[len(types)-1] != events.EventTypePregnant {
		t.Fatalf("expected PREGNANT event last, got %v", types)
	}
}

func TestBreedWith_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := breedPair(t, f)

	if _, err := f.svc.BreedWith(ctx, "alice", 0, b.ID); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := f.svc.BreedWith(ctx, "alice", a.ID, 99); !errors.Is(err, ErrPassNotFound) {
		t.Fatalf("expected ErrPassNotFound, got %v", err)
	}
	if _, err := f.svc.BreedWith(ctx, "alice", a.ID, a.ID); !errors.Is(err, ErrInvalidPair) {
		t.Fatalf("expected ErrInvalidPair, got %v", err)
	}
	if _, err := f.svc.BreedWith(ctx, "mallory", a.ID, b.ID); !errors.Is(err, ErrNotMatronOwner) {
		t.Fatalf("expected ErrNotMatronOwner, got %v", err)
	}

	if _, err := f.svc.BreedWith(ctx, "alice", a.ID, b.ID); err != nil {
		t.Fatalf("BreedWith error: %v", err)
	}
	c := f.mint(t, "alice", genetics.Traits{}, genetics.ClassBronze)

	if _, err := f.svc.BreedWith(ctx, "alice", a.ID, c.ID); !errors.Is(err, ErrMatronPregnant) {
		t.Fatalf("expected ErrMatronPregnant, got %v", err)
	}
	if _, err := f.svc.BreedWith(ctx, "alice", b.ID, c.ID); !errors.Is(err, ErrMatronNotReady) {
		t.Fatalf("expected ErrMatronNotReady for cooling matron, got %v", err)
	}
	if _, err := f.svc.BreedWith(ctx, "alice", c.ID, b.ID); !errors.Is(err, ErrSireNotReady) {
		t.Fatalf("expected ErrSireNotReady, got %v", err)
	}
	if _, err := f.svc.BreedWith(ctx, "alice", c.ID, a.ID); !errors.Is(err, ErrSireNotReady) {
		t.Fatalf("expected ErrSireNotReady for pregnant sire, got %v", err)
	}
}

func TestBreedWith_TreasuryRequired(t *testing.T) {
	f := newFixtureWith(t, func(s *Settings) { s.Treasury = "" })
	a, b := breedPair(t, f)

	if _, err := f.svc.BreedWith(context.Background(), "alice", a.ID, b.ID); !errors.Is(err, ErrTreasuryNotSet) {
		t.Fatalf("expected ErrTreasuryNotSet, got %v", err)
	}
	if got := f.get(t, a.ID); got.CooldownIndex != 0 || got.IsPregnant() {
		t.Fatalf("expected matron untouched, got %+v", got)
	}
}

func TestBreedWith_FeeFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	a, b := breedPair(t, f)
	f.ledger.fail = true

	if _, err := f.svc.BreedWith(context.Background(), "alice", a.ID, b.ID); !errors.Is(err, ErrFeeTransfer) {
		t.Fatalf("expected ErrFeeTransfer, got %v", err)
	}
	if got := f.get(t, a.ID); got.CooldownIndex != 0 || got.IsPregnant() {
		t.Fatalf("expected matron untouched, got %+v", got)
	}
}

func TestBreedWith_RefundsWhenCommitFails(t *testing.T) {
	f := newFixture(t)
	a, b := breedPair(t, f)
	f.store.failApply = true

	if _, err := f.svc.BreedWith(context.Background(), "alice", a.ID, b.ID); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if len(f.ledger.transfers) != 2 {
		t.Fatalf("expected charge and refund, got %d transfers", len(f.ledger.transfers))
	}
	refund := f.ledger.transfers[1]
	if refund.Payer != "treasury" || refund.Treasury != "alice" || refund.AmountB.Cmp(schedule.Ether(400)) != 0 {
		t.Fatalf("unexpected refund: %+v", refund)
	}
	f.store.failApply = false
	if got := f.get(t, a.ID); got.CooldownIndex != 0 {
		t.Fatalf("expected matron untouched, got %+v", got)
	}
}

func TestBreedWith_CooldownProgressionAndLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := breedPair(t, f)

	wantCooldown := []time.Duration{1 * schedule.Day, 3 * schedule.Day, 5 * schedule.Day}
	wantFeeB := []int64{400, 2000, 3200}

	for i := range wantCooldown {
		start := f.clock
		matron, err := f.svc.BreedWith(ctx, "alice", a.ID, b.ID)
		if err != nil {
			t.Fatalf("breeding %d: BreedWith error: %v", i, err)
		}
		if got := matron.CooldownEndTime.Sub(start); got != wantCooldown[i] {
			t.Fatalf("breeding %d: expected cooldown %s, got %s", i, wantCooldown[i], got)
		}
		if fee := f.ledger.transfers[i]; fee.AmountB.Cmp(schedule.Ether(wantFeeB[i])) != 0 {
			t.Fatalf("breeding %d: expected feeB %d ether, got %s", i, wantFeeB[i], fee.AmountB)
		}

		f.advance(wantCooldown[i])
		if _, err := f.svc.GiveBirth(ctx, "anyone", a.ID); err != nil {
			t.Fatalf("breeding %d: GiveBirth error: %v", i, err)
		}
	}

	if st, _ := f.svc.State(ctx, a.ID); st != StateExhausted {
		t.Fatalf("expected matron exhausted, got %s", st)
	}
	c := f.mint(t, "alice", genetics.Traits{}, genetics.ClassBronze)
	if _, err := f.svc.BreedWith(ctx, "alice", a.ID, c.ID); !errors.Is(err, ErrMatronLimit) {
		t.Fatalf("expected ErrMatronLimit, got %v", err)
	}
	if _, err := f.svc.BreedWith(ctx, "alice", c.ID, b.ID); !errors.Is(err, ErrSireLimit) {
		t.Fatalf("expected ErrSireLimit, got %v", err)
	}
}

func TestGiveBirth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := breedPair(t, f)

	if _, err := f.svc.GiveBirth(ctx, "bob", a.ID); !errors.Is(err, ErrNotPregnant) {
		t.Fatalf("expected ErrNotPregnant, got %v", err)
	}
	if _, err := f.svc.BreedWith(ctx, "alice", a.ID, b.ID); err != nil {
		t.Fatalf("BreedWith error: %v", err)
	}

	f.advance(schedule.Day - time.Second)
	if _, err := f.svc.GiveBirth(ctx, "bob", a.ID); !errors.Is(err, ErrNotReadyToBirth) {
		t.Fatalf("expected ErrNotReadyToBirth, got %v", err)
	}

	f.advance(time.Second)
	child, err := f.svc.GiveBirth(ctx, "bob", a.ID)
	if err != nil {
		t.Fatalf("GiveBirth error: %v", err)
	}
	if child.ID != 3 || child.MatronID != a.ID || child.SireID != b.ID {
		t.Fatalf("unexpected child lineage: %+v", child)
	}
	if child.Generation != 1 || !child.BirthTime.Equal(f.clock) || child.Channel != ChannelBirth {
		t.Fatalf("unexpected child: %+v", child)
	}
	if child.CooldownIndex != 0 || child.IsPregnant() {
		t.Fatalf("expected fresh child, got %+v", child)
	}

	// Los traits del hijo salen de los padres o de una ascensión.
	ct, at, bt := child.Genes.Traits(), a.Genes.Traits(), b.Genes.Traits()
	for i := range ct {
		if ct[i] != at[i] && ct[i] != bt[i] && ct[i] < genetics.AscendedBase {
			t.Fatalf("slot %d: trait %d not inherited", i, ct[i])
		}
	}

	owner, _ := f.svc.OwnerOf(ctx, child.ID)
	if owner != "alice" {
		t.Fatalf("expected child owned by matron owner, got %q", owner)
	}
	if got := f.get(t, a.ID); got.IsPregnant() {
		t.Fatalf("expected pregnancy cleared")
	}
	if st, _ := f.svc.State(ctx, a.ID); st != StateAvailable {
		t.Fatalf("expected matron available after birth, got %s", st)
	}

	types := f.store.eventTypes()
	last := types[len(types)-2:]
	if last[0] != events.EventTypeTransfer || last[1] != events.EventTypeBirth {
		t.Fatalf("expected TRANSFER then BIRTH, got %v", last)
	}

	if _, err := f.svc.GiveBirth(ctx, "bob", a.ID); !errors.Is(err, ErrNotPregnant) {
		t.Fatalf("expected second birth to fail with ErrNotPregnant, got %v", err)
	}
}

func TestGiveBirth_GenerationIsMaxPlusOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := breedPair(t, f)

	if _, err := f.svc.BreedWith(ctx, "alice", a.ID, b.ID); err != nil {
		t.Fatalf("BreedWith error: %v", err)
	}
	f.advance(schedule.Day)
	child, err := f.svc.GiveBirth(ctx, "alice", a.ID)
	if err != nil {
		t.Fatalf("GiveBirth error: %v", err)
	}

	c := f.mint(t, "alice", genetics.Traits{}, genetics.ClassBronze)
	if _, err := f.svc.BreedWith(ctx, "alice", c.ID, child.ID); err != nil {
		t.Fatalf("BreedWith error: %v", err)
	}
	f.advance(schedule.Day)
	grandchild, err := f.svc.GiveBirth(ctx, "alice", c.ID)
	if err != nil {
		t.Fatalf("GiveBirth error: %v", err)
	}
	if grandchild.Generation != 2 {
		t.Fatalf("expected generation 2, got %d", grandchild.Generation)
	}
}

func TestGiveBirth_ClassFromRates(t *testing.T) {
	f := newFixtureWith(t, func(s *Settings) {
		_ = s.ClassRates.SetSame(genetics.ClassBronze, genetics.ClassGold, 100)
	})
	ctx := context.Background()
	a, b := breedPair(t, f)

	if _, err := f.svc.BreedWith(ctx, "alice", a.ID, b.ID); err != nil {
		t.Fatalf("BreedWith error: %v", err)
	}
	f.advance(schedule.Day)
	child, err := f.svc.GiveBirth(ctx, "alice", a.ID)
	if err != nil {
		t.Fatalf("GiveBirth error: %v", err)
	}
	if child.Class != genetics.ClassGold {
		t.Fatalf("expected gold child, got %s", child.Class)
	}
}

func TestGiveBirth_RandomnessFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := breedPair(t, f)

	if _, err := f.svc.BreedWith(ctx, "alice", a.ID, b.ID); err != nil {
		t.Fatalf("BreedWith error: %v", err)
	}
	f.svc.random = failingRandom{}
	f.advance(schedule.Day)

	if _, err := f.svc.GiveBirth(ctx, "alice", a.ID); !errors.Is(err, ErrRandomness) {
		t.Fatalf("expected ErrRandomness, got %v", err)
	}
	if got := f.get(t, a.ID); !got.IsPregnant() {
		t.Fatalf("expected matron still pregnant")
	}
}

func TestSiringApproval_Flow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.mint(t, "alice", genetics.Traits{}, genetics.ClassBronze)
	b := f.mint(t, "bob", genetics.Traits{}, genetics.ClassSilver)

	if _, err := f.svc.BreedWith(ctx, "alice", a.ID, b.ID); !errors.Is(err, ErrSireNotApproved) {
		t.Fatalf("expected ErrSireNotApproved, got %v", err)
	}
	if err := f.svc.ApproveSiring(ctx, "alice", b.ID, "alice"); !errors.Is(err, ErrNotSireOwner) {
		t.Fatalf("expected ErrNotSireOwner, got %v", err)
	}
	if err := f.svc.ApproveSiring(ctx, "bob", b.ID, "alice"); err != nil {
		t.Fatalf("ApproveSiring error: %v", err)
	}
	if grantee, _ := f.svc.SiringApproval(ctx, b.ID); grantee != "alice" {
		t.Fatalf("expected alice approved, got %q", grantee)
	}

	if _, err := f.svc.BreedWith(ctx, "alice", a.ID, b.ID); err != nil {
		t.Fatalf("BreedWith error: %v", err)
	}
	if grantee, _ := f.svc.SiringApproval(ctx, b.ID); grantee != "" {
		t.Fatalf("expected approval consumed, got %q", grantee)
	}
	if fee := f.ledger.transfers[0]; fee.Payer != "alice" {
		t.Fatalf("expected caller to pay, got %q", fee.Payer)
	}

	f.advance(schedule.Day)
	child, err := f.svc.GiveBirth(ctx, "bob", a.ID)
	if err != nil {
		t.Fatalf("GiveBirth error: %v", err)
	}
	if owner, _ := f.svc.OwnerOf(ctx, child.ID); owner != "alice" {
		t.Fatalf("expected child for matron owner, got %q", owner)
	}
}

func TestSiringApproval_SireOwnerBreedsApprovedMatron(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.mint(t, "bob", genetics.Traits{}, genetics.ClassBronze)
	sire := f.mint(t, "alice", genetics.Traits{}, genetics.ClassBronze)

	if _, err := f.svc.BreedWith(ctx, "alice", m.ID, sire.ID); !errors.Is(err, ErrNotMatronOwner) {
		t.Fatalf("expected ErrNotMatronOwner before approval, got %v", err)
	}
	if err := f.svc.ApproveSiring(ctx, "bob", m.ID, "alice"); err != nil {
		t.Fatalf("ApproveSiring error: %v", err)
	}

	matron, err := f.svc.BreedWith(ctx, "alice", m.ID, sire.ID)
	if err != nil {
		t.Fatalf("BreedWith error: %v", err)
	}
	if matron.SiringWithID != sire.ID {
		t.Fatalf("expected matron siring with %d, got %d", sire.ID, matron.SiringWithID)
	}
	if grantee, _ := f.svc.SiringApproval(ctx, m.ID); grantee != "" {
		t.Fatalf("expected approval on matron consumed, got %q", grantee)
	}
	if fee := f.ledger.transfers[0]; fee.Payer != "alice" {
		t.Fatalf("expected caller to pay, got %q", fee.Payer)
	}

	if _, err := f.svc.BreedWith(ctx, "alice", m.ID, sire.ID); !errors.Is(err, ErrNotMatronOwner) {
		t.Fatalf("expected ErrNotMatronOwner once the approval is used, got %v", err)
	}

	f.advance(schedule.Day)
	child, err := f.svc.GiveBirth(ctx, "alice", m.ID)
	if err != nil {
		t.Fatalf("GiveBirth error: %v", err)
	}
	if owner, _ := f.svc.OwnerOf(ctx, child.ID); owner != "bob" {
		t.Fatalf("expected child for matron owner bob, got %q", owner)
	}
}

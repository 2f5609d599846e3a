package passes

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"pass-breeding/internal/domain/genetics"
	"pass-breeding/internal/domain/schedule"
)

type testSettingsRepo struct {
	doc   []byte
	saves int
	fail  bool
}

func (r *testSettingsRepo) LoadSettings(ctx context.Context) ([]byte, error) {
	if r.doc == nil {
		return nil, ErrNoSettings
	}
	return append([]byte(nil), r.doc...), nil
}

func (r *testSettingsRepo) SaveSettings(ctx context.Context, doc []byte) error {
	if r.fail {
		return errors.New("disk full")
	}
	r.doc = append([]byte(nil), doc...)
	r.saves++
	return nil
}

func TestEncodeSettings_RoundTrip(t *testing.T) {
	st := DefaultSettings()
	st.Treasury = "vault"
	st.RandomService = "seeded:7"
	st.FeeTokenA, st.FeeTokenB = "usdc", "pass"
	st.BaseURI = "ipfs://meta/"
	st.LaunchpadAccount = "launchpad"
	st.LaunchpadMaxSupply = 90
	st.GenesisCap = 10
	st.SingerCount = 5
	if err := st.Schedule.SetMaxBreedTimes(4); err != nil {
		t.Fatalf("SetMaxBreedTimes error: %v", err)
	}
	if err := st.Schedule.SetCooldown(1, 90*time.Minute+1500*time.Millisecond); err != nil {
		t.Fatalf("SetCooldown error: %v", err)
	}
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	if err := st.Schedule.SetFees(0, huge, big.NewInt(0)); err != nil {
		t.Fatalf("SetFees error: %v", err)
	}
	if err := st.ClassRates.SetSame(genetics.ClassBronze, genetics.ClassGold, 15); err != nil {
		t.Fatalf("SetSame error: %v", err)
	}

	doc, err := EncodeSettings(st)
	if err != nil {
		t.Fatalf("EncodeSettings error: %v", err)
	}
	got, err := DecodeSettings(doc)
	if err != nil {
		t.Fatalf("DecodeSettings error: %v", err)
	}

	if got.Treasury != "vault" || got.RandomService != "seeded:7" || got.FeeTokenA != "usdc" ||
		got.FeeTokenB != "pass" || got.BaseURI != "ipfs://meta/" || got.LaunchpadAccount != "launchpad" {
		t.Fatalf("unexpected addresses: %+v", got)
	}
	if got.LaunchpadMaxSupply != 90 || got.GenesisCap != 10 || got.SingerCount != 5 {
		t.Fatalf("unexpected caps: %+v", got)
	}
	if got.ClassRates != st.ClassRates {
		t.Fatalf("expected class rates %+v, got %+v", st.ClassRates, got.ClassRates)
	}
	if got.Schedule.MaxBreedTimes() != 4 {
		t.Fatalf("expected 4 tiers, got %d", got.Schedule.MaxBreedTimes())
	}
	if d, _ := got.Schedule.CooldownDuration(1); d != 90*time.Minute+1500*time.Millisecond {
		t.Fatalf("unexpected cooldown: %s", d)
	}
	if fee, _ := got.Schedule.FeeA(0); fee.Cmp(huge) != 0 {
		t.Fatalf("expected fee %s, got %s", huge, fee)
	}
	want, _ := st.Schedule.Tier(3)
	if tier, _ := got.Schedule.Tier(3); tier.Cooldown != want.Cooldown || tier.FeeB.Cmp(want.FeeB) != 0 {
		t.Fatalf("unexpected tier 3: %+v", tier)
	}
}

func TestDecodeSettings_RejectsBadDocument(t *testing.T) {
	if _, err := DecodeSettings([]byte(`{"tiers":[]}`)); !errors.Is(err, schedule.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for empty table, got %v", err)
	}
	if _, err := DecodeSettings([]byte(`{"tiers":[{"cooldown_seconds":1,"fee_a":"x","fee_b":"0"}]}`)); err == nil {
		t.Fatalf("expected error for invalid fee")
	}
}

func TestAdmin_UpdateSavesSettings(t *testing.T) {
	f := newFixture(t)
	repo := &testSettingsRepo{}
	f.svc.settingsRepo = repo
	ctx := context.Background()

	if err := f.svc.UpdateMaxBreedTimes(ctx, "admin", 6); err != nil {
		t.Fatalf("UpdateMaxBreedTimes error: %v", err)
	}
	if repo.saves != 1 {
		t.Fatalf("expected one save, got %d", repo.saves)
	}

	// Un service nuevo sobre el mismo repo arranca con lo guardado, no con los defaults.
	reopened := NewService(Deps{Store: f.store, Gate: f.gate, Ledger: f.ledger, Settings: repo}, DefaultSettings())
	if err := reopened.LoadSettings(ctx); err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	got := reopened.Settings()
	if got.Schedule.MaxBreedTimes() != 6 {
		t.Fatalf("expected stored maxBreedTimes 6, got %d", got.Schedule.MaxBreedTimes())
	}
	if got.Treasury != "treasury" || got.LaunchpadAccount != "launchpad" {
		t.Fatalf("expected stored addresses, got %+v", got)
	}
}

func TestAdmin_UpdateFailsWhenSaveFails(t *testing.T) {
	f := newFixture(t)
	repo := &testSettingsRepo{fail: true}
	f.svc.settingsRepo = repo
	ctx := context.Background()

	if err := f.svc.UpdateMaxBreedTimes(ctx, "admin", 6); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if got := f.svc.Settings().Schedule.MaxBreedTimes(); got != 3 {
		t.Fatalf("expected maxBreedTimes untouched, got %d", got)
	}

	before := f.svc.random
	if err := f.svc.UpdateRandomService(ctx, "admin", "seeded:9"); !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if f.svc.random != before {
		t.Fatalf("expected random source untouched")
	}
	if got := f.svc.Settings().RandomService; got != "" {
		t.Fatalf("expected random service untouched, got %q", got)
	}
}

func TestLoadSettings_SeedsWhenEmpty(t *testing.T) {
	f := newFixtureWith(t, func(st *Settings) { st.GenesisCap = 12 })
	repo := &testSettingsRepo{}
	f.svc.settingsRepo = repo

	if err := f.svc.LoadSettings(context.Background()); err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if repo.saves != 1 {
		t.Fatalf("expected initial settings to be saved, got %d saves", repo.saves)
	}
	stored, err := DecodeSettings(repo.doc)
	if err != nil {
		t.Fatalf("DecodeSettings error: %v", err)
	}
	if stored.GenesisCap != 12 || stored.Treasury != "treasury" {
		t.Fatalf("unexpected seeded settings: %+v", stored)
	}
}

func TestLoadSettings_ResolvesStoredRandomService(t *testing.T) {
	f := newFixture(t)
	st := f.svc.Settings()
	st.RandomService = "broken"
	doc, err := EncodeSettings(st)
	if err != nil {
		t.Fatalf("EncodeSettings error: %v", err)
	}
	f.svc.settingsRepo = &testSettingsRepo{doc: doc}

	if err := f.svc.LoadSettings(context.Background()); !errors.Is(err, ErrRandomServiceBad) {
		t.Fatalf("expected ErrRandomServiceBad, got %v", err)
	}
}

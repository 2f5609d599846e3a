package passes

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"pass-breeding/internal/domain/genetics"
	"pass-breeding/internal/domain/schedule"
)

const (
	DefaultGenesisCap         = 300
	DefaultLaunchpadMaxSupply = 81
	DefaultSingerCount        = 3

	// LaunchpadClass es el único tier que se mintea por launchpad.
	LaunchpadClass = genetics.ClassSilver
)

// Settings es la configuración mutable en runtime. La posee el Service y solo
// cambia por las operaciones admin.
type Settings struct {
	Schedule   *schedule.Schedule
	ClassRates schedule.ClassRates

	Treasury      string
	RandomService string
	FeeTokenA     string
	FeeTokenB     string
	BaseURI       string

	LaunchpadAccount   string
	LaunchpadMaxSupply uint64

	GenesisCap  uint64
	SingerCount uint32
}

func DefaultSettings() Settings {
	return Settings{
		Schedule:           schedule.Default(),
		ClassRates:         schedule.DefaultClassRates(),
		LaunchpadMaxSupply: DefaultLaunchpadMaxSupply,
		GenesisCap:         DefaultGenesisCap,
		SingerCount:        DefaultSingerCount,
	}
}

func (s Settings) clone() Settings {
	out := s
	if s.Schedule != nil {
		out.Schedule = s.Schedule.Clone()
	}
	return out
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Schedule == nil {
		s.Schedule = d.Schedule
	}
	if s.ClassRates == (schedule.ClassRates{}) {
		s.ClassRates = d.ClassRates
	}
	if s.LaunchpadMaxSupply == 0 {
		s.LaunchpadMaxSupply = d.LaunchpadMaxSupply
	}
	if s.GenesisCap == 0 {
		s.GenesisCap = d.GenesisCap
	}
	if s.SingerCount == 0 {
		s.SingerCount = d.SingerCount
	}
	return s
}

type settingsDoc struct {
	Tiers      []tierDoc `json:"tiers"`
	ClassRates struct {
		Same [genetics.ClassCount][genetics.ClassCount]uint8 `json:"same"`
		Diff [genetics.ClassCount][genetics.ClassCount]uint8 `json:"diff"`
	} `json:"class_rates"`

	Treasury      string `json:"treasury"`
	RandomService string `json:"random_service"`
	FeeTokenA     string `json:"fee_token_a"`
	FeeTokenB     string `json:"fee_token_b"`
	BaseURI       string `json:"base_uri"`

	LaunchpadAccount   string `json:"launchpad_account"`
	LaunchpadMaxSupply uint64 `json:"launchpad_max_supply"`

	GenesisCap  uint64 `json:"genesis_cap"`
	SingerCount uint32 `json:"singer_count"`
}

// Fees en decimal: no entran en un número JSON.
type tierDoc struct {
	CooldownSeconds int64  `json:"cooldown_seconds"`
	CooldownNanos   int64  `json:"cooldown_nanos,omitempty"`
	FeeA            string `json:"fee_a"`
	FeeB            string `json:"fee_b"`
}

// EncodeSettings serializa Settings al documento que guarda SettingsRepository.
func EncodeSettings(st Settings) ([]byte, error) {
	st = st.withDefaults()
	doc := settingsDoc{
		Treasury:           st.Treasury,
		RandomService:      st.RandomService,
		FeeTokenA:          st.FeeTokenA,
		FeeTokenB:          st.FeeTokenB,
		BaseURI:            st.BaseURI,
		LaunchpadAccount:   st.LaunchpadAccount,
		LaunchpadMaxSupply: st.LaunchpadMaxSupply,
		GenesisCap:         st.GenesisCap,
		SingerCount:        st.SingerCount,
	}
	doc.ClassRates.Same = st.ClassRates.Same
	doc.ClassRates.Diff = st.ClassRates.Diff
	for _, t := range st.Schedule.Tiers() {
		doc.Tiers = append(doc.Tiers, tierDoc{
			CooldownSeconds: int64(t.Cooldown / time.Second),
			CooldownNanos:   int64(t.Cooldown % time.Second),
			FeeA:            t.FeeA.String(),
			FeeB:            t.FeeB.String(),
		})
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	return b, nil
}

// DecodeSettings es la inversa de EncodeSettings; valida la tabla al cargarla.
func DecodeSettings(b []byte) (Settings, error) {
	var doc settingsDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}

	tiers := make([]schedule.Tier, 0, len(doc.Tiers))
	for i, td := range doc.Tiers {
		feeA, okA := new(big.Int).SetString(td.FeeA, 10)
		feeB, okB := new(big.Int).SetString(td.FeeB, 10)
		if !okA || !okB {
			return Settings{}, fmt.Errorf("settings tier %d: invalid fee", i)
		}
		tiers = append(tiers, schedule.Tier{
			Cooldown: time.Duration(td.CooldownSeconds)*time.Second + time.Duration(td.CooldownNanos),
			FeeA:     feeA,
			FeeB:     feeB,
		})
	}
	sched, err := schedule.New(tiers)
	if err != nil {
		return Settings{}, fmt.Errorf("settings schedule: %w", err)
	}

	st := Settings{
		Schedule:           sched,
		ClassRates:         schedule.ClassRates{Same: doc.ClassRates.Same, Diff: doc.ClassRates.Diff},
		Treasury:           doc.Treasury,
		RandomService:      doc.RandomService,
		FeeTokenA:          doc.FeeTokenA,
		FeeTokenB:          doc.FeeTokenB,
		BaseURI:            doc.BaseURI,
		LaunchpadAccount:   doc.LaunchpadAccount,
		LaunchpadMaxSupply: doc.LaunchpadMaxSupply,
		GenesisCap:         doc.GenesisCap,
		SingerCount:        doc.SingerCount,
	}
	return st.withDefaults(), nil
}

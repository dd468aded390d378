package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/core"
)

func newTestReducer(t *testing.T) *Reducer {
	t.Helper()
	cat, err := config.DefaultCatalog()
	require.NoError(t, err)
	return NewReducer(cat)
}

func stateWith(upgrades map[string]int) State {
	s := NewState(0)
	for id, lvl := range upgrades {
		s.Upgrades[id] = lvl
	}
	return s
}

type unknownAction struct{}

func (unknownAction) Kind() string { return "unknown" }

func TestRejectedTransitionsLeaveStateUnchanged(t *testing.T) {
	r := newTestReducer(t)

	poor := NewState(1000)
	poor.Resources[core.Energy] = 5

	maxed := NewState(1000)
	maxed.CurrentEpochIndex = 3
	maxed.Resources[core.Quark] = 1e6
	maxed.Upgrades[ProtonUnlock] = 1

	gated := NewState(1000)
	gated.Resources[core.Energy] = 1e6

	last := NewState(1000)
	last.CurrentEpochIndex = 6
	last.Resources[core.Star] = 1e9

	tests := []struct {
		name   string
		state  State
		action Action
	}{
		{"unaffordable upgrade", poor, BuyUpgrade{ID: EnergyClick1}},
		{"unknown upgrade", poor, BuyUpgrade{ID: "warp_drive"}},
		{"max level upgrade", maxed, BuyUpgrade{ID: ProtonUnlock}},
		{"epoch gated upgrade", gated, BuyUpgrade{ID: "quark_click_1"}},
		{"unaffordable epoch", poor, AdvanceEpoch{}},
		{"last epoch", last, AdvanceEpoch{}},
		{"unaffordable prestige upgrade", poor, BuyPrestigeUpgrade{ID: PrimordialPower}},
		{"unknown prestige upgrade", poor, BuyPrestigeUpgrade{ID: "nope"}},
		{"unknown action", poor, unknownAction{}},
		{"nil action", poor, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.state.Clone()
			got := r.Reduce(tt.state, tt.action)
			assert.Equal(t, before, got)
			assert.Equal(t, before, tt.state, "input state was modified")
		})
	}
}

func TestBuyUpgrade(t *testing.T) {
	r := newTestReducer(t)
	s := NewState(0)
	s.Resources[core.Energy] = 30

	next := r.Reduce(s, BuyUpgrade{ID: EnergyClick1})
	assert.Equal(t, 1, next.Level(EnergyClick1))
	assert.Equal(t, 20.0, next.Resources[core.Energy])
	assert.Equal(t, 0, s.Level(EnergyClick1), "input upgrades map was modified")

	// floor(10 * 1.15) = 11
	next = r.Reduce(next, BuyUpgrade{ID: EnergyClick1})
	assert.Equal(t, 2, next.Level(EnergyClick1))
	assert.Equal(t, 9.0, next.Resources[core.Energy])
}

func TestAdvanceEpoch(t *testing.T) {
	r := newTestReducer(t)
	s := NewState(0)
	s.Resources[core.Energy] = 150

	next := r.Reduce(s, AdvanceEpoch{})
	assert.Equal(t, 1, next.CurrentEpochIndex)
	assert.Equal(t, 50.0, next.Resources[core.Energy])
	assert.Equal(t, 0, s.CurrentEpochIndex)
}

func TestClickCombo(t *testing.T) {
	r := newTestReducer(t)
	s := NewState(0)

	s = r.Reduce(s, Click{At: 10_000})
	assert.Equal(t, 1, s.ComboCount)

	s = r.Reduce(s, Click{At: 10_500})
	assert.Equal(t, 2, s.ComboCount)

	s = r.Reduce(s, Click{At: 10_999})
	assert.Equal(t, 3, s.ComboCount)

	// More than the decay window later: reset regardless of the prior count.
	s.ComboCount = 77
	s = r.Reduce(s, Click{At: 12_500})
	assert.Equal(t, 1, s.ComboCount)
	assert.Equal(t, int64(12_500), s.LastClickTimestamp)
	assert.Equal(t, 4, s.TotalClicks)
}

func TestClickMultipliers(t *testing.T) {
	r := newTestReducer(t)
	frenzy, ok := r.Catalog().Event("click_frenzy")
	require.True(t, ok)

	tests := []struct {
		name   string
		setup  func(*State)
		crit   bool
		energy float64
	}{
		{name: "plain", energy: 1},
		{name: "critical", crit: true, energy: 10},
		{
			name:   "combo tier",
			setup:  func(s *State) { s.ComboCount = 9; s.LastClickTimestamp = 9_900 },
			energy: 1.5,
		},
		{
			name:   "event and crit",
			setup:  func(s *State) { s.ActiveEvent = &ActiveEvent{Event: frenzy} },
			crit:   true,
			energy: 50,
		},
		{
			name:   "achievement bonus",
			setup:  func(s *State) { s.AchievementBonus = &AchievementBonus{Multiplier: 2, EndTime: 1e9} },
			energy: 2,
		},
		{
			name:   "primordial power",
			setup:  func(s *State) { s.PrestigeUpgrades[PrimordialPower] = 5 },
			energy: 1.1,
		},
		{
			name:   "click upgrade",
			setup:  func(s *State) { s.Upgrades[EnergyClick1] = 4 },
			energy: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(0)
			if tt.setup != nil {
				tt.setup(&s)
			}
			next := r.Reduce(s, Click{Critical: tt.crit, At: 10_000})
			assert.InDelta(t, tt.energy, next.Resources[core.Energy], 1e-9)
		})
	}
}

func TestClickChainScenario(t *testing.T) {
	r := newTestReducer(t)
	s := stateWith(map[string]int{ProtonUnlock: 1, AtomUnlock: 1, "quark_click_1": 3})
	s.Resources[core.Quark] = 3

	next := r.Reduce(s, Click{At: 5_000})

	gained := 3.0
	assert.Equal(t, 1.0, next.Resources[core.Atom])
	assert.Equal(t, 0.0, next.Resources[core.Proton])
	assert.Equal(t, 3+gained-QuarksPerProton, next.Resources[core.Quark])
}

func TestClickQuarkConservation(t *testing.T) {
	r := newTestReducer(t)

	tests := []struct {
		name    string
		owned   map[string]int
		quark   float64
		want    float64
		protons float64
	}{
		{"small conversion", map[string]int{ProtonUnlock: 1}, 5, 2, 1},
		{"large conversion", map[string]int{ProtonFormation: 1}, 150, 50, 1},
		{"both fire", map[string]int{ProtonUnlock: 1, ProtonFormation: 1}, 103, 0, 2},
		{"second step starved", map[string]int{ProtonUnlock: 1, ProtonFormation: 1}, 102, 99, 1},
		{"not enough", map[string]int{ProtonUnlock: 1}, 2, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stateWith(tt.owned)
			s.Resources[core.Quark] = tt.quark
			next := r.Reduce(s, Click{At: 5_000})
			assert.Equal(t, tt.want, next.Resources[core.Quark])
			assert.Equal(t, tt.protons, next.Resources[core.Proton])
			assert.GreaterOrEqual(t, next.Resources[core.Quark], 0.0)
		})
	}
}

func TestClickAtomUpgradeConversion(t *testing.T) {
	r := newTestReducer(t)

	s := stateWith(map[string]int{"atom_click_1": 2})
	s.Resources[core.Proton] = 5
	next := r.Reduce(s, Click{At: 5_000})
	assert.Equal(t, 3.0, next.Resources[core.Proton])
	assert.Equal(t, 2.0, next.Resources[core.Atom])

	// Not enough protons for the whole batch: nothing converts.
	s.Resources[core.Proton] = 1
	next = r.Reduce(s, Click{At: 5_000})
	assert.Equal(t, 1.0, next.Resources[core.Proton])
	assert.Equal(t, 0.0, next.Resources[core.Atom])
}

func TestClickStarFormation(t *testing.T) {
	r := newTestReducer(t)
	s := stateWith(map[string]int{StarUnlock: 1})
	s.Resources[core.Atom] = 1500
	s.TotalStarsEver = 10
	s.AchievementBonus = &AchievementBonus{Multiplier: 2, EndTime: 1e9}

	next := r.Reduce(s, Click{At: 5_000})
	assert.Equal(t, 500.0, next.Resources[core.Atom])
	assert.Equal(t, 2.0, next.Resources[core.Star])
	assert.Equal(t, 12.0, next.TotalStarsEver)
}

func TestTickScaling(t *testing.T) {
	r := newTestReducer(t)
	s := stateWith(map[string]int{"energy_idle_1": 3})
	s.LastTick = 1_000

	next := r.Reduce(s, Tick{At: 3_000})
	assert.InDelta(t, 6.0, next.Resources[core.Energy], 1e-9)
	assert.Equal(t, int64(3_000), next.LastTick)
}

func TestTickMultipliers(t *testing.T) {
	r := newTestReducer(t)
	cmb, ok := r.Catalog().Event("cmb_flash")
	require.True(t, ok)

	s := stateWith(map[string]int{"energy_idle_1": 1})
	s.ActiveEvent = &ActiveEvent{Event: cmb}
	s.AchievementBonus = &AchievementBonus{Multiplier: 2, EndTime: 1e9}
	s.PrestigeUpgrades[IdleArchitects] = 5
	s.PrestigeUpgrades[PrimordialPower] = 5

	next := r.Reduce(s, Tick{At: 1_000})
	assert.InDelta(t, 2*2*1.1*1.1, next.Resources[core.Energy], 1e-9)
}

func TestTickStarGravity(t *testing.T) {
	r := newTestReducer(t)
	s := stateWith(map[string]int{"star_idle_1": 10})
	s.Resources[core.DarkMatter] = 1000

	next := r.Reduce(s, Tick{At: 1_000})
	assert.InDelta(t, 2.0, next.Resources[core.Star], 1e-9)
	assert.InDelta(t, 2.0, next.TotalStarsEver, 1e-9)
}

func TestTickDarkMatterUsesPreTickStars(t *testing.T) {
	r := newTestReducer(t)
	s := stateWith(map[string]int{DarkMatterGeneration: 2, "star_idle_1": 10})
	s.Resources[core.Star] = 5000

	next := r.Reduce(s, Tick{At: 10_000})
	// (5000 / 1000) * 2 * 10 * 0.1
	assert.InDelta(t, 10.0, next.Resources[core.DarkMatter], 1e-9)
	assert.InDelta(t, 5010.0, next.Resources[core.Star], 1e-9)
}

func TestTickAutoClicker(t *testing.T) {
	r := newTestReducer(t)
	s := stateWith(map[string]int{DarkEnergyExpansion: 2, StarUnlock: 1})

	next := r.Reduce(s, Tick{At: 1_500})
	// 2 clicks/s for 1.5 s of the preview gains (1 energy, 1 star).
	assert.InDelta(t, 3.0, next.Resources[core.Energy], 1e-9)
	assert.InDelta(t, 3.0, next.Resources[core.Star], 1e-9)
	assert.InDelta(t, 3.0, next.TotalStarsEver, 1e-9)
	assert.Equal(t, 0, next.TotalClicks)
}

func TestTickBackwardsClock(t *testing.T) {
	r := newTestReducer(t)
	s := stateWith(map[string]int{"energy_idle_1": 3})
	s.LastTick = 5_000
	s.Resources[core.Energy] = 10

	next := r.Reduce(s, Tick{At: 4_000})
	assert.Equal(t, 10.0, next.Resources[core.Energy])
	assert.Equal(t, int64(4_000), next.LastTick)
}

func TestStartEventInstantGain(t *testing.T) {
	r := newTestReducer(t)
	s := NewState(0)
	s.Resources[core.Energy] = 10
	s.AchievementBonus = &AchievementBonus{Multiplier: 2, EndTime: 1e9}

	ev := config.RandomEvent{ID: "gift", DurationMs: 1000}
	ev.Effects.InstantGain[core.Energy] = 500

	next := r.Reduce(s, StartEvent{Event: ev, At: 42})
	assert.Equal(t, 1010.0, next.Resources[core.Energy])
	require.NotNil(t, next.ActiveEvent)
	assert.Equal(t, int64(42), next.ActiveEvent.StartTime)
	assert.Equal(t, int64(1042), next.ActiveEvent.EndTime())
	assert.Nil(t, s.ActiveEvent)

	ended := r.Reduce(next, EndEvent{})
	assert.Nil(t, ended.ActiveEvent)
	assert.NotNil(t, next.ActiveEvent)
}

func TestUnlockAchievementsKeepsFirstStamp(t *testing.T) {
	r := newTestReducer(t)
	s := NewState(0)

	s = r.Reduce(s, UnlockAchievements{IDs: []string{"first_click"}, At: 100})
	s2 := r.Reduce(s, UnlockAchievements{IDs: []string{"first_click", "energy_1k"}, At: 200})

	assert.Equal(t, int64(100), s2.UnlockedAchievements["first_click"])
	assert.Equal(t, int64(200), s2.UnlockedAchievements["energy_1k"])
	assert.False(t, s.Unlocked("energy_1k"), "input achievements map was modified")
}

func TestAwardSecretBonus(t *testing.T) {
	r := newTestReducer(t)
	s := NewState(0)
	s.CosmicEssence = 2
	assert.Equal(t, 3.0, r.Reduce(s, AwardSecretBonus{}).CosmicEssence)
}

func TestPrestigeGate(t *testing.T) {
	r := newTestReducer(t)

	s := NewState(0)
	s.CurrentEpochIndex = 5
	s.TotalStarsEver = 4_000_000
	assert.Equal(t, s, r.Reduce(s, Prestige{At: 1}))

	s.CurrentEpochIndex = 6
	s.TotalStarsEver = 999_999
	assert.Equal(t, s, r.Reduce(s, Prestige{At: 1}), "zero essence must be a no-op")
}

func TestPrestigeCollapse(t *testing.T) {
	r := newTestReducer(t)

	s := NewState(0)
	s.CurrentEpochIndex = 6
	s.TotalStarsEver = 4_000_000
	s.CosmicEssence = 3
	s.Resources[core.Energy] = 500
	s.Resources[core.Star] = 70
	s.Upgrades["energy_idle_1"] = 12
	s.TotalClicks = 42
	s.UnlockedAchievements["first_click"] = 5
	s.PrestigeUpgrades[PrimordialPower] = 2

	next := r.Reduce(s, Prestige{At: 9_000})

	assert.Equal(t, 5.0, next.CosmicEssence)
	assert.Equal(t, 0, next.CurrentEpochIndex)
	assert.Equal(t, core.Ledger{}, next.Resources)
	assert.Empty(t, next.Upgrades)
	assert.Equal(t, s.UnlockedAchievements, next.UnlockedAchievements)
	assert.Equal(t, s.PrestigeUpgrades, next.PrestigeUpgrades)
	assert.Equal(t, 42, next.TotalClicks)
	assert.Equal(t, 0.0, next.TotalStarsEver)
	assert.Equal(t, int64(9_000), next.LastTick)
}

func TestPrestigeCosmicMemory(t *testing.T) {
	r := newTestReducer(t)

	s := NewState(0)
	s.CurrentEpochIndex = 6
	s.TotalStarsEver = 1e6
	s.PrestigeUpgrades[CosmicMemory] = 1

	next := r.Reduce(s, Prestige{At: 1})
	assert.Equal(t, map[string]int{EnergyClick1: CosmicMemoryStartLevel}, next.Upgrades)
}

func TestBuyPrestigeUpgrade(t *testing.T) {
	r := newTestReducer(t)
	s := NewState(0)
	s.CosmicEssence = 3

	next := r.Reduce(s, BuyPrestigeUpgrade{ID: PrimordialPower})
	assert.Equal(t, 1, next.PrestigeLevel(PrimordialPower))
	assert.Equal(t, 2.0, next.CosmicEssence)
	assert.Equal(t, 0, s.PrestigeLevel(PrimordialPower))

	next.PrestigeUpgrades = map[string]int{CosmicMemory: 1}
	next.CosmicEssence = 100
	assert.Equal(t, next, r.Reduce(next, BuyPrestigeUpgrade{ID: CosmicMemory}))
}

func TestAchievementBonusLifecycle(t *testing.T) {
	r := newTestReducer(t)
	s := r.Reduce(NewState(0), StartAchievementBonus{At: 1_000})

	require.NotNil(t, s.AchievementBonus)
	assert.Equal(t, 2.0, s.AchievementBonus.Multiplier)
	assert.Equal(t, int64(31_000), s.AchievementBonus.EndTime)
	assert.Equal(t, 2.0, s.BonusMultiplier())

	s = r.Reduce(s, EndAchievementBonus{})
	assert.Nil(t, s.AchievementBonus)
	assert.Equal(t, 1.0, s.BonusMultiplier())
}

func TestResetSetStateAndRebase(t *testing.T) {
	r := newTestReducer(t)

	s := NewState(0)
	s.Resources[core.Energy] = 99
	s.CosmicEssence = 4
	s.TotalClicks = 7

	reset := r.Reduce(s, Reset{At: 500})
	assert.Equal(t, NewState(500), reset)

	loaded := NewState(1)
	loaded.CurrentEpochIndex = 4
	assert.Equal(t, loaded, r.Reduce(s, SetState{State: loaded}))

	rebased := r.Reduce(s, UpdateLastTick{At: 777})
	assert.Equal(t, int64(777), rebased.LastTick)
	rebased.LastTick = s.LastTick
	assert.Equal(t, s, rebased)
}

// TestMonotonicity drives a random action sequence without resets or
// collapses and checks the counters that must never go backwards.
func TestMonotonicity(t *testing.T) {
	r := newTestReducer(t)
	cat := r.Catalog()
	rng := rand.New(rand.NewSource(7))

	s := NewState(0)
	for i := range s.Resources {
		s.Resources[i] = 1e7
	}
	now := int64(0)

	for step := 0; step < 2000; step++ {
		now += int64(rng.Intn(400))
		var a Action
		switch rng.Intn(9) {
		case 0, 1:
			a = Click{Critical: rng.Float64() < 0.1, At: now}
		case 2:
			a = Tick{At: now}
		case 3:
			a = BuyUpgrade{ID: cat.Upgrades[rng.Intn(len(cat.Upgrades))].ID}
		case 4:
			a = AdvanceEpoch{}
		case 5:
			if ev, ok := PickEvent(cat, s.CurrentEpochIndex, rng); ok {
				a = StartEvent{Event: ev, At: now}
			}
		case 6:
			a = EndEvent{}
		case 7:
			a = UnlockAchievements{IDs: DetectAchievements(cat, s), At: now}
		case 8:
			a = StartAchievementBonus{At: now}
		}

		next := r.Reduce(s, a)

		require.GreaterOrEqual(t, next.TotalClicks, s.TotalClicks)
		require.GreaterOrEqual(t, next.CurrentEpochIndex, s.CurrentEpochIndex)
		require.GreaterOrEqual(t, next.TotalStarsEver, s.TotalStarsEver)
		for id, at := range s.UnlockedAchievements {
			require.Equal(t, at, next.UnlockedAchievements[id], "achievement %s changed", id)
		}
		if res, bad := next.Resources.Negative(); bad {
			t.Fatalf("step %d: %s went negative after %T", step, res, a)
		}
		s = next
	}
}

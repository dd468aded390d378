package game

import (
	"math"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/core"
)

// Reducer applies actions to states against a fixed content catalog.
// It holds no mutable state and is safe for concurrent use.
type Reducer struct {
	cat *config.Catalog
}

// NewReducer creates a reducer for the given catalog.
func NewReducer(cat *config.Catalog) *Reducer {
	return &Reducer{cat: cat}
}

// Catalog returns the catalog the reducer was built with.
func (r *Reducer) Catalog() *config.Catalog {
	return r.cat
}

// Reduce returns the state that results from applying a to s.
// Invalid transitions return s unchanged; s itself is never modified.
func (r *Reducer) Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Click:
		return r.click(s, a)
	case Tick:
		return r.tick(s, a)
	case BuyUpgrade:
		return r.buyUpgrade(s, a)
	case AdvanceEpoch:
		return r.advanceEpoch(s)
	case StartEvent:
		return startEvent(s, a)
	case EndEvent:
		s.ActiveEvent = nil
		return s
	case UnlockAchievements:
		return unlockAchievements(s, a)
	case AwardSecretBonus:
		s.CosmicEssence++
		return s
	case Prestige:
		return prestige(s, a)
	case BuyPrestigeUpgrade:
		return r.buyPrestigeUpgrade(s, a)
	case StartAchievementBonus:
		c := r.cat.Constants
		s.AchievementBonus = &AchievementBonus{
			Multiplier: c.AchievementBonusMultiplier,
			EndTime:    a.At + c.AchievementBonusDurationMs,
		}
		return s
	case EndAchievementBonus:
		s.AchievementBonus = nil
		return s
	case Reset:
		return NewState(a.At)
	case SetState:
		return a.State
	case UpdateLastTick:
		s.LastTick = a.At
		return s
	default:
		return s
	}
}

func (r *Reducer) click(s State, a Click) State {
	c := r.cat.Constants

	combo := 1
	if a.At-s.LastClickTimestamp < c.ComboDecayMs {
		combo = s.ComboCount + 1
	}
	mult := ComboMultiplier(c.ComboTiers, combo) * s.EventClickMultiplier()
	if a.Critical {
		mult *= c.CriticalMultiplier
	}
	bonus := s.BonusMultiplier()
	y := baseClickYield(r.cat, s)

	res := s.Resources
	res[core.Energy] += y.energy * mult * s.EnergyPrestigeMultiplier() * bonus
	if y.quark > 0 {
		res[core.Quark] += y.quark * mult * bonus
	}

	// Conversion chain. Each step sees the balance left by the previous one.
	if s.Owns(ProtonUnlock) && res[core.Quark] >= QuarksPerProton {
		res[core.Quark] -= QuarksPerProton
		res[core.Proton] += bonus
	}
	if s.Owns(ProtonFormation) && res[core.Quark] >= QuarksPerFormedProton {
		res[core.Quark] -= QuarksPerFormedProton
		res[core.Proton] += bonus
	}
	if s.Owns(AtomUnlock) && res[core.Proton] >= 1 {
		res[core.Proton]--
		res[core.Atom] += bonus
	}
	if y.atomUpgrade > 0 {
		n := math.Floor(y.atomUpgrade * mult)
		if res[core.Proton] >= n {
			res[core.Proton] -= n
			res[core.Atom] += n * bonus
		}
	}
	if s.Owns(StarUnlock) && res[core.Atom] >= AtomsPerStar {
		res[core.Atom] -= AtomsPerStar
		res[core.Star] += bonus
		s.TotalStarsEver += bonus
	}

	s.Resources = res
	s.LastClickTimestamp = a.At
	s.ComboCount = combo
	s.TotalClicks++
	return s
}

func (r *Reducer) tick(s State, a Tick) State {
	delta := float64(a.At-s.LastTick) / 1000
	if delta < 0 {
		delta = 0
	}

	idle := idleGains(r.cat, s, delta)
	res := s.Resources.Plus(idle)
	stars := s.TotalStarsEver + idle[core.Star]

	res[core.DarkMatter] += darkMatterGain(s, delta)

	if lvl := s.Level(DarkEnergyExpansion); lvl > 0 {
		auto := ClickGains(r.cat, s).Scale(float64(lvl) * delta)
		res = res.Plus(auto)
		stars += auto[core.Star]
	}

	s.Resources = res
	s.TotalStarsEver = stars
	s.LastTick = a.At
	return s
}

func (r *Reducer) buyUpgrade(s State, a BuyUpgrade) State {
	u, ok := r.cat.Upgrade(a.ID)
	if !ok || u.RequiredEpoch > s.CurrentEpochIndex {
		return s
	}
	lvl := s.Level(u.ID)
	if MaxedOut(u.MaxLevel, lvl) {
		return s
	}
	cost := UpgradeCost(u, lvl)
	if !s.Resources.Covers(u.CostResource, cost) {
		return s
	}

	s.Resources = s.Resources.Add(u.CostResource, -cost)
	s.Upgrades = cloneMap(s.Upgrades)
	s.Upgrades[u.ID] = lvl + 1
	return s
}

func (r *Reducer) advanceEpoch(s State) State {
	next, ok := NextEpoch(r.cat, s)
	if !ok || !s.Resources.Covers(next.UnlockResource, next.UnlockCost) {
		return s
	}
	s.Resources = s.Resources.Add(next.UnlockResource, -next.UnlockCost)
	s.CurrentEpochIndex++
	return s
}

func startEvent(s State, a StartEvent) State {
	bonus := s.BonusMultiplier()
	for _, res := range a.Event.Effects.InstantGain.NonZero() {
		s.Resources = s.Resources.Add(res, a.Event.Effects.InstantGain[res]*bonus)
	}
	s.ActiveEvent = &ActiveEvent{Event: a.Event, StartTime: a.At}
	return s
}

// unlockAchievements keeps the first unlock time of every achievement.
func unlockAchievements(s State, a UnlockAchievements) State {
	var fresh []string
	for _, id := range a.IDs {
		if id != "" && !s.Unlocked(id) {
			fresh = append(fresh, id)
		}
	}
	if len(fresh) == 0 {
		return s
	}
	s.UnlockedAchievements = cloneMap(s.UnlockedAchievements)
	for _, id := range fresh {
		s.UnlockedAchievements[id] = a.At
	}
	return s
}

func prestige(s State, a Prestige) State {
	if s.CurrentEpochIndex < PrestigeEpoch {
		return s
	}
	gained := EssenceForStars(s.TotalStarsEver)
	if gained <= 0 {
		return s
	}

	next := NewState(a.At)
	next.CosmicEssence = s.CosmicEssence + gained
	next.PrestigeUpgrades = cloneMap(s.PrestigeUpgrades)
	next.UnlockedAchievements = cloneMap(s.UnlockedAchievements)
	next.TotalClicks = s.TotalClicks
	if s.PrestigeLevel(CosmicMemory) > 0 {
		next.Upgrades[EnergyClick1] = CosmicMemoryStartLevel
	}
	return next
}

func (r *Reducer) buyPrestigeUpgrade(s State, a BuyPrestigeUpgrade) State {
	p, ok := r.cat.PrestigeUpgrade(a.ID)
	if !ok {
		return s
	}
	lvl := s.PrestigeLevel(p.ID)
	if MaxedOut(p.MaxLevel, lvl) {
		return s
	}
	cost := PrestigeCost(p, lvl)
	if s.CosmicEssence < cost {
		return s
	}

	s.CosmicEssence -= cost
	s.PrestigeUpgrades = cloneMap(s.PrestigeUpgrades)
	s.PrestigeUpgrades[p.ID] = lvl + 1
	return s
}

package game

import (
	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/core"
)

// clickYield is the unmultiplied per-click production derived from owned
// click effects. Click and ClickGains both start from it.
type clickYield struct {
	energy      float64
	quark       float64
	atomUpgrade float64 // protons converted to atoms per click
}

func baseClickYield(cat *config.Catalog, s State) clickYield {
	y := clickYield{energy: 1}
	for _, u := range cat.Upgrades {
		lvl := s.Level(u.ID)
		if lvl <= 0 {
			continue
		}
		for _, ef := range u.Effects {
			if ef.Kind != config.EffectClick {
				continue
			}
			v := ef.Value * float64(lvl)
			switch ef.Resource {
			case core.Energy:
				y.energy += v
			case core.Quark:
				y.quark += v
			case core.Atom:
				y.atomUpgrade += v
			}
		}
	}
	return y
}

// ComboMultiplier returns the multiplier of the highest tier whose count
// does not exceed comboCount, or 1 below the first tier.
func ComboMultiplier(tiers []config.ComboTier, comboCount int) float64 {
	mult := 1.0
	for _, t := range tiers {
		if comboCount >= t.Count {
			mult = t.Multiplier
		}
	}
	return mult
}

// ClickGains previews what one click yields in the current state, including
// combo, event and primordial power multipliers but not crits or the
// achievement bonus. The auto-clicker uses it as its per-click unit.
func ClickGains(cat *config.Catalog, s State) core.Ledger {
	y := baseClickYield(cat, s)
	combo := ComboMultiplier(cat.Constants.ComboTiers, s.ComboCount)
	ev := s.EventClickMultiplier()

	var g core.Ledger
	if y.energy > 0 {
		g[core.Energy] = y.energy * combo * ev * s.EnergyPrestigeMultiplier()
	}
	if y.quark > 0 {
		g[core.Quark] = y.quark * combo * ev
	}
	if s.Owns(ProtonUnlock) {
		g[core.Proton]++
	}
	if s.Owns(ProtonFormation) {
		g[core.Proton]++
	}
	if s.Owns(AtomUnlock) {
		g[core.Atom]++
	}
	if y.atomUpgrade > 0 {
		g[core.Atom] += y.atomUpgrade * combo * ev
	}
	if s.Owns(StarUnlock) {
		g[core.Star] = 1
	}
	return g
}

// idleGains is the idle effect production over delta seconds.
func idleGains(cat *config.Catalog, s State, delta float64) core.Ledger {
	var g core.Ledger
	common := delta * s.EventIdleMultiplier() * s.IdlePrestigeMultiplier() * s.BonusMultiplier()
	gravity := 1 + s.Resources[core.DarkMatter]*DarkMatterGravity

	for _, u := range cat.Upgrades {
		lvl := s.Level(u.ID)
		if lvl <= 0 {
			continue
		}
		for _, ef := range u.Effects {
			if ef.Kind != config.EffectIdle || !ef.Resource.Valid() {
				continue
			}
			gain := ef.Value * float64(lvl) * common
			switch ef.Resource {
			case core.Energy:
				gain *= s.EnergyPrestigeMultiplier()
			case core.Star:
				gain *= gravity
			}
			g[ef.Resource] += gain
		}
	}
	return g
}

// darkMatterGain is the dark matter generated over delta seconds from the
// current star stock.
func darkMatterGain(s State, delta float64) float64 {
	lvl := s.Level(DarkMatterGeneration)
	if lvl <= 0 {
		return 0
	}
	return (s.Resources[core.Star] / StarsPerDarkMatterUnit) * float64(lvl) * delta * DarkMatterRate
}

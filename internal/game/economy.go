package game

import (
	"math"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/core"
)

// Upgrade ids with hardcoded behavior.
const (
	ProtonUnlock         = "proton_unlock"
	ProtonFormation      = "proton_formation"
	AtomUnlock           = "atom_unlock"
	StarUnlock           = "star_unlock"
	DarkMatterGeneration = "dark_matter_generation"
	DarkEnergyExpansion  = "dark_energy_expansion"
	EnergyClick1         = "energy_click_1"

	PrimordialPower   = "primordial_power"
	IdleArchitects    = "idle_architects"
	CosmicMemory      = "cosmic_memory"
	CriticalCertainty = "critical_certainty"

	SecretStarAchievement = "secret_star"
)

// Fixed rules of the conversion chain and the prestige cycle.
const (
	QuarksPerProton        = 3    // proton_unlock conversion
	QuarksPerFormedProton  = 100  // proton_formation conversion
	AtomsPerStar           = 1000 // star_unlock conversion
	DarkMatterGravity      = 0.001
	DarkMatterRate         = 0.1
	StarsPerDarkMatterUnit = 1000
	PrestigeEpoch          = 6 // Galaxy Formation
	StarsPerEssenceSquared = 1e6
	PrestigeBonusPerLevel  = 0.02
	CriticalChancePerLevel = 0.001
	CosmicMemoryStartLevel = 5
)

// UpgradeCost is the price of the next level of u when level levels are owned.
func UpgradeCost(u config.Upgrade, level int) float64 {
	return math.Floor(u.BaseCost * math.Pow(u.CostMultiplier, float64(level)))
}

// PrestigeCost is the essence price of the next level of p.
func PrestigeCost(p config.PrestigeUpgrade, level int) float64 {
	return math.Floor(p.BaseCost * math.Pow(p.CostMultiplier, float64(level)))
}

// MaxedOut reports whether level has reached maxLevel (0 = uncapped).
func MaxedOut(maxLevel, level int) bool {
	return maxLevel > 0 && level >= maxLevel
}

// EssenceForStars returns the essence a collapse would yield.
func EssenceForStars(totalStarsEver float64) float64 {
	if totalStarsEver <= 0 {
		return 0
	}
	return math.Floor(math.Sqrt(totalStarsEver / StarsPerEssenceSquared))
}

// CanPrestige reports whether a collapse is possible right now.
func CanPrestige(s State) bool {
	return s.CurrentEpochIndex >= PrestigeEpoch && EssenceForStars(s.TotalStarsEver) > 0
}

// CriticalChance is the chance that a click is critical.
func CriticalChance(cat *config.Catalog, s State) float64 {
	return cat.Constants.CriticalChance + float64(s.PrestigeLevel(CriticalCertainty))*CriticalChancePerLevel
}

// NextEpoch returns the epoch after the current one, if any.
func NextEpoch(cat *config.Catalog, s State) (config.Epoch, bool) {
	next := s.CurrentEpochIndex + 1
	if next >= len(cat.Epochs) {
		return config.Epoch{}, false
	}
	return cat.Epochs[next], true
}

// UpgradeStatus summarizes one upgrade for display.
type UpgradeStatus struct {
	Upgrade    config.Upgrade
	Level      int
	Cost       float64
	Affordable bool
	Maxed      bool
}

// UpgradeStatuses lists the upgrades visible at the current epoch.
func UpgradeStatuses(cat *config.Catalog, s State) []UpgradeStatus {
	visible := cat.UpgradesForEpoch(s.CurrentEpochIndex)
	out := make([]UpgradeStatus, 0, len(visible))
	for _, u := range visible {
		lvl := s.Level(u.ID)
		cost := UpgradeCost(u, lvl)
		maxed := MaxedOut(u.MaxLevel, lvl)
		out = append(out, UpgradeStatus{
			Upgrade:    u,
			Level:      lvl,
			Cost:       cost,
			Maxed:      maxed,
			Affordable: !maxed && s.Resources.Covers(u.CostResource, cost),
		})
	}
	return out
}

// IdleRates returns idle production per second with all multipliers of the
// current state applied. The auto-clicker is not included.
func IdleRates(cat *config.Catalog, s State) core.Ledger {
	g := idleGains(cat, s, 1)
	g[core.DarkMatter] += darkMatterGain(s, 1)
	return g
}

// DarkMatterPerSecond returns dark matter generated per second.
func DarkMatterPerSecond(s State) float64 {
	return darkMatterGain(s, 1)
}

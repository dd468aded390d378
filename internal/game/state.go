// Package game implements the cosmic clicker rules as a pure reducer:
// Reduce(state, action) returns the next state without touching the input.
package game

import (
	"maps"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/core"
)

// ActiveEvent is the random event currently in effect.
type ActiveEvent struct {
	Event     config.RandomEvent `json:"event"`
	StartTime int64              `json:"startTime"` // unix millis
}

// EndTime returns when the event expires.
func (e ActiveEvent) EndTime() int64 {
	return e.StartTime + e.Event.DurationMs
}

// AchievementBonus is the timed global multiplier granted after an
// achievement popup is dismissed.
type AchievementBonus struct {
	Multiplier float64 `json:"multiplier"`
	EndTime    int64   `json:"endTime"` // unix millis
}

// State is one immutable snapshot of a game. Snapshots may share maps with
// the snapshot they were derived from, so maps must never be written in
// place; use Clone first.
type State struct {
	Resources            core.Ledger       `json:"resources"`
	Upgrades             map[string]int    `json:"upgrades"`
	CurrentEpochIndex    int               `json:"currentEpochIndex"`
	LastTick             int64             `json:"lastTick"`
	ComboCount           int               `json:"comboCount"`
	LastClickTimestamp   int64             `json:"lastClickTimestamp"`
	ActiveEvent          *ActiveEvent      `json:"activeEvent"`
	TotalClicks          int               `json:"totalClicks"`
	UnlockedAchievements map[string]int64  `json:"unlockedAchievements"`
	CosmicEssence        float64           `json:"cosmicEssence"`
	PrestigeUpgrades     map[string]int    `json:"prestigeUpgrades"`
	TotalStarsEver       float64           `json:"totalStarsEver"`
	AchievementBonus     *AchievementBonus `json:"achievementBonus"`
}

// NewState returns the default starting state with lastTick set to now.
func NewState(now int64) State {
	return State{
		Upgrades:             map[string]int{},
		UnlockedAchievements: map[string]int64{},
		PrestigeUpgrades:     map[string]int{},
		LastTick:             now,
	}
}

// Clone returns a deep copy that shares nothing with s.
func (s State) Clone() State {
	c := s
	c.Upgrades = cloneMap(s.Upgrades)
	c.UnlockedAchievements = cloneMap(s.UnlockedAchievements)
	c.PrestigeUpgrades = cloneMap(s.PrestigeUpgrades)
	if s.ActiveEvent != nil {
		ev := *s.ActiveEvent
		c.ActiveEvent = &ev
	}
	if s.AchievementBonus != nil {
		b := *s.AchievementBonus
		c.AchievementBonus = &b
	}
	return c
}

// Level returns the owned level of a production upgrade.
func (s State) Level(id string) int {
	return s.Upgrades[id]
}

// PrestigeLevel returns the owned level of a prestige upgrade.
func (s State) PrestigeLevel(id string) int {
	return s.PrestigeUpgrades[id]
}

// Owns reports whether at least one level of the upgrade is owned.
func (s State) Owns(id string) bool {
	return s.Upgrades[id] > 0
}

// Unlocked reports whether the achievement has been earned.
func (s State) Unlocked(id string) bool {
	_, ok := s.UnlockedAchievements[id]
	return ok
}

// TotalUpgradeLevels sums the levels of all owned production upgrades.
func (s State) TotalUpgradeLevels() int {
	total := 0
	for _, lvl := range s.Upgrades {
		total += lvl
	}
	return total
}

// BonusMultiplier is the achievement bonus multiplier, or 1 without a bonus.
func (s State) BonusMultiplier() float64 {
	if s.AchievementBonus == nil {
		return 1
	}
	return s.AchievementBonus.Multiplier
}

// EventClickMultiplier is the active event's click multiplier, or 1.
func (s State) EventClickMultiplier() float64 {
	if s.ActiveEvent == nil {
		return 1
	}
	return s.ActiveEvent.Event.Effects.Click()
}

// EventIdleMultiplier is the active event's idle multiplier, or 1.
func (s State) EventIdleMultiplier() float64 {
	if s.ActiveEvent == nil {
		return 1
	}
	return s.ActiveEvent.Event.Effects.Idle()
}

// EnergyPrestigeMultiplier is the primordial power bonus on energy.
func (s State) EnergyPrestigeMultiplier() float64 {
	return 1 + float64(s.PrestigeLevel(PrimordialPower))*PrestigeBonusPerLevel
}

// IdlePrestigeMultiplier is the idle architects bonus on idle production.
func (s State) IdlePrestigeMultiplier() float64 {
	return 1 + float64(s.PrestigeLevel(IdleArchitects))*PrestigeBonusPerLevel
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return maps.Clone(m)
}

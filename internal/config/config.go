// Package config provides the YAML-backed content catalog (epochs, upgrades,
// events, achievements, tuning constants) and the player settings file.
package config

import (
	"sort"

	"github.com/vovakirdan/cosmic-clicker/internal/core"
)

// EffectKind tells whether an upgrade effect applies per click or per second.
type EffectKind string

const (
	EffectClick EffectKind = "click"
	EffectIdle  EffectKind = "idle"
)

// Effect is one production effect of an upgrade. Value is per owned level.
type Effect struct {
	Kind     EffectKind
	Resource core.Resource
	Value    float64
}

// Upgrade is a purchasable production upgrade.
type Upgrade struct {
	ID             string
	Name           string
	Description    string
	FlavorText     string
	CostResource   core.Resource
	BaseCost       float64
	CostMultiplier float64
	MaxLevel       int // 0 means uncapped
	Effects        []Effect
	RequiredEpoch  int
	Parents        []string // prerequisites, display only
}

// Epoch is one stage of the cosmic timeline.
type Epoch struct {
	Name           string
	Time           string // narrative timestamp, e.g. "10^-43 s"
	Description    string
	UnlockCost     float64
	UnlockResource core.Resource
}

// PrestigeUpgrade is bought with cosmic essence and survives collapses.
type PrestigeUpgrade struct {
	ID             string
	Name           string
	Description    string // may contain %d for the next level
	BaseCost       float64
	CostMultiplier float64
	MaxLevel       int
}

// EventEffects are the modifiers applied while a random event is active.
// A zero multiplier means the event does not touch that multiplier.
type EventEffects struct {
	IdleMultiplier  float64     `json:"idleMultiplier,omitempty"`
	ClickMultiplier float64     `json:"clickMultiplier,omitempty"`
	InstantGain     core.Ledger `json:"instantGain"`
}

// Idle returns the idle multiplier, defaulting to 1.
func (e EventEffects) Idle() float64 {
	if e.IdleMultiplier == 0 {
		return 1
	}
	return e.IdleMultiplier
}

// Click returns the click multiplier, defaulting to 1.
func (e EventEffects) Click() float64 {
	if e.ClickMultiplier == 0 {
		return 1
	}
	return e.ClickMultiplier
}

// RandomEvent is a timed cosmic event. The struct is embedded in saves, so it
// carries JSON tags.
type RandomEvent struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	DurationMs    int64        `json:"duration"`
	Effects       EventEffects `json:"effects"`
	Weight        float64      `json:"weight"`
	VisualEffect  string       `json:"visualEffect,omitempty"`
	RequiredEpoch int          `json:"requiredEpoch"`
}

// ConditionKind selects how an achievement is detected.
type ConditionKind string

const (
	ConditionResource     ConditionKind = "resource"
	ConditionUpgradeLevel ConditionKind = "upgrade_level" // sum of all owned levels
	ConditionEpoch        ConditionKind = "epoch"
	ConditionClicks       ConditionKind = "clicks"
	ConditionEvent        ConditionKind = "event"  // unlocked when the event starts
	ConditionSecret       ConditionKind = "secret" // unlocked by the hidden star only
)

// Condition describes when an achievement unlocks.
type Condition struct {
	Kind     ConditionKind
	Resource core.Resource // for ConditionResource
	Amount   float64       // threshold for numeric kinds
	EventID  string        // for ConditionEvent
}

// Achievement is a one-time milestone.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Condition   Condition
	Secret      bool
}

// CosmicLaw is the physics note shown when an epoch is reached.
type CosmicLaw struct {
	EpochIndex  int
	Title       string
	Formula     string
	Explanation string
}

// ComboTier is a combo multiplier bracket.
type ComboTier struct {
	Count      int     // minimum combo count
	Multiplier float64 // applied to click gains
}

// Constants holds the numeric tuning of the game. Durations are milliseconds.
type Constants struct {
	ComboDecayMs               int64
	ComboTiers                 []ComboTier // ascending by Count
	CriticalChance             float64
	CriticalMultiplier         float64
	AchievementBonusMultiplier float64
	AchievementBonusDurationMs int64
	RandomEventIntervalMs      int64
	RandomEventChance          float64
	TickIntervalMs             int64
	AutosaveIntervalMs         int64
	CometIntervalMs            int64 // how often a comet appears
	CometWindowMs              int64 // how long it can be caught
	CometEventDurationMs       int64
	MaxOfflineSeconds          float64 // 0 = uncapped
}

// Catalog is the read-only game content.
type Catalog struct {
	Epochs           []Epoch
	Upgrades         []Upgrade // display order
	PrestigeUpgrades []PrestigeUpgrade
	Events           []RandomEvent
	Achievements     []Achievement
	Laws             []CosmicLaw
	Constants        Constants

	upgradeIdx     map[string]int
	prestigeIdx    map[string]int
	eventIdx       map[string]int
	achievementIdx map[string]int
}

// index builds the lookup tables. Called by the parser after validation.
func (c *Catalog) index() {
	c.upgradeIdx = make(map[string]int, len(c.Upgrades))
	for i, u := range c.Upgrades {
		c.upgradeIdx[u.ID] = i
	}
	c.prestigeIdx = make(map[string]int, len(c.PrestigeUpgrades))
	for i, p := range c.PrestigeUpgrades {
		c.prestigeIdx[p.ID] = i
	}
	c.eventIdx = make(map[string]int, len(c.Events))
	for i, e := range c.Events {
		c.eventIdx[e.ID] = i
	}
	c.achievementIdx = make(map[string]int, len(c.Achievements))
	for i, a := range c.Achievements {
		c.achievementIdx[a.ID] = i
	}
	sort.SliceStable(c.Constants.ComboTiers, func(i, j int) bool {
		return c.Constants.ComboTiers[i].Count < c.Constants.ComboTiers[j].Count
	})
}

// Upgrade looks up a production upgrade by id.
func (c *Catalog) Upgrade(id string) (Upgrade, bool) {
	i, ok := c.upgradeIdx[id]
	if !ok {
		return Upgrade{}, false
	}
	return c.Upgrades[i], true
}

// PrestigeUpgrade looks up a prestige upgrade by id.
func (c *Catalog) PrestigeUpgrade(id string) (PrestigeUpgrade, bool) {
	i, ok := c.prestigeIdx[id]
	if !ok {
		return PrestigeUpgrade{}, false
	}
	return c.PrestigeUpgrades[i], true
}

// Event looks up a random event by id.
func (c *Catalog) Event(id string) (RandomEvent, bool) {
	i, ok := c.eventIdx[id]
	if !ok {
		return RandomEvent{}, false
	}
	return c.Events[i], true
}

// Achievement looks up an achievement by id.
func (c *Catalog) Achievement(id string) (Achievement, bool) {
	i, ok := c.achievementIdx[id]
	if !ok {
		return Achievement{}, false
	}
	return c.Achievements[i], true
}

// Law returns the cosmic law introduced at the given epoch.
func (c *Catalog) Law(epochIndex int) (CosmicLaw, bool) {
	for _, l := range c.Laws {
		if l.EpochIndex == epochIndex {
			return l, true
		}
	}
	return CosmicLaw{}, false
}

// LastEpoch returns the index of the final epoch.
func (c *Catalog) LastEpoch() int {
	return len(c.Epochs) - 1
}

// UpgradesForEpoch lists the upgrades visible at the given epoch.
func (c *Catalog) UpgradesForEpoch(epochIndex int) []Upgrade {
	var out []Upgrade
	for _, u := range c.Upgrades {
		if u.RequiredEpoch <= epochIndex {
			out = append(out, u)
		}
	}
	return out
}

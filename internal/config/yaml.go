package config

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/cosmic-clicker/internal/core"
)

// ErrInvalidCatalog is returned when content parses but is inconsistent.
var ErrInvalidCatalog = errors.New("invalid catalog")

// yamlCatalog mirrors content.yaml. Resources are names, converted on parse.
type yamlCatalog struct {
	Constants        yamlConstants         `yaml:"constants"`
	Epochs           []yamlEpoch           `yaml:"epochs"`
	Upgrades         []yamlUpgrade         `yaml:"upgrades"`
	PrestigeUpgrades []yamlPrestigeUpgrade `yaml:"prestige_upgrades"`
	Events           []yamlEvent           `yaml:"events"`
	Achievements     []yamlAchievement     `yaml:"achievements"`
	Laws             []yamlLaw             `yaml:"laws"`
}

type yamlConstants struct {
	ComboDecayMs               int64           `yaml:"combo_decay_ms"`
	ComboTiers                 []yamlComboTier `yaml:"combo_tiers"`
	CriticalChance             float64         `yaml:"critical_chance"`
	CriticalMultiplier         float64         `yaml:"critical_multiplier"`
	AchievementBonusMultiplier float64         `yaml:"achievement_bonus_multiplier"`
	AchievementBonusDurationMs int64           `yaml:"achievement_bonus_duration_ms"`
	RandomEventIntervalMs      int64           `yaml:"random_event_interval_ms"`
	RandomEventChance          float64         `yaml:"random_event_chance"`
	TickIntervalMs             int64           `yaml:"tick_interval_ms"`
	AutosaveIntervalMs         int64           `yaml:"autosave_interval_ms"`
	CometIntervalMs            int64           `yaml:"comet_interval_ms"`
	CometWindowMs              int64           `yaml:"comet_window_ms"`
	CometEventDurationMs       int64           `yaml:"comet_event_duration_ms"`
	MaxOfflineSeconds          float64         `yaml:"max_offline_seconds"`
}

type yamlComboTier struct {
	Count      int     `yaml:"count"`
	Multiplier float64 `yaml:"multiplier"`
}

type yamlEpoch struct {
	Name           string  `yaml:"name"`
	Time           string  `yaml:"time"`
	Description    string  `yaml:"description"`
	UnlockCost     float64 `yaml:"unlock_cost"`
	UnlockResource string  `yaml:"unlock_resource"`
}

type yamlEffect struct {
	Kind     string  `yaml:"kind"`
	Resource string  `yaml:"resource"`
	Value    float64 `yaml:"value"`
}

type yamlUpgrade struct {
	ID             string       `yaml:"id"`
	Name           string       `yaml:"name"`
	Description    string       `yaml:"description"`
	FlavorText     string       `yaml:"flavor_text"`
	CostResource   string       `yaml:"cost_resource"`
	BaseCost       float64      `yaml:"base_cost"`
	CostMultiplier float64      `yaml:"cost_multiplier"`
	MaxLevel       int          `yaml:"max_level,omitempty"`
	Effects        []yamlEffect `yaml:"effects"`
	RequiredEpoch  int          `yaml:"required_epoch"`
	Parents        []string     `yaml:"parents,omitempty"`
}

type yamlPrestigeUpgrade struct {
	ID             string  `yaml:"id"`
	Name           string  `yaml:"name"`
	Description    string  `yaml:"description"`
	BaseCost       float64 `yaml:"base_cost"`
	CostMultiplier float64 `yaml:"cost_multiplier"`
	MaxLevel       int     `yaml:"max_level,omitempty"`
}

type yamlEvent struct {
	ID              string             `yaml:"id"`
	Name            string             `yaml:"name"`
	Description     string             `yaml:"description"`
	DurationMs      int64              `yaml:"duration_ms"`
	IdleMultiplier  float64            `yaml:"idle_multiplier,omitempty"`
	ClickMultiplier float64            `yaml:"click_multiplier,omitempty"`
	InstantGain     map[string]float64 `yaml:"instant_gain,omitempty"`
	Weight          float64            `yaml:"weight"`
	VisualEffect    string             `yaml:"visual_effect,omitempty"`
	RequiredEpoch   int                `yaml:"required_epoch"`
}

type yamlAchievement struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Kind        string  `yaml:"kind"`
	Resource    string  `yaml:"resource,omitempty"`
	Target      float64 `yaml:"target,omitempty"`
	Event       string  `yaml:"event,omitempty"`
	Secret      bool    `yaml:"secret,omitempty"`
}

type yamlLaw struct {
	Epoch       int    `yaml:"epoch"`
	Title       string `yaml:"title"`
	Formula     string `yaml:"formula,omitempty"`
	Explanation string `yaml:"explanation"`
}

// ParseCatalog parses and validates a content YAML document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var yc yamlCatalog
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	cat := &Catalog{Constants: convertConstants(yc.Constants)}
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	for i, e := range yc.Epochs {
		r, err := core.ParseResource(e.UnlockResource)
		if err != nil {
			fail("epoch %d: %v", i, err)
		}
		if e.UnlockCost < 0 {
			fail("epoch %d: negative unlock cost", i)
		}
		cat.Epochs = append(cat.Epochs, Epoch{
			Name:           e.Name,
			Time:           e.Time,
			Description:    e.Description,
			UnlockCost:     e.UnlockCost,
			UnlockResource: r,
		})
	}
	if len(cat.Epochs) == 0 {
		fail("no epochs")
	}

	seen := map[string]bool{}
	for _, u := range yc.Upgrades {
		if u.ID == "" || seen[u.ID] {
			fail("upgrade %q: empty or duplicate id", u.ID)
		}
		seen[u.ID] = true
		r, err := core.ParseResource(u.CostResource)
		if err != nil {
			fail("upgrade %s: %v", u.ID, err)
		}
		if u.BaseCost <= 0 {
			fail("upgrade %s: base cost must be positive", u.ID)
		}
		mult := u.CostMultiplier
		if mult == 0 {
			mult = 1
		}
		if u.RequiredEpoch < 0 || u.RequiredEpoch >= len(yc.Epochs) {
			fail("upgrade %s: required epoch %d out of range", u.ID, u.RequiredEpoch)
		}
		up := Upgrade{
			ID:             u.ID,
			Name:           u.Name,
			Description:    u.Description,
			FlavorText:     u.FlavorText,
			CostResource:   r,
			BaseCost:       u.BaseCost,
			CostMultiplier: mult,
			MaxLevel:       u.MaxLevel,
			RequiredEpoch:  u.RequiredEpoch,
			Parents:        u.Parents,
		}
		for _, ef := range u.Effects {
			kind := EffectKind(strings.ToLower(ef.Kind))
			if kind != EffectClick && kind != EffectIdle {
				fail("upgrade %s: unknown effect kind %q", u.ID, ef.Kind)
			}
			er, err := core.ParseResource(ef.Resource)
			if err != nil {
				fail("upgrade %s: %v", u.ID, err)
			}
			up.Effects = append(up.Effects, Effect{Kind: kind, Resource: er, Value: ef.Value})
		}
		cat.Upgrades = append(cat.Upgrades, up)
	}
	for _, u := range cat.Upgrades {
		for _, p := range u.Parents {
			if !seen[p] {
				fail("upgrade %s: unknown parent %q", u.ID, p)
			}
		}
	}

	seen = map[string]bool{}
	for _, p := range yc.PrestigeUpgrades {
		if p.ID == "" || seen[p.ID] {
			fail("prestige upgrade %q: empty or duplicate id", p.ID)
		}
		seen[p.ID] = true
		if p.BaseCost <= 0 {
			fail("prestige upgrade %s: base cost must be positive", p.ID)
		}
		mult := p.CostMultiplier
		if mult == 0 {
			mult = 1
		}
		cat.PrestigeUpgrades = append(cat.PrestigeUpgrades, PrestigeUpgrade{
			ID:             p.ID,
			Name:           p.Name,
			Description:    p.Description,
			BaseCost:       p.BaseCost,
			CostMultiplier: mult,
			MaxLevel:       p.MaxLevel,
		})
	}

	seen = map[string]bool{}
	for _, e := range yc.Events {
		if e.ID == "" || seen[e.ID] {
			fail("event %q: empty or duplicate id", e.ID)
		}
		seen[e.ID] = true
		if e.Weight < 0 {
			fail("event %s: negative weight", e.ID)
		}
		if e.DurationMs <= 0 {
			fail("event %s: duration must be positive", e.ID)
		}
		ev := RandomEvent{
			ID:            e.ID,
			Name:          e.Name,
			Description:   e.Description,
			DurationMs:    e.DurationMs,
			Weight:        e.Weight,
			VisualEffect:  e.VisualEffect,
			RequiredEpoch: e.RequiredEpoch,
			Effects: EventEffects{
				IdleMultiplier:  e.IdleMultiplier,
				ClickMultiplier: e.ClickMultiplier,
			},
		}
		for name, v := range e.InstantGain {
			r, err := core.ParseResource(name)
			if err != nil {
				fail("event %s: %v", e.ID, err)
				continue
			}
			ev.Effects.InstantGain[r] = v
		}
		cat.Events = append(cat.Events, ev)
	}

	achSeen := map[string]bool{}
	for _, a := range yc.Achievements {
		if a.ID == "" || achSeen[a.ID] {
			fail("achievement %q: empty or duplicate id", a.ID)
		}
		achSeen[a.ID] = true
		cond := Condition{Kind: ConditionKind(a.Kind), Amount: a.Target, EventID: a.Event}
		switch cond.Kind {
		case ConditionResource:
			r, err := core.ParseResource(a.Resource)
			if err != nil {
				fail("achievement %s: %v", a.ID, err)
			}
			cond.Resource = r
		case ConditionUpgradeLevel, ConditionEpoch, ConditionClicks, ConditionSecret:
		case ConditionEvent:
			if !seen[a.Event] {
				fail("achievement %s: unknown event %q", a.ID, a.Event)
			}
		default:
			fail("achievement %s: unknown kind %q", a.ID, a.Kind)
		}
		cat.Achievements = append(cat.Achievements, Achievement{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Condition:   cond,
			Secret:      a.Secret || cond.Kind == ConditionSecret,
		})
	}

	for _, l := range yc.Laws {
		if l.Epoch < 0 || l.Epoch >= len(yc.Epochs) {
			fail("law %q: epoch %d out of range", l.Title, l.Epoch)
		}
		cat.Laws = append(cat.Laws, CosmicLaw{
			EpochIndex:  l.Epoch,
			Title:       l.Title,
			Formula:     l.Formula,
			Explanation: l.Explanation,
		})
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(errs, "; "))
	}

	cat.index()
	return cat, nil
}

// convertConstants fills unset constants from the built-in defaults.
func convertConstants(yc yamlConstants) Constants {
	def := DefaultConstants()
	c := Constants{
		ComboDecayMs:               orInt(yc.ComboDecayMs, def.ComboDecayMs),
		CriticalChance:             orFloat(yc.CriticalChance, def.CriticalChance),
		CriticalMultiplier:         orFloat(yc.CriticalMultiplier, def.CriticalMultiplier),
		AchievementBonusMultiplier: orFloat(yc.AchievementBonusMultiplier, def.AchievementBonusMultiplier),
		AchievementBonusDurationMs: orInt(yc.AchievementBonusDurationMs, def.AchievementBonusDurationMs),
		RandomEventIntervalMs:      orInt(yc.RandomEventIntervalMs, def.RandomEventIntervalMs),
		RandomEventChance:          orFloat(yc.RandomEventChance, def.RandomEventChance),
		TickIntervalMs:             orInt(yc.TickIntervalMs, def.TickIntervalMs),
		AutosaveIntervalMs:         orInt(yc.AutosaveIntervalMs, def.AutosaveIntervalMs),
		CometIntervalMs:            orInt(yc.CometIntervalMs, def.CometIntervalMs),
		CometWindowMs:              orInt(yc.CometWindowMs, def.CometWindowMs),
		CometEventDurationMs:       orInt(yc.CometEventDurationMs, def.CometEventDurationMs),
		MaxOfflineSeconds:          yc.MaxOfflineSeconds,
	}
	if len(yc.ComboTiers) == 0 {
		c.ComboTiers = def.ComboTiers
	}
	for _, t := range yc.ComboTiers {
		c.ComboTiers = append(c.ComboTiers, ComboTier(t))
	}
	return c
}

func orInt(v, def int64) int64 {
	if v == 0 {
		return def
	}
	return v
}

func orFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

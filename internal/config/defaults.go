package config

import (
	_ "embed"
	"fmt"
)

//go:embed defaults/content.yaml
var defaultContentYAML []byte

// DefaultConstants returns the built-in tuning used when content.yaml leaves
// a value unset.
func DefaultConstants() Constants {
	return Constants{
		ComboDecayMs: 1000,
		ComboTiers: []ComboTier{
			{Count: 10, Multiplier: 1.5},
			{Count: 25, Multiplier: 2},
			{Count: 50, Multiplier: 3},
			{Count: 100, Multiplier: 5},
		},
		CriticalChance:             0.05,
		CriticalMultiplier:         10,
		AchievementBonusMultiplier: 2,
		AchievementBonusDurationMs: 30_000,
		RandomEventIntervalMs:      15_000,
		RandomEventChance:          0.1,
		TickIntervalMs:             100,
		AutosaveIntervalMs:         30_000,
		CometIntervalMs:            90_000,
		CometWindowMs:              8_000,
		CometEventDurationMs:       3_000,
		MaxOfflineSeconds:          0, // uncapped
	}
}

// DefaultCatalog parses the embedded content.
func DefaultCatalog() (*Catalog, error) {
	cat, err := ParseCatalog(defaultContentYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded content: %w", err)
	}
	return cat, nil
}

// DefaultContentYAML returns the embedded content document.
func DefaultContentYAML() []byte {
	return defaultContentYAML
}

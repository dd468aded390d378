package config

import "math"

// Settings are player preferences, stored apart from game saves.
type Settings struct {
	MasterVolume       float64 `yaml:"master_volume"`        // 0.0 to 1.0, > 0 rings the bell on achievements
	LowPerformanceMode bool    `yaml:"low_performance_mode"` // halves the render rate
	ScientificNotation bool    `yaml:"scientific_notation"`  // 1.23e6 instead of 1.23M
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		MasterVolume:       0.5,
		LowPerformanceMode: false,
		ScientificNotation: false,
	}
}

// Normalize clamps values into their valid ranges.
func (s Settings) Normalize() Settings {
	if math.IsNaN(s.MasterVolume) {
		s.MasterVolume = DefaultSettings().MasterVolume
	}
	s.MasterVolume = clampF(s.MasterVolume, 0.0, 1.0)
	return s
}

// Muted reports whether sound cues are disabled.
func (s Settings) Muted() bool {
	return s.MasterVolume <= 0
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}

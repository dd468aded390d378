package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadCatalog loads the game content.
// Search order: customPath -> ~/.cosmic/content.yaml -> ./configs/content.yaml -> embedded default
func LoadCatalog(customPath string) (*Catalog, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read content %s: %w", customPath, err)
		}
		cat, err := ParseCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse content %s: %w", customPath, err)
		}
		return cat, nil
	}

	// Try user config directory
	if userPath := UserPath("content.yaml"); userPath != "" {
		if data, err := os.ReadFile(userPath); err == nil {
			if cat, err := ParseCatalog(data); err == nil {
				return cat, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/content.yaml"); err == nil {
		if cat, err := ParseCatalog(data); err == nil {
			return cat, nil
		}
	}

	// Use embedded default YAML
	return DefaultCatalog()
}

// LoadSettings reads the settings file. A missing file yields defaults.
// An empty path means ~/.cosmic/settings.yaml.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		path = UserPath("settings.yaml")
	}
	cfg := DefaultSettings()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return cfg.Normalize(), nil
}

// SaveSettings writes the settings file, creating its directory.
func SaveSettings(path string, s Settings) error {
	if path == "" {
		path = UserPath("settings.yaml")
	}
	if path == "" {
		return fmt.Errorf("no home directory for settings")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	data, err := yaml.Marshal(s.Normalize())
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}
	return nil
}

// UserPath returns a path inside ~/.cosmic, or empty if home is unavailable.
func UserPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cosmic", filename)
}

// Package savefile encodes game states for storage and for copy-paste
// export, and validates them before they reach the reducer.
package savefile

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/game"
)

// ErrInvalidSave is returned for any snapshot that cannot be loaded.
var ErrInvalidSave = errors.New("invalid save string")

var validate = validator.New(validator.WithRequiredStructEnabled())

// envelope holds the fields that are range checked before a snapshot is
// merged onto the default state.
type envelope struct {
	Resources            map[string]float64 `json:"resources" validate:"omitempty,dive,gte=0"`
	Upgrades             map[string]int     `json:"upgrades" validate:"omitempty,dive,keys,required,endkeys,gte=0"`
	CurrentEpochIndex    int                `json:"currentEpochIndex" validate:"gte=0"`
	ComboCount           int                `json:"comboCount" validate:"gte=0"`
	TotalClicks          int                `json:"totalClicks" validate:"gte=0"`
	UnlockedAchievements map[string]int64   `json:"unlockedAchievements" validate:"omitempty,dive,keys,required,endkeys,gte=0"`
	CosmicEssence        float64            `json:"cosmicEssence" validate:"gte=0"`
	PrestigeUpgrades     map[string]int     `json:"prestigeUpgrades" validate:"omitempty,dive,keys,required,endkeys,gte=0"`
	TotalStarsEver       float64            `json:"totalStarsEver" validate:"gte=0"`
	AchievementBonus     *bonusEnvelope     `json:"achievementBonus" validate:"omitempty"`
}

type bonusEnvelope struct {
	Multiplier float64 `json:"multiplier" validate:"gt=0"`
}

// Encode serializes a state as JSON.
func Encode(s game.State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("savefile: encode: %w", err)
	}
	return data, nil
}

// Decode parses a stored snapshot and merges it onto a fresh state. Missing
// fields keep their defaults, so older snapshots load. lastTick is rebased
// to now so that a load never pays out time spent outside the game.
func Decode(cat *config.Catalog, data []byte, now int64) (game.State, error) {
	return decode(cat, data, now, false)
}

// Export encodes a state as base64 JSON for copy-paste transfer.
func Export(s game.State) (string, error) {
	data, err := Encode(s)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Import decodes an exported save string. Unlike Decode it insists on the
// resources and upgrades fields, since a string without them is almost
// certainly not a save.
func Import(cat *config.Catalog, encoded string, now int64) (game.State, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return game.State{}, fmt.Errorf("%w: not base64", ErrInvalidSave)
	}
	return decode(cat, data, now, true)
}

func decode(cat *config.Catalog, data []byte, now int64, strict bool) (game.State, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return game.State{}, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	if strict {
		for _, name := range []string{"resources", "upgrades"} {
			if raw, ok := fields[name]; !ok || string(raw) == "null" {
				return game.State{}, fmt.Errorf("%w: missing %s", ErrInvalidSave, name)
			}
		}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return game.State{}, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	if err := validate.Struct(env); err != nil {
		return game.State{}, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	if cat != nil && env.CurrentEpochIndex > cat.LastEpoch() {
		return game.State{}, fmt.Errorf("%w: epoch %d out of range", ErrInvalidSave, env.CurrentEpochIndex)
	}

	s := game.NewState(now)
	if err := json.Unmarshal(data, &s); err != nil {
		return game.State{}, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	if s.Upgrades == nil {
		s.Upgrades = map[string]int{}
	}
	if s.UnlockedAchievements == nil {
		s.UnlockedAchievements = map[string]int64{}
	}
	if s.PrestigeUpgrades == nil {
		s.PrestigeUpgrades = map[string]int{}
	}
	if res, bad := s.Resources.Negative(); bad {
		return game.State{}, fmt.Errorf("%w: negative %s", ErrInvalidSave, res)
	}
	s.LastTick = now
	return s, nil
}

package savefile

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/core"
	"github.com/vovakirdan/cosmic-clicker/internal/game"
)

func testCatalog(t *testing.T) *config.Catalog {
	t.Helper()
	cat, err := config.DefaultCatalog()
	require.NoError(t, err)
	return cat
}

func sampleState(t *testing.T) game.State {
	t.Helper()
	cat := testCatalog(t)
	s := game.NewState(1_000)
	s.Resources[core.Energy] = 1234.5
	s.Resources[core.Atom] = 12
	s.Upgrades["energy_click_1"] = 3
	s.CurrentEpochIndex = 4
	s.TotalClicks = 99
	s.UnlockedAchievements["first_click"] = 500
	s.PrestigeUpgrades["primordial_power"] = 2
	s.CosmicEssence = 7
	s.TotalStarsEver = 3e6
	ev, _ := cat.Event("cmb_flash")
	s.ActiveEvent = &game.ActiveEvent{Event: ev, StartTime: 900}
	s.AchievementBonus = &game.AchievementBonus{Multiplier: 2, EndTime: 5_000}
	return s
}

func TestEncodeDecode(t *testing.T) {
	cat := testCatalog(t)
	s := sampleState(t)

	data, err := Encode(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Hydrogen Atom":12`)
	assert.Contains(t, string(data), `"currentEpochIndex":4`)

	got, err := Decode(cat, data, 42_000)
	require.NoError(t, err)

	want := s.Clone()
	want.LastTick = 42_000
	assert.Equal(t, want, got)
}

func TestDecodeMergesOntoDefaults(t *testing.T) {
	cat := testCatalog(t)

	got, err := Decode(cat, []byte(`{"resources": {"Energy": 50}, "totalClicks": 3}`), 7)
	require.NoError(t, err)

	assert.Equal(t, 50.0, got.Resources[core.Energy])
	assert.Equal(t, 0.0, got.Resources[core.Star])
	assert.Equal(t, 3, got.TotalClicks)
	assert.NotNil(t, got.Upgrades)
	assert.NotNil(t, got.UnlockedAchievements)
	assert.NotNil(t, got.PrestigeUpgrades)
	assert.Equal(t, int64(7), got.LastTick)
}

func TestDecodeNullMaps(t *testing.T) {
	cat := testCatalog(t)
	got, err := Decode(cat, []byte(`{"upgrades": null, "prestigeUpgrades": null}`), 1)
	require.NoError(t, err)
	assert.NotNil(t, got.Upgrades)
	assert.NotNil(t, got.PrestigeUpgrades)
}

func TestDecodeRejects(t *testing.T) {
	cat := testCatalog(t)
	tests := []struct {
		name string
		data string
	}{
		{"not json", `hello`},
		{"not an object", `[1,2]`},
		{"negative resource", `{"resources": {"Quark": -1}}`},
		{"negative level", `{"upgrades": {"energy_click_1": -2}}`},
		{"empty upgrade id", `{"upgrades": {"": 1}}`},
		{"epoch out of range", `{"currentEpochIndex": 12}`},
		{"negative epoch", `{"currentEpochIndex": -1}`},
		{"negative essence", `{"cosmicEssence": -3}`},
		{"zero bonus", `{"achievementBonus": {"multiplier": 0, "endTime": 5}}`},
		{"wrong type", `{"totalClicks": "many"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(cat, []byte(tt.data), 1)
			assert.True(t, errors.Is(err, ErrInvalidSave), "error = %v", err)
		})
	}
}

func TestExportImport(t *testing.T) {
	cat := testCatalog(t)
	s := sampleState(t)

	str, err := Export(s)
	require.NoError(t, err)

	got, err := Import(cat, "  "+str+"\n", 9)
	require.NoError(t, err)
	assert.Equal(t, s.Resources, got.Resources)
	assert.Equal(t, s.Upgrades, got.Upgrades)
	assert.Equal(t, int64(9), got.LastTick)
}

func TestImportRequiresCoreFields(t *testing.T) {
	cat := testCatalog(t)
	enc := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"complete", enc(`{"resources": {}, "upgrades": {}}`), true},
		{"missing upgrades", enc(`{"resources": {"Energy": 1}}`), false},
		{"missing resources", enc(`{"upgrades": {}}`), false},
		{"null resources", enc(`{"resources": null, "upgrades": {}}`), false},
		{"not base64", "%%%", false},
		{"base64 of garbage", enc("garbage"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(cat, tt.input, 1)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidSave)
		})
	}
}

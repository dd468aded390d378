package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/core"
	"github.com/vovakirdan/cosmic-clicker/internal/game"
)

func TestLightsFor(t *testing.T) {
	tests := []struct {
		amount float64
		limit  int
		want   int
	}{
		{0, 100, 0},
		{0.5, 100, 0},
		{1, 100, 1},
		{50, 100, 5},
		{5000, 100, 11},
		{1e30, 10, 10},
	}

	for _, tt := range tests {
		if got := lightsFor(tt.amount, tt.limit); got != tt.want {
			t.Errorf("lightsFor(%v, %d) = %d, want %d", tt.amount, tt.limit, got, tt.want)
		}
	}
}

func TestDrawSkyEmpty(t *testing.T) {
	scr := core.NewScreen(20, 5)
	DrawSky(scr, SkyView{State: game.NewState(0)})

	if strings.TrimSpace(scr.String()) != "" {
		t.Errorf("empty universe should draw an empty sky, got %q", scr.String())
	}
}

func TestDrawSkyDeterministic(t *testing.T) {
	st := game.NewState(0)
	st.Resources[core.Energy] = 1e6
	st.Resources[core.Star] = 50

	a, b := core.NewScreen(30, 8), core.NewScreen(30, 8)
	DrawSky(a, SkyView{State: st, Frame: 3})
	DrawSky(b, SkyView{State: st, Frame: 3})

	if a.String() != b.String() {
		t.Error("same view should draw the same sky")
	}
	if strings.TrimSpace(a.String()) == "" {
		t.Error("a populated universe should draw some lights")
	}
}

func TestDrawSkyComet(t *testing.T) {
	scr := core.NewScreen(30, 9)
	DrawSky(scr, SkyView{State: game.NewState(0), Comet: true})

	if !strings.Contains(scr.String(), "☄") {
		t.Error("comet should be drawn while visible")
	}
}

func TestDrawSkySecretAndEvent(t *testing.T) {
	st := game.NewState(0)
	st.ActiveEvent = &game.ActiveEvent{Event: config.RandomEvent{ID: "x", Name: "Supernova"}}

	scr := core.NewScreen(30, 6)
	DrawSky(scr, SkyView{State: st, Secret: true})

	out := scr.String()
	if !strings.Contains(out, "✧") {
		t.Error("hidden star should be drawn until found")
	}
	if !strings.Contains(out, "Supernova") {
		t.Error("active event name should be drawn")
	}
}

func TestDrawSkyZeroSize(t *testing.T) {
	scr := core.NewScreen(0, 0)
	DrawSky(scr, SkyView{State: game.NewState(0), Comet: true, Secret: true})
}

func TestRenderScreenPlainText(t *testing.T) {
	scr := core.NewScreen(5, 2)
	scr.DrawText(0, 0, "ab", core.ColorCyan)
	scr.DrawText(0, 1, "cd", core.ColorDefault)

	out := RenderScreen(scr)
	if !strings.Contains(out, "ab") || !strings.Contains(out, "cd") {
		t.Errorf("RenderScreen lost text: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("RenderScreen should emit one line per row, got %q", out)
	}
}

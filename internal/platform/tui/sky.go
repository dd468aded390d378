package tui

import (
	"math"

	"github.com/vovakirdan/cosmic-clicker/internal/core"
	"github.com/vovakirdan/cosmic-clicker/internal/game"
)

// SkyView is what the sky panel shows on one frame.
type SkyView struct {
	State  game.State
	Frame  int
	Comet  bool // a catchable comet is crossing
	Secret bool // the hidden star is still to be found
}

var twinkle = []rune{'·', '∙', '*', '✦', '*', '∙'}

// DrawSky renders the cosmos into scr: one point of light per order of
// magnitude of each resource, dark matter as dim specks, and the comet
// while it can be caught. The layout depends only on the view, so equal
// views draw equal skies.
func DrawSky(scr *core.Screen, v SkyView) {
	scr.Clear()
	w, h := scr.Width(), scr.Height()
	if w == 0 || h == 0 {
		return
	}

	seed := uint64(1)
	for _, res := range core.Resources() {
		n := lightsFor(v.State.Resources[res], w*h/8)
		c := core.ResourceColor(res)
		for i := 0; i < n; i++ {
			seed = splitmix(seed)
			x, y := int(seed%uint64(w)), int((seed>>32)%uint64(h))
			r := twinkle[(i+v.Frame/2)%len(twinkle)]
			if res == core.DarkMatter {
				r = '·'
				c = core.ColorDim
			}
			scr.Set(x, y, r, c)
		}
	}

	if v.Secret {
		// Always at the same spot, barely visible.
		scr.Set(w-3, h-2, '✧', core.ColorDim)
	}

	if v.Comet {
		x := w - 1 - (v.Frame % w)
		y := h / 3
		scr.DrawText(x, y, "☄~~", core.ColorOrange)
	}

	if ev := v.State.ActiveEvent; ev != nil {
		scr.DrawText(1, h-1, ev.Event.Name, core.ColorBrightYellow)
	}
}

// lightsFor maps an amount to a number of drawn points, roughly three per
// order of magnitude, capped at limit.
func lightsFor(amount float64, limit int) int {
	if amount < 1 {
		return 0
	}
	n := int(3 * math.Log10(amount+1))
	if n < 1 {
		n = 1
	}
	return min(n, limit)
}

func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	z := x
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

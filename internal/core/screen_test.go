package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Errorf("New screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestNewScreenNegative(t *testing.T) {
	s := NewScreen(-3, -1)
	if s.Width() != 0 || s.Height() != 0 {
		t.Errorf("NewScreen(-3, -1) = %dx%d, expected 0x0", s.Width(), s.Height())
	}
	if s.String() != "" {
		t.Errorf("String() = %q, expected empty", s.String())
	}
}

func TestScreenSetGetCell(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, '*', ColorCyan)
	if c := s.GetCell(5, 5); c.Rune != '*' || c.Color != ColorCyan {
		t.Errorf("GetCell(5, 5) = %+v, expected '*' in cyan", c)
	}

	// Out of bounds should be silent
	s.Set(-1, 0, 'A', ColorRed)
	s.Set(100, 0, 'A', ColorRed)
	s.Set(0, -1, 'A', ColorRed)
	s.Set(0, 100, 'A', ColorRed)

	if s.GetCell(-1, 0).Rune != ' ' {
		t.Error("Out of bounds GetCell should return a blank cell")
	}
	if s.GetCell(100, 0).Rune != ' ' {
		t.Error("Out of bounds GetCell should return a blank cell")
	}
}

func TestScreenClear(t *testing.T) {
	s := NewScreen(4, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			s.Set(x, y, 'X', ColorRed)
		}
	}

	s.Clear()

	if got := s.String(); got != "    \n    \n    " {
		t.Errorf("String() after Clear = %q", got)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(4, 2)
	s.Set(0, 0, 'X', ColorDefault)

	s.Resize(6, 3)
	if s.Width() != 6 || s.Height() != 3 {
		t.Errorf("Resize(6, 3) gave %dx%d", s.Width(), s.Height())
	}
	if s.GetCell(0, 0).Rune != ' ' {
		t.Error("Resize should clear the screen")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(8, 1)
	s.DrawText(2, 0, "★ hi", ColorBrightWhite)

	if got := s.Row(0); got != "  ★ hi  " {
		t.Errorf("Row(0) = %q, expected %q", got, "  ★ hi  ")
	}
	if s.GetCell(2, 0).Color != ColorBrightWhite {
		t.Error("DrawText should apply the color")
	}

	// Clipped at the edge
	s.DrawText(6, 0, "abcdef", ColorDefault)
	if got := s.Row(0); !strings.HasSuffix(got, "ab") {
		t.Errorf("Row(0) = %q, expected clipped text at the edge", got)
	}
}

func TestScreenRowOutOfBounds(t *testing.T) {
	s := NewScreen(3, 1)
	if got := s.Row(5); got != "   " {
		t.Errorf("Row(5) = %q, expected blank row", got)
	}
}

func TestResourceColor(t *testing.T) {
	for _, r := range Resources() {
		if ResourceColor(r) == ColorDefault {
			t.Errorf("ResourceColor(%s) has no color", r)
		}
	}
	if ResourceColor(Resource(99)) != ColorDefault {
		t.Error("invalid resource should map to the default color")
	}
}

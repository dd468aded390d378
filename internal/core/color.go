package core

// Color represents a foreground color for a screen cell.
// The TUI maps each value to an ANSI 256-color code.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightYellow
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorPurple
	ColorGray
	ColorDim
)

var resourceColors = [NumResources]Color{
	Energy:     ColorBrightYellow,
	Quark:      ColorMagenta,
	Proton:     ColorRed,
	Atom:       ColorCyan,
	Star:       ColorBrightWhite,
	DarkMatter: ColorPurple,
}

// ResourceColor returns the color a resource is drawn in.
func ResourceColor(r Resource) Color {
	if !r.Valid() {
		return ColorDefault
	}
	return resourceColors[r]
}

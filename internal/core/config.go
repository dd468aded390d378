package core

// RuntimeConfig contains the settings a play session is started with.
type RuntimeConfig struct {
	ScreenW int    // Screen width in characters
	ScreenH int    // Screen height in characters
	FPS     int    // Render and driver rate (frames per second)
	Seed    int64  // RNG seed for crits, events and comets (0 = time based)
	Slot    string // Save slot name
	Admin   bool   // Enables the admin panel
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 100,
		ScreenH: 32,
		FPS:     10,
		Seed:    0, // 0 means use current time in platform layer
		Slot:    "default",
	}
}

// Normalize fills zero fields with defaults.
func (c RuntimeConfig) Normalize() RuntimeConfig {
	def := DefaultConfig()
	if c.ScreenW <= 0 {
		c.ScreenW = def.ScreenW
	}
	if c.ScreenH <= 0 {
		c.ScreenH = def.ScreenH
	}
	if c.FPS <= 0 {
		c.FPS = def.FPS
	}
	if c.Slot == "" {
		c.Slot = def.Slot
	}
	return c
}

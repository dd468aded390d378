package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cosmic-clicker/internal/core"
)

// KeyMap defines the key bindings of the game screen.
type KeyMap struct {
	Click    key.Binding
	Buy      key.Binding
	Advance  key.Binding
	Prestige key.Binding
	Comet    key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Confirm  key.Binding
	Back     key.Binding
	Settings key.Binding
	Save     key.Binding
	Admin    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Click, k.Buy, k.Advance, k.NextTab, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Click, k.Buy, k.Advance, k.Comet},
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Prestige, k.Settings, k.Save},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Click: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "click"),
		),
		Buy: key.NewBinding(
			key.WithKeys("enter", "b"),
			key.WithHelp("enter/b", "buy"),
		),
		Advance: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "next epoch"),
		),
		Prestige: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "collapse"),
		),
		Comet: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "catch comet"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "decrease"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "increase"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev tab"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/enter", "confirm"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "n"),
			key.WithHelp("esc/n", "close"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Admin: key.NewBinding(
			key.WithKeys("f12"),
			key.WithHelp("f12", "admin"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "save & quit"),
		),
	}
}

// Action translates a key message on the game screen to a player action.
// Bindings are checked in a fixed order so shared keys resolve the same
// way every time: enter buys outside dialogs.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	bindings := []struct {
		binding key.Binding
		action  core.Action
	}{
		{k.Quit, core.ActionQuit},
		{k.Click, core.ActionClick},
		{k.Buy, core.ActionBuy},
		{k.Advance, core.ActionAdvance},
		{k.Prestige, core.ActionPrestige},
		{k.Comet, core.ActionComet},
		{k.Up, core.ActionUp},
		{k.Down, core.ActionDown},
		{k.NextTab, core.ActionNextTab},
		{k.PrevTab, core.ActionPrevTab},
		{k.Settings, core.ActionSettings},
		{k.Save, core.ActionSave},
		{k.Admin, core.ActionAdmin},
		{k.Confirm, core.ActionConfirm},
		{k.Back, core.ActionBack},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			return b.action
		}
	}
	return core.ActionNone
}

// secretSequence unlocks the hidden star when typed on the game screen.
var secretSequence = []string{"up", "up", "down", "down", "left", "right", "left", "right"}

// secretTracker matches the secret sequence against recent keys.
type secretTracker struct {
	pos int
}

// Feed records one key and reports whether it completed the sequence.
func (s *secretTracker) Feed(k string) bool {
	switch {
	case k == secretSequence[s.pos]:
		s.pos++
	case k == secretSequence[0]:
		s.pos = 1
	default:
		s.pos = 0
	}
	if s.pos == len(secretSequence) {
		s.pos = 0
		return true
	}
	return false
}

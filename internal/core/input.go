package core

// Action is a player intent, abstracted from physical key presses.
// The TUI maps keys to actions and the session turns them into reducer actions.
type Action int

const (
	ActionNone     Action = iota
	ActionClick           // Space - collapse energy from the void
	ActionBuy             // Enter - buy the selected upgrade
	ActionAdvance         // A - advance to the next epoch
	ActionPrestige        // P - open the singularity dialog
	ActionComet           // C - catch a passing comet
	ActionUp              // Up, K - move the selection up
	ActionDown            // Down, J - move the selection down
	ActionNextTab         // Tab - next panel
	ActionPrevTab         // Shift+Tab - previous panel
	ActionConfirm         // Y - confirm a dialog
	ActionBack            // Esc, N - dismiss a dialog
	ActionSettings        // S - open settings
	ActionSave            // Ctrl+S - save now
	ActionAdmin           // F12 - admin panel, when enabled
	ActionQuit            // Q, Ctrl+C - save and exit
)

var actionNames = map[Action]string{
	ActionNone:     "None",
	ActionClick:    "Click",
	ActionBuy:      "Buy",
	ActionAdvance:  "Advance",
	ActionPrestige: "Prestige",
	ActionComet:    "Comet",
	ActionUp:       "Up",
	ActionDown:     "Down",
	ActionNextTab:  "NextTab",
	ActionPrevTab:  "PrevTab",
	ActionConfirm:  "Confirm",
	ActionBack:     "Back",
	ActionSettings: "Settings",
	ActionSave:     "Save",
	ActionAdmin:    "Admin",
	ActionQuit:     "Quit",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

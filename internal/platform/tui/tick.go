// Package tui provides the Bubble Tea front end of the clicker: the game
// screen, the slot menu, the collapse history and SSH serving via Wish.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to drive the session timers and redraw.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the
// given frame rate. Low performance mode halves the rate.
func tickCmd(fps int, lowPerformance bool) tea.Cmd {
	return tea.Tick(frameInterval(fps, lowPerformance), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func frameInterval(fps int, lowPerformance bool) time.Duration {
	if fps <= 0 {
		fps = 10
	}
	interval := time.Second / time.Duration(fps)
	if lowPerformance {
		interval *= 2
	}
	return interval
}

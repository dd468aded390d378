package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cosmic-clicker/internal/game"
	"github.com/vovakirdan/cosmic-clicker/internal/session"
)

type modalKind int

const (
	modalAchievement modalKind = iota
	modalLaw
	modalPrestige
	modalSettings
	modalAdmin
)

// reason is the pause held while the dialog is open.
func (k modalKind) reason() session.PauseReason {
	switch k {
	case modalAchievement:
		return session.PauseAchievement
	case modalLaw:
		return session.PauseLaw
	case modalPrestige:
		return session.PausePrestige
	case modalSettings:
		return session.PauseSettings
	default:
		return session.PauseAdmin
	}
}

// modal is a blocking dialog. Dialogs queue up and are shown one at a time.
type modal struct {
	kind   modalKind
	id     string // achievement id
	epoch  int    // law epoch, or the admin jump target
	text   string
	cursor int
}

// Settings dialog rows
const (
	settingVolume = iota
	settingLowPerformance
	settingScientific
	numSettings
)

func (m *Model) pushModal(md modal) {
	m.sess.Pause(md.kind.reason())
	m.modals = append(m.modals, md)
}

// popModal closes the front dialog. The session resumes only when no queued
// dialog still holds the same reason.
func (m *Model) popModal() {
	if len(m.modals) == 0 {
		return
	}
	md := m.modals[0]
	m.modals = m.modals[1:]

	switch md.kind {
	case modalAchievement:
		m.sess.DismissAchievement()
	case modalSettings:
		m.saveSettings()
	}

	for _, other := range m.modals {
		if other.kind.reason() == md.kind.reason() {
			return
		}
	}
	m.sess.Resume(md.kind.reason())
}

// handleModalKey routes a key press to the front dialog.
func (m *Model) handleModalKey(msg tea.KeyMsg) {
	md := &m.modals[0]
	confirm := key.Matches(msg, m.keys.Confirm)
	back := key.Matches(msg, m.keys.Back)

	switch md.kind {
	case modalAchievement, modalLaw:
		if confirm || back {
			m.popModal()
		}

	case modalPrestige:
		switch {
		case confirm:
			m.popModal()
			if _, ok := m.sess.Prestige(); !ok {
				m.setStatus("The universe resists collapse", true)
			}
		case back:
			m.popModal()
		}

	case modalSettings:
		switch {
		case key.Matches(msg, m.keys.Up):
			md.cursor = (md.cursor + numSettings - 1) % numSettings
		case key.Matches(msg, m.keys.Down):
			md.cursor = (md.cursor + 1) % numSettings
		case key.Matches(msg, m.keys.Left):
			m.adjustSetting(md.cursor, -1)
		case key.Matches(msg, m.keys.Right):
			m.adjustSetting(md.cursor, 1)
		case confirm, back:
			m.popModal()
		}

	case modalAdmin:
		rows := len(m.cat.Events) + 2
		switch {
		case key.Matches(msg, m.keys.Up):
			md.cursor = (md.cursor + rows - 1) % rows
		case key.Matches(msg, m.keys.Down):
			md.cursor = (md.cursor + 1) % rows
		case key.Matches(msg, m.keys.Left):
			md.epoch = max(md.epoch-1, 0)
		case key.Matches(msg, m.keys.Right):
			md.epoch = min(md.epoch+1, m.cat.LastEpoch())
		case confirm:
			m.runAdmin(*md)
		case back:
			m.popModal()
		}
	}
}

func (m *Model) adjustSetting(row, dir int) {
	switch row {
	case settingVolume:
		m.settings.MasterVolume += float64(dir) * volumeStep
		m.settings = m.settings.Normalize()
	case settingLowPerformance:
		m.settings.LowPerformanceMode = !m.settings.LowPerformanceMode
	case settingScientific:
		m.settings.ScientificNotation = !m.settings.ScientificNotation
	}
}

// runAdmin executes the selected admin row: events first, then jump and reset.
func (m *Model) runAdmin(md modal) {
	events := m.cat.Events
	switch {
	case md.cursor < len(events):
		ev := events[md.cursor]
		if err := m.sess.TriggerEvent(ev.ID); err != nil {
			m.setStatus(err.Error(), true)
			return
		}
		m.logger.Warn("admin triggered event", "event", ev.ID)
	case md.cursor == len(events):
		if err := m.sess.Jump(md.epoch, m.state.Resources); err != nil {
			m.setStatus(err.Error(), true)
			return
		}
		m.setStatus("Jumped to "+m.cat.Epochs[md.epoch].Name, false)
	default:
		m.sess.Reset()
		m.logger.Warn("admin reset")
		m.setStatus("Universe reset", false)
	}
}

// modalView renders the front dialog.
func (m Model) modalView() string {
	md := m.modals[0]
	var b strings.Builder

	switch md.kind {
	case modalAchievement:
		b.WriteString(titleStyle.Render("★ Achievement unlocked"))
		b.WriteString("\n\n")
		b.WriteString(accentStyle.Render(md.text))
		if a, ok := m.cat.Achievement(md.id); ok {
			b.WriteString("\n")
			b.WriteString(a.Description)
		}
		c := m.cat.Constants
		fmt.Fprintf(&b, "\n\nClose to gain x%g production for %s.",
			c.AchievementBonusMultiplier, FormatDuration(c.AchievementBonusDurationMs))

	case modalLaw:
		b.WriteString(titleStyle.Render("New cosmic law"))
		b.WriteString("\n\n")
		if law, ok := m.cat.Law(md.epoch); ok {
			b.WriteString(accentStyle.Render(law.Title))
			b.WriteString("\n\n")
			b.WriteString(law.Formula)
			b.WriteString("\n\n")
			b.WriteString(law.Explanation)
		} else {
			b.WriteString(md.text)
		}

	case modalPrestige:
		gain := game.EssenceForStars(m.state.TotalStarsEver)
		b.WriteString(titleStyle.Render("Collapse the universe?"))
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "You will gain %s cosmic essence.\n", m.num(gain))
		b.WriteString("Resources, upgrades and the epoch are lost.\n")
		b.WriteString("Essence, prestige upgrades and achievements remain.")
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("y: collapse   n: cancel"))

	case modalSettings:
		b.WriteString(titleStyle.Render("Settings"))
		b.WriteString("\n\n")
		rows := [numSettings]string{
			fmt.Sprintf("Master volume      %3.0f%%", m.settings.MasterVolume*100),
			"Low performance    " + onOff(m.settings.LowPerformanceMode),
			"Scientific numbers " + onOff(m.settings.ScientificNotation),
		}
		for i, row := range rows {
			b.WriteString(cursorLine(i == md.cursor, row))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("left/right: change   esc: close"))

	case modalAdmin:
		b.WriteString(titleStyle.Render("Admin"))
		b.WriteString("\n\n")
		for i, ev := range m.cat.Events {
			b.WriteString(cursorLine(i == md.cursor, "Trigger "+ev.Name))
			b.WriteString("\n")
		}
		jump := fmt.Sprintf("Jump to epoch < %s >", m.cat.Epochs[md.epoch].Name)
		b.WriteString(cursorLine(md.cursor == len(m.cat.Events), jump))
		b.WriteString("\n")
		b.WriteString(cursorLine(md.cursor == len(m.cat.Events)+1, badStyle.Render("Reset universe")))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("enter: run   esc: close"))
	}

	if len(m.modals) > 1 {
		fmt.Fprintf(&b, "\n\n%s", mutedStyle.Render(fmt.Sprintf("%d more", len(m.modals)-1)))
	}
	return modalStyle.Render(b.String())
}

func cursorLine(selected bool, text string) string {
	if selected {
		return "> " + accentStyle.Render(text)
	}
	return "  " + text
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

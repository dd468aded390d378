package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/core"
	"github.com/vovakirdan/cosmic-clicker/internal/game"
)

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := m.headerView()
	if len(m.modals) > 0 {
		body := lipgloss.Place(m.config.ScreenW, max(m.config.ScreenH-2, 0),
			lipgloss.Center, lipgloss.Center, m.modalView())
		return lipgloss.JoinVertical(lipgloss.Left, header, body)
	}

	DrawSky(m.screen, SkyView{
		State:  m.state,
		Frame:  m.frame,
		Comet:  m.sess.CometVisible(),
		Secret: !m.state.Unlocked(game.SecretStarAchievement),
	})

	stats := panelStyle.Width(statsWidth).Render(m.statsView())
	tabs := panelStyle.Width(max(m.config.ScreenW-statsWidth-6, 20)).Render(m.tabView())

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		RenderScreen(m.screen),
		lipgloss.JoinHorizontal(lipgloss.Top, stats, " ", tabs),
		m.statusView(),
		mutedStyle.Render(m.help.View(m.keys)),
	)
}

func (m Model) headerView() string {
	epoch := m.cat.Epochs[m.state.CurrentEpochIndex]
	title := titleStyle.Render("✦ COSMIC CLICKER")
	where := fmt.Sprintf("  %s (%s)  slot %s", epoch.Name, epoch.Time, m.sess.Slot())
	if m.sess.Paused() {
		where += "  " + mutedStyle.Render("[paused]")
	}
	return title + mutedStyle.Render(where)
}

// statsView lists resources, the click preview, combo and epoch progress.
func (m Model) statsView() string {
	var b strings.Builder
	rates := game.IdleRates(m.cat, m.state)

	for _, r := range core.Resources() {
		amount := m.state.Resources[r]
		if r != core.Energy && amount == 0 && rates[r] == 0 {
			continue
		}
		name := colorStyle(core.ResourceColor(r)).Render(fmt.Sprintf("%-14s", r.String()))
		fmt.Fprintf(&b, "%s %9s", name, m.num(amount))
		if rates[r] != 0 {
			b.WriteString(mutedStyle.Render(" +" + FormatRate(rates[r], m.settings.ScientificNotation)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString("Click: " + goodStyle.Render(m.formatLedger(game.ClickGains(m.cat, m.state))))
	b.WriteString("\n")

	mult := game.ComboMultiplier(m.cat.Constants.ComboTiers, m.state.ComboCount)
	fmt.Fprintf(&b, "Combo: %d", m.state.ComboCount)
	if mult > 1 {
		b.WriteString(accentStyle.Render(fmt.Sprintf(" x%g", mult)))
	}
	b.WriteString("\n")

	if bonus := m.state.AchievementBonus; bonus != nil {
		left := bonus.EndTime - m.now().UnixMilli()
		fmt.Fprintf(&b, "Bonus: %s\n", accentStyle.Render(fmt.Sprintf("x%g for %s", bonus.Multiplier, FormatDuration(left))))
	}
	if m.state.CosmicEssence > 0 {
		fmt.Fprintf(&b, "Essence: %s\n", m.num(m.state.CosmicEssence))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Epoch %d/%d\n", m.state.CurrentEpochIndex+1, len(m.cat.Epochs))
	if next, ok := game.NextEpoch(m.cat, m.state); ok {
		line := fmt.Sprintf("Next: %s\n  %s %s", next.Name, m.num(next.UnlockCost), next.UnlockResource)
		if m.state.Resources.Covers(next.UnlockResource, next.UnlockCost) {
			line = goodStyle.Render(line + "  (a)")
		}
		b.WriteString(line)
	} else {
		b.WriteString(mutedStyle.Render("Final epoch reached"))
	}
	return b.String()
}

func (m Model) tabView() string {
	labels := make([]string, numTabs)
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			labels[i] = activeTabStyle.Render(name)
		} else {
			labels[i] = tabStyle.Render(name)
		}
	}

	var body string
	switch m.tab {
	case TabUpgrades:
		body = m.upgradesView()
	case TabSingularity:
		body = m.singularityView()
	case TabAchievements:
		body = m.scrolled(m.achievementLines())
	case TabCodex:
		body = m.scrolled(m.codexLines())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, labels...) + "\n\n" + body
}

func (m Model) upgradesView() string {
	statuses := game.UpgradeStatuses(m.cat, m.state)
	if len(statuses) == 0 {
		return mutedStyle.Render("Nothing to build yet.")
	}
	out := m.upgrades.View()
	if i := m.upgrades.Cursor(); i >= 0 && i < len(statuses) {
		u := statuses[i].Upgrade
		out += "\n" + describeUpgrade(u)
		if u.FlavorText != "" {
			out += "\n" + mutedStyle.Render(u.FlavorText)
		}
	}
	return out
}

// describeUpgrade summarizes the per-level effects, or the description for
// upgrades without plain effects.
func describeUpgrade(u config.Upgrade) string {
	if len(u.Effects) == 0 {
		return u.Description
	}
	parts := make([]string, len(u.Effects))
	for i, e := range u.Effects {
		unit := "/s"
		if e.Kind == config.EffectClick {
			unit = "/click"
		}
		parts[i] = fmt.Sprintf("+%g %s%s", e.Value, e.Resource, unit)
	}
	return strings.Join(parts, ", ") + " per level"
}

func (m Model) singularityView() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cosmic essence: %s\n", accentStyle.Render(m.num(m.state.CosmicEssence)))
	fmt.Fprintf(&b, "Stars ever formed: %s\n", m.num(m.state.TotalStarsEver))
	if game.CanPrestige(m.state) {
		gain := game.EssenceForStars(m.state.TotalStarsEver)
		b.WriteString(goodStyle.Render(fmt.Sprintf("Collapse now for +%s essence (p)", m.num(gain))))
	} else {
		b.WriteString(mutedStyle.Render("Collapse unlocks at Galaxy Formation"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.prestige.View())

	if i := m.prestige.Cursor(); i >= 0 && i < len(m.cat.PrestigeUpgrades) {
		p := m.cat.PrestigeUpgrades[i]
		desc := p.Description
		if strings.Contains(desc, "%d") {
			desc = fmt.Sprintf(desc, m.state.PrestigeLevel(p.ID)+1)
		}
		b.WriteString("\n" + desc)
	}
	return b.String()
}

func (m Model) achievementLines() []string {
	lines := make([]string, 0, len(m.cat.Achievements)+1)
	lines = append(lines, fmt.Sprintf("%d/%d unlocked", len(m.state.UnlockedAchievements), len(m.cat.Achievements)))
	for _, a := range m.cat.Achievements {
		switch {
		case m.state.Unlocked(a.ID):
			lines = append(lines, goodStyle.Render("✓ "+a.Name)+" "+mutedStyle.Render(a.Description))
		case a.Secret:
			lines = append(lines, mutedStyle.Render("· ???"))
		default:
			lines = append(lines, "· "+a.Name+" "+mutedStyle.Render(a.Description))
		}
	}
	return lines
}

// codexLines lists the laws of every reached epoch.
func (m Model) codexLines() []string {
	var lines []string
	for _, law := range m.cat.Laws {
		if law.EpochIndex > m.state.CurrentEpochIndex {
			continue
		}
		lines = append(lines,
			accentStyle.Render(law.Title),
			"  "+law.Formula,
			mutedStyle.Render("  "+law.Explanation),
			"",
		)
	}
	if len(lines) == 0 {
		lines = append(lines, mutedStyle.Render("No laws discovered yet."))
	}
	return lines
}

// scrolled shows the window of lines starting at the scroll offset.
func (m Model) scrolled(lines []string) string {
	height := tableHeight(m.config.ScreenH) + 2
	start := min(m.scroll, max(len(lines)-height, 0))
	end := min(start+height, len(lines))
	return strings.Join(lines[start:end], "\n")
}

func (m Model) statusView() string {
	var parts []string
	if ev := m.state.ActiveEvent; ev != nil {
		left := ev.EndTime() - m.now().UnixMilli()
		parts = append(parts, bannerStyle.Render(fmt.Sprintf("%s %s", ev.Event.Name, FormatDuration(left))))
	}
	if m.sess.CometVisible() {
		parts = append(parts, accentStyle.Render("☄ A comet! Press c"))
	}
	if m.status != "" {
		style := goodStyle
		if m.statusBad {
			style = badStyle
		}
		parts = append(parts, style.Render(m.status))
	}
	return strings.Join(parts, "  ")
}

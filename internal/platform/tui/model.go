package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/core"
	"github.com/vovakirdan/cosmic-clicker/internal/game"
	"github.com/vovakirdan/cosmic-clicker/internal/session"
)

// Tab identifies a side panel of the game screen.
type Tab int

const (
	TabUpgrades Tab = iota
	TabSingularity
	TabAchievements
	TabCodex
	numTabs
)

var tabNames = [numTabs]string{"Upgrades", "Singularity", "Achievements", "Codex"}

// Layout constants
const (
	skyHeight      = 7
	statsWidth     = 40
	statusDuration = 3 * time.Second
	volumeStep     = 0.1
)

// Options configures the game screen.
type Options struct {
	Session      *session.Session
	Config       core.RuntimeConfig
	Settings     config.Settings
	SettingsPath string    // empty keeps settings changes in memory
	Bell         io.Writer // receives the terminal bell, nil disables it
	Logger       *log.Logger
}

// Model is the Bubble Tea model of the game screen. It renders snapshots of
// the session and turns key presses into session calls.
type Model struct {
	sess         *session.Session
	cat          *config.Catalog
	config       core.RuntimeConfig
	settings     config.Settings
	settingsPath string
	bell         io.Writer
	logger       *log.Logger

	keys     KeyMap
	help     help.Model
	screen   *core.Screen
	upgrades table.Model
	prestige table.Model
	tab      Tab
	scroll   int // achievements and codex offset

	state       game.State
	modals      []modal
	secret      secretTracker
	status      string
	statusBad   bool
	statusUntil time.Time
	lastTick    time.Time
	frame       int
	quitting    bool
}

// NewModel creates the game screen for a running session.
func NewModel(opts Options) Model {
	cfg := opts.Config.Normalize()
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	m := Model{
		sess:         opts.Session,
		cat:          opts.Session.Catalog(),
		config:       cfg,
		settings:     opts.Settings.Normalize(),
		settingsPath: opts.SettingsPath,
		bell:         opts.Bell,
		logger:       logger,
		keys:         DefaultKeyMap(),
		help:         h,
		screen:       core.NewScreen(cfg.ScreenW, skyHeight),
		upgrades: newTable([]table.Column{
			{Title: "Upgrade", Width: 22},
			{Title: "Lvl", Width: 5},
			{Title: "Cost", Width: 16},
		}, cfg.ScreenH),
		prestige: newTable([]table.Column{
			{Title: "Upgrade", Width: 22},
			{Title: "Lvl", Width: 5},
			{Title: "Essence", Width: 10},
		}, cfg.ScreenH),
		state: opts.Session.Snapshot(),
	}
	m.refreshTables()
	return m
}

// newTable creates a focused table with the scoreboard styling.
func newTable(columns []table.Column, screenH int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(tableHeight(screenH)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func tableHeight(screenH int) int {
	// Leave room for the header, sky, tabs, details and help.
	return max(screenH-skyHeight-12, 4)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.FPS, m.settings.LowPerformanceMode)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, skyHeight)
	m.upgrades.SetHeight(tableHeight(msg.Height))
	m.prestige.SetHeight(tableHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick drives the session clock, then picks up what it reported.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.sess.Advance(now)
	m.lastTick = now
	m.frame++

	for _, n := range m.sess.Notices() {
		m.handleNotice(n)
	}
	if m.status != "" && now.After(m.statusUntil) {
		m.status = ""
	}

	m.sync()
	return m, tickCmd(m.config.FPS, m.settings.LowPerformanceMode)
}

// handleNotice turns a session notice into a popup or a status line.
func (m *Model) handleNotice(n session.Notice) {
	switch n.Kind {
	case session.NoticeAchievement:
		m.ringBell()
		m.pushModal(modal{kind: modalAchievement, id: n.ID, text: n.Text})
	case session.NoticeLaw:
		m.pushModal(modal{kind: modalLaw, epoch: n.Epoch, text: n.Text})
	case session.NoticeEvent:
		m.setStatus("Cosmic event: "+n.Text, false)
	case session.NoticeCollapse, session.NoticeSaved:
		m.setStatus(n.Text, false)
	case session.NoticeError:
		m.setStatus(n.Text, true)
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if len(m.modals) > 0 {
		m.handleModalKey(msg)
		m.sync()
		return m, nil
	}

	if m.secret.Feed(msg.String()) && m.sess.FindSecret() {
		m.setStatus("A hidden star flares up", false)
	}

	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	switch m.keys.Action(msg) {
	case core.ActionClick:
		res := m.sess.Click()
		if res.Critical {
			m.setStatus("Critical! "+m.formatLedger(res.Delta), false)
		}

	case core.ActionBuy:
		m.buySelected()

	case core.ActionAdvance:
		m.advance()

	case core.ActionPrestige:
		m.openPrestige()

	case core.ActionComet:
		if !m.sess.CatchComet() {
			m.setStatus("No comet in sight", true)
		}

	case core.ActionUp:
		m.moveCursor(-1)

	case core.ActionDown:
		m.moveCursor(1)

	case core.ActionNextTab:
		m.tab = (m.tab + 1) % numTabs
		m.scroll = 0

	case core.ActionPrevTab:
		m.tab = (m.tab + numTabs - 1) % numTabs
		m.scroll = 0

	case core.ActionSettings:
		m.pushModal(modal{kind: modalSettings})

	case core.ActionAdmin:
		if m.config.Admin {
			m.pushModal(modal{kind: modalAdmin, epoch: m.state.CurrentEpochIndex})
		}

	case core.ActionSave:
		if err := m.sess.Save(); err != nil {
			m.logger.Debug("manual save failed", "error", err)
		}
	}

	m.sync()
	return m, nil
}

func (m *Model) buySelected() {
	switch m.tab {
	case TabUpgrades:
		statuses := game.UpgradeStatuses(m.cat, m.state)
		i := m.upgrades.Cursor()
		if i < 0 || i >= len(statuses) {
			return
		}
		st := statuses[i]
		switch {
		case st.Maxed:
			m.setStatus(st.Upgrade.Name+" is maxed out", true)
		case !m.sess.BuyUpgrade(st.Upgrade.ID):
			m.setStatus(fmt.Sprintf("Need %s %s", m.num(st.Cost), st.Upgrade.CostResource), true)
		}

	case TabSingularity:
		i := m.prestige.Cursor()
		if i < 0 || i >= len(m.cat.PrestigeUpgrades) {
			return
		}
		p := m.cat.PrestigeUpgrades[i]
		if !m.sess.BuyPrestigeUpgrade(p.ID) {
			lvl := m.state.PrestigeLevel(p.ID)
			if game.MaxedOut(p.MaxLevel, lvl) {
				m.setStatus(p.Name+" is maxed out", true)
			} else {
				m.setStatus(fmt.Sprintf("Need %s cosmic essence", m.num(game.PrestigeCost(p, lvl))), true)
			}
		}
	}
}

func (m *Model) advance() {
	next, ok := game.NextEpoch(m.cat, m.state)
	if !ok {
		m.setStatus("This is the final epoch", true)
		return
	}
	if !m.sess.AdvanceEpoch() {
		m.setStatus(fmt.Sprintf("%s needs %s %s", next.Name, m.num(next.UnlockCost), next.UnlockResource), true)
	}
}

func (m *Model) openPrestige() {
	if !game.CanPrestige(m.state) {
		name := "a later epoch"
		if game.PrestigeEpoch < len(m.cat.Epochs) {
			name = m.cat.Epochs[game.PrestigeEpoch].Name
		}
		m.setStatus("Collapse needs "+name+" and at least 1M stars ever formed", true)
		return
	}
	m.pushModal(modal{kind: modalPrestige})
}

func (m *Model) moveCursor(delta int) {
	switch m.tab {
	case TabUpgrades:
		moveTable(&m.upgrades, delta)
	case TabSingularity:
		moveTable(&m.prestige, delta)
	default:
		m.scroll = max(m.scroll+delta, 0)
	}
}

func moveTable(t *table.Model, delta int) {
	if delta < 0 {
		t.MoveUp(-delta)
	} else {
		t.MoveDown(delta)
	}
}

// sync refreshes the cached snapshot and everything derived from it.
func (m *Model) sync() {
	m.state = m.sess.Snapshot()
	m.refreshTables()
}

// refreshTables rebuilds table rows from the cached snapshot.
func (m *Model) refreshTables() {
	statuses := game.UpgradeStatuses(m.cat, m.state)
	rows := make([]table.Row, len(statuses))
	for i, st := range statuses {
		cost := fmt.Sprintf("%s %s", m.num(st.Cost), shortResource(st.Upgrade.CostResource))
		switch {
		case st.Maxed:
			cost = "MAX"
		case !st.Affordable:
			cost = "✗ " + cost
		}
		rows[i] = table.Row{st.Upgrade.Name, fmt.Sprintf("%d", st.Level), cost}
	}
	m.upgrades.SetRows(rows)
	if m.upgrades.Cursor() >= len(rows) && len(rows) > 0 {
		m.upgrades.SetCursor(len(rows) - 1)
	}

	prows := make([]table.Row, len(m.cat.PrestigeUpgrades))
	for i, p := range m.cat.PrestigeUpgrades {
		lvl := m.state.PrestigeLevel(p.ID)
		cost := m.num(game.PrestigeCost(p, lvl))
		if game.MaxedOut(p.MaxLevel, lvl) {
			cost = "MAX"
		}
		prows[i] = table.Row{p.Name, fmt.Sprintf("%d", lvl), cost}
	}
	m.prestige.SetRows(prows)
}

func (m *Model) setStatus(text string, bad bool) {
	m.status = text
	m.statusBad = bad
	m.statusUntil = m.now().Add(statusDuration)
}

// ringBell writes the terminal bell unless sound is muted.
func (m *Model) ringBell() {
	if m.bell == nil || m.settings.Muted() {
		return
	}
	//nolint:errcheck // Best-effort cue
	m.bell.Write([]byte("\a"))
}

// saveSettings persists the settings file, if one is configured.
func (m *Model) saveSettings() {
	if m.settingsPath == "" {
		return
	}
	if err := config.SaveSettings(m.settingsPath, m.settings); err != nil {
		m.logger.Warn("could not save settings", "path", m.settingsPath, "error", err)
		m.setStatus("Settings not saved: "+err.Error(), true)
	}
}

// now is the time of the last tick, so the view stays consistent with the
// snapshot it renders.
func (m Model) now() time.Time {
	if m.lastTick.IsZero() {
		return time.Now()
	}
	return m.lastTick
}

func (m Model) num(v float64) string {
	return FormatNumber(v, m.settings.ScientificNotation)
}

// formatLedger lists the non-zero entries of l, e.g. "+2 Energy, -3 Quark".
func (m Model) formatLedger(l core.Ledger) string {
	out := ""
	for _, r := range l.NonZero() {
		if out != "" {
			out += ", "
		}
		v := l[r]
		sign := "+"
		if v < 0 {
			sign = "-"
			v = -v
		}
		out += sign + m.num(v) + " " + r.String()
	}
	return out
}

// shortResource abbreviates resource names for narrow table cells.
func shortResource(r core.Resource) string {
	switch r {
	case core.Atom:
		return "Atom"
	case core.DarkMatter:
		return "DM"
	}
	return r.String()
}

// IsQuitting returns true if the player asked to leave.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run starts the Bubble Tea program for the game screen.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cosmic-clicker/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show the slot sidebar
	sidebarWidth       = 20  // Width of the slot sidebar
	maxCollapses       = 100 // Max collapses to load
	allSlots           = ""  // sidebar entry listing every slot
)

// HistoryKeyMap defines the key bindings for the collapse history.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Back     key.Binding
	Quit     key.Binding
	NextSlot key.Binding
	PrevSlot key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextSlot, k.PrevSlot, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextSlot, k.PrevSlot},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev slot"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next slot"),
		),
		NextSlot: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next slot"),
		),
		PrevSlot: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev slot"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the collapse history screen.
type HistoryModel struct {
	slots       []string // allSlots first, then every saved slot
	slotCursor  int
	store       *storage.Store
	collapses   []storage.CollapseEntry
	stats       *storage.CollapseStats
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewHistoryModel creates a new collapse history model.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	slots := []string{allSlots}
	if store != nil {
		if saves, err := store.ListSaves(); err == nil {
			for _, s := range saves {
				slots = append(slots, s.Slot)
			}
		}
	}

	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		slots:       slots,
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.loadCollapses()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Slot", Width: 12},
		{Title: "Essence", Width: 10},
		{Title: "Stars", Width: 10},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
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

// loadCollapses loads the history of the selected slot.
func (m *HistoryModel) loadCollapses() {
	m.collapses = nil
	m.stats = nil
	slot := m.slots[m.slotCursor]
	if m.store != nil {
		if entries, err := m.store.TopCollapses(slot, maxCollapses); err == nil {
			m.collapses = entries
		}
		if slot != allSlots {
			if stats, err := m.store.GetCollapseStats(slot); err == nil {
				m.stats = stats
			}
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded collapses.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.collapses))
	for i, c := range m.collapses {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			c.Slot,
			FormatNumber(c.EssenceGained, false),
			FormatNumber(c.TotalStarsEver, false),
			c.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextSlot), key.Matches(msg, m.keys.Right):
			m.slotCursor = (m.slotCursor + 1) % len(m.slots)
			m.loadCollapses()
			return m, nil

		case key.Matches(msg, m.keys.PrevSlot), key.Matches(msg, m.keys.Left):
			m.slotCursor = (m.slotCursor + len(m.slots) - 1) % len(m.slots)
			m.loadCollapses()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func slotLabel(slot string) string {
	if slot == allSlots {
		return "All slots"
	}
	return slot
}

// View renders the collapse history.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("SINGULARITY HISTORY - %s", slotLabel(m.slots[m.slotCursor]))
	b.WriteString(titleStyle.MarginBottom(1).Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.stats != nil && m.stats.Count > 0 {
		line := fmt.Sprintf("%d collapses  %s essence total  best %s",
			m.stats.Count, FormatNumber(m.stats.TotalEssence, false), FormatNumber(m.stats.BestCollapse, false))
		b.WriteString(mutedStyle.Render(centerText(line, m.width)))
		b.WriteString("\n\n")
	}

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the history with a sidebar for slot selection.
func (m HistoryModel) renderWideLayout() string {
	sidebarStyle := panelStyle.Width(sidebarWidth)

	var sidebar strings.Builder
	sidebar.WriteString("Slots\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, slot := range m.slots {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.slotCursor {
			cursor = "> "
			style = titleStyle
		}

		name := slotLabel(slot)
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", panelStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the current slot with arrows above the table.
func (m HistoryModel) renderNarrowLayout() string {
	var b strings.Builder
	b.WriteString(centerText(fmt.Sprintf("< %s >", slotLabel(m.slots[m.slotCursor])), m.width))
	b.WriteString("\n\n")
	b.WriteString(panelStyle.Render(m.renderTableContent()))
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.collapses) == 0 {
		emptyStyle := mutedStyle.Italic(true).Padding(2, 4)
		return emptyStyle.Render("No collapses recorded yet.\nReach Galaxy Formation and let the universe fall.")
	}
	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// RunHistory runs the history screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunHistory(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewHistoryModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}

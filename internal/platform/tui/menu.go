package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cosmic-clicker/internal/core"
	"github.com/vovakirdan/cosmic-clicker/internal/storage"
)

// MenuItem represents a selectable save slot in the menu.
type MenuItem struct {
	Slot    string
	Summary string
	New     bool // the "new universe" entry
}

// MenuKeyMap defines the key bindings of the slot menu.
type MenuKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	History key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k")),
		Down:    key.NewBinding(key.WithKeys("down", "j")),
		Select:  key.NewBinding(key.WithKeys("enter", " ")),
		History: key.NewBinding(key.WithKeys("tab")),
		Back:    key.NewBinding(key.WithKeys("esc")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	}
}

// MenuModel is the Bubble Tea model for the save slot picker.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	width       int
	height      int
	config      core.RuntimeConfig
	keys        MenuKeyMap
	input       textinput.Model
	naming      bool // the new slot name is being typed
	quitting    bool
	selected    *MenuItem
	openHistory bool
	err         error
}

// NewMenuModel creates a new menu model listing the slots in store.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	var items []MenuItem
	var loadErr error
	if store != nil {
		saves, err := store.ListSaves()
		loadErr = err
		for _, s := range saves {
			items = append(items, MenuItem{
				Slot: s.Slot,
				Summary: fmt.Sprintf("epoch %d  %d clicks  %s essence  %s",
					s.Epoch+1, s.TotalClicks, FormatNumber(s.Essence, false), s.UpdatedAt.Format("Jan 02 15:04")),
			})
		}
	}
	items = append(items, MenuItem{New: true})

	in := textinput.New()
	in.Placeholder = cfg.Slot
	in.CharLimit = 32

	return MenuModel{
		items:  items,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		config: cfg,
		keys:   DefaultMenuKeyMap(),
		input:  in,
		err:    loadErr,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.naming {
			return m.handleNaming(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		item := m.items[m.cursor]
		if item.New {
			m.naming = true
			return m, m.input.Focus()
		}
		m.selected = &item
		return m, tea.Quit

	case key.Matches(msg, m.keys.History):
		m.openHistory = true
		return m, tea.Quit
	}

	return m, nil
}

// handleNaming feeds the slot name input.
func (m MenuModel) handleNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.naming = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			name = m.config.Slot
		}
		m.selected = &MenuItem{Slot: name, New: true}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("  C O S M I C   C L I C K E R  ", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText("Choose a universe", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := cursor + item.Slot
		if item.New {
			line = cursor + "+ New universe"
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
		if item.Summary != "" {
			b.WriteString(mutedStyle.Render(centerText("    "+item.Summary, m.width)))
			b.WriteString("\n")
		}
	}

	if m.naming {
		b.WriteString("\n")
		b.WriteString(centerText("Slot name: "+m.input.View(), m.width))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(badStyle.Render(centerText("Could not list saves: "+m.err.Error(), m.width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: History  |  Q: Quit"
	b.WriteString(mutedStyle.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	padding := (width - n) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Slot         string
	New          bool
	Config       core.RuntimeConfig
	WantsHistory bool
	Quit         bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(store, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.Result(), nil
}

// Result summarizes what the player picked.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{Config: m.config}
	switch {
	case m.openHistory:
		result.WantsHistory = true
	case m.selected != nil:
		result.Slot = m.selected.Slot
		result.New = m.selected.New
		result.Config.Slot = m.selected.Slot
	default:
		result.Quit = true
	}
	return result
}

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/bustapuzzle/internal/core"
)

// Selection holds the player's choice from the stage selector.
type Selection struct {
	Endless bool
	Stage   int // 0 = start from the first stage, 1-N = specific stage
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

// StageMenuModel lets the player choose campaign, endless or a starting stage.
type StageMenuModel struct {
	stageNames    []string
	cursor        int
	stageCursor   int
	inStageSelect bool
	scrollOffset  int
	width         int
	height        int
	keyMapper     *KeyMapper
	selection     *Selection
	quitting      bool
}

var modeItems = []string{"Campaign", "Endless", "Select Stage..."}

// NewStageMenuModel creates a selector over the given campaign stage names.
func NewStageMenuModel(stageNames []string, width, height int) StageMenuModel {
	return StageMenuModel{
		stageNames: stageNames,
		width:      width,
		height:     height,
		keyMapper:  NewKeyMapper(),
	}
}

// Init initializes the model.
func (m StageMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m StageMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := m.keyMapper.MapKeyToMenuAction(msg)
		if m.inStageSelect {
			return m.handleStageKey(action)
		}
		return m.handleModeKey(action)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateScroll()
	}
	return m, nil
}

func (m StageMenuModel) handleModeKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(modeItems)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		switch m.cursor {
		case 0:
			m.selection = &Selection{}
			return m, tea.Quit
		case 1:
			m.selection = &Selection{Endless: true}
			return m, tea.Quit
		case 2:
			if len(m.stageNames) > 0 {
				m.inStageSelect = true
				m.stageCursor = 0
				m.scrollOffset = 0
			}
		}
	}
	return m, nil
}

func (m StageMenuModel) handleStageKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.stageCursor > 0 {
			m.stageCursor--
		}
	case MenuActionDown:
		if m.stageCursor < len(m.stageNames)-1 {
			m.stageCursor++
		}
	case MenuActionSelect:
		m.selection = &Selection{Stage: m.stageCursor + 1}
		return m, tea.Quit
	case MenuActionBack:
		m.inStageSelect = false
	}
	m.updateScroll()
	return m, nil
}

// visibleStages is how many stage lines fit between the title and the footer.
func (m StageMenuModel) visibleStages() int {
	return max(m.height-8, 3)
}

// updateScroll keeps the stage cursor on screen.
func (m *StageMenuModel) updateScroll() {
	visible := m.visibleStages()
	if m.stageCursor < m.scrollOffset {
		m.scrollOffset = m.stageCursor
	}
	if m.stageCursor >= m.scrollOffset+visible {
		m.scrollOffset = m.stageCursor - visible + 1
	}
}

// View renders the mode or stage list.
func (m StageMenuModel) View() string {
	if m.quitting || m.selection != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("B U S T - A - P U Z Z L E"), m.width))
	b.WriteString("\n\n")

	if m.inStageSelect {
		b.WriteString(centerText("Select stage:", m.width))
		b.WriteString("\n\n")
		end := min(m.scrollOffset+m.visibleStages(), len(m.stageNames))
		for i := m.scrollOffset; i < end; i++ {
			b.WriteString(centerText(m.item(i == m.stageCursor, fmt.Sprintf("%2d. %s", i+1, m.stageNames[i])), m.width))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(centerText("Select game mode:", m.width))
		b.WriteString("\n\n")
		for i, mode := range modeItems {
			if i == 0 {
				mode = fmt.Sprintf("%s (%d stages)", mode, len(m.stageNames))
			}
			b.WriteString(centerText(m.item(i == m.cursor, mode), m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))
	return b.String()
}

func (m StageMenuModel) item(selected bool, label string) string {
	if selected {
		return cursorStyle.Render("> " + label)
	}
	return "  " + label
}

// Selected returns the selection, or nil if the player left without choosing.
func (m StageMenuModel) Selected() *Selection {
	return m.selection
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunStageSelector shows the selector and returns the choice, or nil if the
// player quit.
func RunStageSelector(stageNames []string, cfg core.RuntimeConfig) (*Selection, error) {
	model := NewStageMenuModel(stageNames, cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(StageMenuModel)
	if !ok {
		return nil, nil
	}
	return m.Selected(), nil
}

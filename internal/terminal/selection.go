package terminal

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SelectionState is the state of a Selection.
type SelectionState int

const (
	StateAwaiting SelectionState = iota
	StateValidating
	StateConfirmed
	StateCancelled
)

// ConfirmResultMsg carries the confirmation verdict for the highlighted item
// back into a validating Selection.
type ConfirmResultMsg struct {
	Accepted bool
}

const (
	cursorMarker = "===> "
	rowIndent    = "     "
)

var (
	selectedStyle = lipgloss.NewStyle().Bold(true)
	helpTitle     = lipgloss.NewStyle().Bold(true).Render("Keys")
)

// Selection is a modal list in which the operator highlights and confirms
// one item.
type Selection struct {
	prompt  string
	heading string
	items   []string

	cursor int
	offset int
	height int

	keys     KeyMap
	help     help.Model
	showHelp bool
	state    SelectionState
}

// NewSelection creates a selection over items with the cursor on the first
// item. items must not be empty.
func NewSelection(prompt string, items []string, keys KeyMap) Selection {
	h := help.New()
	h.ShowAll = true

	return Selection{
		prompt: prompt,
		items:  items,
		keys:   keys,
		help:   h,
	}
}

// SetHeading sets the line drawn above the items.
func (m *Selection) SetHeading(heading string) {
	m.heading = heading
}

// SetCursor moves the cursor, clamped to the item range.
func (m *Selection) SetCursor(index int) {
	m.cursor = max(0, min(index, len(m.items)-1))
	m.scroll()
}

// Cursor returns the highlighted index.
func (m Selection) Cursor() int { return m.cursor }

// State returns the current state.
func (m Selection) State() SelectionState { return m.state }

// ShowingHelp reports whether the help overlay is up.
func (m Selection) ShowingHelp() bool { return m.showHelp }

// Init implements tea.Model.
func (m Selection) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Selection) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scroll()

	case ConfirmResultMsg:
		if m.state != StateValidating {
			return m, nil
		}
		if msg.Accepted {
			m.state = StateConfirmed
		} else {
			m.state = StateAwaiting
		}

	case tea.KeyMsg:
		if m.state != StateAwaiting {
			return m, nil
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Cancel):
			m.state = StateCancelled
		case key.Matches(msg, m.keys.Confirm):
			m.state = StateValidating
		default:
			m.showHelp = true
		}
		m.scroll()
	}

	return m, nil
}

// View implements tea.Model.
func (m Selection) View() string {
	if m.showHelp {
		return helpTitle + "\n\n" + m.help.View(m.keys)
	}

	var b strings.Builder
	b.WriteString(m.prompt)
	b.WriteString("\n\n")
	if m.heading != "" {
		b.WriteString(rowIndent + m.heading + "\n")
	}

	end := len(m.items)
	if rows := m.listRows(); rows > 0 {
		end = min(end, m.offset+rows)
	}
	for i := m.offset; i < end; i++ {
		item := strings.ReplaceAll(m.items[i], "\n", " ")
		if i == m.cursor {
			b.WriteString(selectedStyle.Render(cursorMarker + item))
		} else {
			b.WriteString(rowIndent + item)
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// listRows returns how many items fit, or 0 when the height is unknown.
func (m Selection) listRows() int {
	if m.height <= 0 {
		return 0
	}
	header := strings.Count(m.prompt, "\n") + 2
	if m.heading != "" {
		header++
	}
	return max(1, m.height-header)
}

// scroll keeps the cursor row inside the visible window.
func (m *Selection) scroll() {
	rows := m.listRows()
	if rows == 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(0, min(m.offset, len(m.items)-rows))
}

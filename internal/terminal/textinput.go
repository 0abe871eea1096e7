package terminal

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TextInput is a modal single-line editor. Printable keys append to the
// buffer, the erase key drops the last character and the submit key ends
// the interaction. There is no way to cancel.
type TextInput struct {
	prompt string
	input  textinput.Model
	keys   KeyMap
	done   bool
}

// NewTextInput creates an editor seeded with value.
func NewTextInput(prompt, value string, keys KeyMap) TextInput {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	ti.Cursor.SetMode(cursor.CursorStatic)

	return TextInput{
		prompt: prompt,
		input:  ti,
		keys:   keys,
	}
}

// Value returns the buffer.
func (m TextInput) Value() string { return m.input.Value() }

// Done reports whether the operator submitted the buffer.
func (m TextInput) Done() bool { return m.done }

// Init implements tea.Model.
func (m TextInput) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m TextInput) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok || m.done {
		return m, nil
	}

	switch {
	case key.Matches(k, m.keys.Submit):
		m.done = true
		m.input.Blur()
	case key.Matches(k, m.keys.Erase):
		m.input, _ = m.input.Update(k)
	case !k.Alt && (k.Type == tea.KeyRunes || k.Type == tea.KeySpace):
		m.input, _ = m.input.Update(k)
	}
	return m, nil
}

// View implements tea.Model.
func (m TextInput) View() string {
	return m.prompt + "\n\n" + m.input.View()
}

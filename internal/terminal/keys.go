package terminal

import (
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines the key bindings of both interaction modes.
type KeyMap struct {
	// Selection mode
	Down    key.Binding
	Up      key.Binding
	Cancel  key.Binding
	Confirm key.Binding

	// Text-input mode
	Submit key.Binding
	Erase  key.Binding

	// Both modes
	Interrupt key.Binding
}

// DefaultKeyMap returns the installer's key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q/esc", "cancel"),
		),
		Confirm: key.NewBinding(
			key.WithKeys(";", "enter"),
			key.WithHelp(";/enter", "select"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Erase: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "erase"),
		),
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "abort"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Cancel, k.Confirm}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up},
		{k.Cancel, k.Confirm},
		{k.Interrupt},
	}
}

// Escape sequences sent by common terminals for the special keys.
var sequences = map[string]tea.KeyType{
	"\x1b[A":  tea.KeyUp,
	"\x1b[B":  tea.KeyDown,
	"\x1b[C":  tea.KeyRight,
	"\x1b[D":  tea.KeyLeft,
	"\x1bOA":  tea.KeyUp,
	"\x1bOB":  tea.KeyDown,
	"\x1bOC":  tea.KeyRight,
	"\x1bOD":  tea.KeyLeft,
	"\x1b[H":  tea.KeyHome,
	"\x1b[F":  tea.KeyEnd,
	"\x1bOH":  tea.KeyHome,
	"\x1bOF":  tea.KeyEnd,
	"\x1b[1~": tea.KeyHome,
	"\x1b[4~": tea.KeyEnd,
	"\x1b[2~": tea.KeyInsert,
	"\x1b[3~": tea.KeyDelete,
	"\x1b[5~": tea.KeyPgUp,
	"\x1b[6~": tea.KeyPgDown,
	"\x1b[Z":  tea.KeyShiftTab,
}

// DecodeKeys splits raw terminal input into key messages. Unrecognized
// escape sequences are reported as alt-modified runes so that they never
// alias a bound key.
func DecodeKeys(buf []byte) []tea.KeyMsg {
	var keys []tea.KeyMsg
	for len(buf) > 0 {
		k, n := decodeKey(buf)
		keys = append(keys, k)
		buf = buf[n:]
	}
	return keys
}

func decodeKey(buf []byte) (tea.KeyMsg, int) {
	b := buf[0]

	switch {
	case b == 0x1b:
		return decodeEscape(buf)
	case b == '\r' || b == '\n':
		return tea.KeyMsg{Type: tea.KeyEnter}, 1
	case b == 0x7f || b == 0x08:
		return tea.KeyMsg{Type: tea.KeyBackspace}, 1
	case b == ' ':
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, 1
	case b < 0x20:
		// Control keys share their byte value with the key type
		return tea.KeyMsg{Type: tea.KeyType(b)}, 1
	}

	r, n := utf8.DecodeRune(buf)
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, n
}

func decodeEscape(buf []byte) (tea.KeyMsg, int) {
	if len(buf) == 1 {
		return tea.KeyMsg{Type: tea.KeyEsc}, 1
	}

	if buf[1] != '[' && buf[1] != 'O' {
		if buf[1] == 0x1b {
			return tea.KeyMsg{Type: tea.KeyEsc}, 1
		}
		// Alt+key arrives as ESC followed by the key
		k, n := decodeKey(buf[1:])
		k.Alt = true
		return k, n + 1
	}

	// CSI and SS3 sequences end at the first byte in 0x40-0x7e
	end := 2
	for end < len(buf) {
		c := buf[end]
		end++
		if c >= 0x40 && c <= 0x7e {
			break
		}
	}

	seq := string(buf[:end])
	if t, ok := sequences[seq]; ok {
		return tea.KeyMsg{Type: t}, end
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(seq[1:]), Alt: true}, end
}

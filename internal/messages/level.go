package messages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Level is a message severity, ordered by display suppression.
type Level int

const (
	LevelNormal Level = iota + 1
	LevelSuccess
	LevelError
	LevelWarning
	LevelInfo
	LevelVerbose
)

var levelNames = map[Level]string{
	LevelNormal:  "normal",
	LevelSuccess: "success",
	LevelError:   "error",
	LevelWarning: "warning",
	LevelInfo:    "info",
	LevelVerbose: "verbose",
}

// String returns the lowercase level name
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// Level styles for plain terminal output
var levelStyles = map[Level]lipgloss.Style{
	LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
	LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
}

// Style returns the color style used to display messages of this level.
func (l Level) Style() lipgloss.Style {
	if style, ok := levelStyles[l]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// ParseLevel converts a level name (case-insensitive) into a Level.
func ParseLevel(name string) (Level, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for level, n := range levelNames {
		if n == want {
			return level, nil
		}
	}
	return 0, fmt.Errorf("unknown message level %q", name)
}

// Message is a single queued line of operator-facing text.
type Message struct {
	Text  string
	Level Level
}

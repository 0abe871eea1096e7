package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muurk/autoinstall/internal/messages"
	"go.uber.org/zap"
)

var borderStyle = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	Padding(0, 1)

// Session owns the terminal while the operator edits the profile. It draws
// a bordered window, runs one modal interaction at a time and shows pending
// log messages under every frame.
//
// A Session is used once: Acquire, any number of Select and Input calls,
// then Release.
type Session struct {
	console Console
	log     *messages.Log
	logger  *zap.Logger
	keys    KeyMap

	mu       sync.Mutex
	acquired bool
	active   bool
	geometry Geometry
	stop     func() bool
	release  sync.Once
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(keys KeyMap) Option {
	return func(s *Session) {
		s.keys = keys
	}
}

// NewSession creates a session drawing on console and showing messages
// from log.
func NewSession(console Console, log *messages.Log, opts ...Option) *Session {
	s := &Session{
		console: console,
		log:     log,
		logger:  zap.NewNop(),
		keys:    DefaultKeyMap(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Acquire takes over the terminal. Cancelling ctx releases the session from
// any goroutine, which also unblocks a pending key read. If the terminal is
// too small the session is released again and ErrTerminalTooSmall returned.
func (s *Session) Acquire(ctx context.Context) error {
	s.mu.Lock()
	if s.acquired {
		s.mu.Unlock()
		return errors.New("terminal session already acquired")
	}
	s.acquired = true
	s.mu.Unlock()

	if err := s.console.Open(); err != nil {
		s.log.Errorf("Failed to set up the terminal: %v", err)
		return fmt.Errorf("failed to open terminal: %w", err)
	}

	s.mu.Lock()
	s.active = true
	s.stop = context.AfterFunc(ctx, s.Release)
	s.mu.Unlock()

	width, height, err := s.console.Size()
	if err != nil {
		s.Release()
		s.log.Errorf("Failed to get the terminal size: %v", err)
		return fmt.Errorf("failed to get terminal size: %w", err)
	}

	geometry, err := ComputeGeometry(width, height)
	if err != nil {
		s.Release()
		s.log.Errorf("Min dim: %dx%d", MinRows, MinCols)
		return err
	}

	s.mu.Lock()
	s.geometry = geometry
	s.mu.Unlock()

	s.logger.Debug("terminal session acquired",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("rows", geometry.Outer.Rows),
		zap.Int("cols", geometry.Outer.Cols),
	)
	return nil
}

// Release restores the terminal. Only the first call has an effect, so it
// is safe to defer and to call from a cancellation hook.
func (s *Session) Release() {
	s.release.Do(func() {
		s.mu.Lock()
		wasActive := s.active
		s.active = false
		stop := s.stop
		s.mu.Unlock()

		if stop != nil {
			stop()
		}
		if !wasActive {
			return
		}
		if err := s.console.Close(); err != nil {
			s.logger.Warn("failed to restore terminal", zap.Error(err))
		}
		s.logger.Debug("terminal session released")
	})
}

// Active reports whether the session currently owns the terminal.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Geometry returns the window layout computed by Acquire.
func (s *Session) Geometry() Geometry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.geometry
}

// ClearScreen erases the terminal. It also works after Release.
func (s *Session) ClearScreen() {
	if err := s.console.Clear(); err != nil {
		s.logger.Debug("failed to clear screen", zap.Error(err))
	}
}

// Confirmer decides whether the highlighted item of a selection may be
// accepted. It may run nested interactions on the same session.
type Confirmer interface {
	Confirm(ctx context.Context, index int) (bool, error)
}

type acceptAll struct{}

func (acceptAll) Confirm(context.Context, int) (bool, error) { return true, nil }

type selectConfig struct {
	heading   string
	cursor    int
	confirmer Confirmer
}

// SelectOption configures a Select call.
type SelectOption func(*selectConfig)

// WithHeading draws heading above the items.
func WithHeading(heading string) SelectOption {
	return func(c *selectConfig) {
		c.heading = heading
	}
}

// WithCursor starts with the cursor on index.
func WithCursor(index int) SelectOption {
	return func(c *selectConfig) {
		c.cursor = index
	}
}

// WithConfirmer consults c before accepting an item.
func WithConfirmer(c Confirmer) SelectOption {
	return func(cfg *selectConfig) {
		cfg.confirmer = c
	}
}

// Select lets the operator pick one of items. It returns the chosen index
// and true, or false when the operator cancelled.
func (s *Session) Select(ctx context.Context, prompt string, items []string, opts ...SelectOption) (int, bool, error) {
	if len(items) == 0 {
		s.log.Error("Not enough items given to select from")
		return -1, false, ErrEmptySelection
	}

	cfg := selectConfig{confirmer: acceptAll{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := NewSelection(prompt, items, s.keys)
	m.SetHeading(cfg.heading)
	m.SetCursor(cfg.cursor)

	for {
		var model tea.Model = m
		model = s.draw(model)
		m = model.(Selection)

		k, err := s.readKey(ctx)
		if err != nil {
			return -1, false, err
		}

		model, _ = m.Update(k)
		m = model.(Selection)

		if m.State() == StateValidating {
			accepted, err := cfg.confirmer.Confirm(ctx, m.Cursor())
			if err != nil {
				return -1, false, err
			}
			model, _ = m.Update(ConfirmResultMsg{Accepted: accepted})
			m = model.(Selection)
		}

		switch m.State() {
		case StateConfirmed:
			return m.Cursor(), true, nil
		case StateCancelled:
			return -1, false, nil
		}
	}
}

// Setter is a value edited in text-input mode.
type Setter interface {
	Display() string
	Set(candidate string) bool
}

// Input edits field in text-input mode, seeded with its current value.
// When the operator submits, the buffer is passed to field.Set; a rejected
// value leaves the field unchanged and the rejection in the log. It reports
// whether the field accepted the buffer.
func (s *Session) Input(ctx context.Context, prompt string, field Setter) (bool, error) {
	m := NewTextInput(prompt, field.Display(), s.keys)

	for {
		var model tea.Model = m
		model = s.draw(model)
		m = model.(TextInput)

		k, err := s.readKey(ctx)
		if err != nil {
			return false, err
		}

		model, _ = m.Update(k)
		m = model.(TextInput)

		if m.Done() {
			return field.Set(m.Value()), nil
		}
	}
}

func (s *Session) readKey(ctx context.Context) (tea.KeyMsg, error) {
	if err := ctx.Err(); err != nil {
		return tea.KeyMsg{}, err
	}
	if !s.Active() {
		return tea.KeyMsg{}, ErrNotAcquired
	}

	k, err := s.console.ReadKey()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return tea.KeyMsg{}, ctxErr
		}
		return tea.KeyMsg{}, fmt.Errorf("failed to read key: %w", err)
	}

	if key.Matches(k, s.keys.Interrupt) {
		return tea.KeyMsg{}, ErrInterrupted
	}
	return k, nil
}

// draw renders one frame: the model's view with the pending log messages
// underneath, inside the border. Write failures are logged and otherwise
// ignored; the next key press draws again.
func (s *Session) draw(model tea.Model) tea.Model {
	if !s.Active() {
		return model
	}

	geo := s.Geometry()
	inner := geo.Inner

	notes := s.drainNotes(inner.Cols)
	if limit := inner.Rows / 2; len(notes) > limit {
		notes = notes[len(notes)-limit:]
	}

	bodyRows := inner.Rows
	if len(notes) > 0 {
		bodyRows -= len(notes) + 1
	}

	model, _ = model.Update(tea.WindowSizeMsg{Width: inner.Cols, Height: bodyRows})

	lines := strings.Split(model.View(), "\n")
	if len(lines) > bodyRows {
		lines = lines[:bodyRows]
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, inner.Cols, "")
	}
	if len(notes) > 0 {
		lines = append(lines, "")
		lines = append(lines, notes...)
	}

	frame := borderStyle.
		Width(geo.Outer.Cols - 2).
		Height(geo.Outer.Rows - 2).
		MarginTop(geo.Outer.Row).
		MarginLeft(geo.Outer.Col).
		Render(strings.Join(lines, "\n"))

	if err := s.console.Clear(); err != nil {
		s.logger.Debug("failed to clear frame", zap.Error(err))
	}
	if _, err := s.console.Write([]byte(frame)); err != nil {
		s.logger.Debug("failed to draw frame", zap.Error(err))
	}
	return model
}

// drainNotes empties the message log into styled lines no wider than cols.
func (s *Session) drainNotes(cols int) []string {
	var notes []string
	style := lipgloss.NewStyle()

	s.log.FlushToSurface(
		func(level messages.Level) {
			style = level.Style()
		},
		func(text string) {
			text = strings.ReplaceAll(strings.TrimRight(text, "\n"), "\t", "    ")
			for _, line := range strings.Split(text, "\n") {
				notes = append(notes, style.Render(ansi.Truncate(line, cols, "")))
			}
		},
	)
	return notes
}

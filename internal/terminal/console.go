package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/cancelreader"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Console is the terminal device a Session draws on.
type Console interface {
	// Size returns the terminal dimensions in columns and rows.
	Size() (width, height int, err error)

	// Open switches to raw mode on the alternate screen with the cursor
	// hidden.
	Open() error

	// Close undoes Open and unblocks a pending ReadKey. It is safe to call
	// from another goroutine while ReadKey blocks.
	Close() error

	// ReadKey blocks until the next key press.
	ReadKey() (tea.KeyMsg, error)

	// Clear erases the visible screen.
	Clear() error

	io.Writer
}

// TTY is a Console backed by the process's controlling terminal.
type TTY struct {
	in  *os.File
	out *termenv.Output

	mu      sync.Mutex
	state   *term.State
	reader  cancelreader.CancelReader
	pending []tea.KeyMsg
	raw     bool
}

// NewTTY creates a console on in and out. Both must be terminals.
func NewTTY(in, out *os.File) (*TTY, error) {
	if !term.IsTerminal(int(in.Fd())) || !term.IsTerminal(int(out.Fd())) {
		return nil, ErrNotATerminal
	}
	return &TTY{
		in:  in,
		out: termenv.NewOutput(out),
	}, nil
}

// Size returns the terminal dimensions.
func (t *TTY) Size() (int, int, error) {
	return term.GetSize(int(t.in.Fd()))
}

// Open enters raw mode and the alternate screen.
func (t *TTY) Open() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.raw {
		return nil
	}

	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}

	reader, err := cancelreader.NewReader(t.in)
	if err != nil {
		_ = term.Restore(int(t.in.Fd()), state)
		return fmt.Errorf("failed to create key reader: %w", err)
	}

	t.state = state
	t.reader = reader
	t.raw = true

	t.out.AltScreen()
	t.out.HideCursor()
	t.out.ClearScreen()
	return nil
}

// Close restores the terminal. Calling Close more than once has no
// further effect.
func (t *TTY) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.raw {
		return nil
	}
	t.raw = false

	t.reader.Cancel()

	t.out.ShowCursor()
	t.out.ExitAltScreen()

	if err := term.Restore(int(t.in.Fd()), t.state); err != nil {
		return fmt.Errorf("failed to restore terminal: %w", err)
	}
	return nil
}

// ReadKey returns the next key press. After Close it returns
// cancelreader.ErrCanceled.
func (t *TTY) ReadKey() (tea.KeyMsg, error) {
	t.mu.Lock()
	if len(t.pending) > 0 {
		k := t.pending[0]
		t.pending = t.pending[1:]
		t.mu.Unlock()
		return k, nil
	}
	reader := t.reader
	t.mu.Unlock()

	if reader == nil {
		return tea.KeyMsg{}, cancelreader.ErrCanceled
	}

	var buf [256]byte
	for {
		n, err := reader.Read(buf[:])
		if err != nil {
			if errors.Is(err, cancelreader.ErrCanceled) {
				reader.Close()
			}
			return tea.KeyMsg{}, err
		}
		if n == 0 {
			continue
		}

		keys := DecodeKeys(buf[:n])
		if len(keys) == 0 {
			continue
		}
		t.mu.Lock()
		t.pending = append(t.pending, keys[1:]...)
		t.mu.Unlock()
		return keys[0], nil
	}
}

// Clear erases the screen and homes the cursor.
func (t *TTY) Clear() error {
	t.out.ClearScreen()
	return nil
}

// Write writes p, translating line feeds while the terminal is raw.
func (t *TTY) Write(p []byte) (int, error) {
	t.mu.Lock()
	raw := t.raw
	t.mu.Unlock()

	if !raw {
		return t.out.Write(p)
	}
	if _, err := t.out.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

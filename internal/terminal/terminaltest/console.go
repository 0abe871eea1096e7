// Package terminaltest provides a scripted Console for tests.
package terminaltest

import (
	"bytes"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muurk/autoinstall/internal/terminal"
)

// Console replays a fixed key script and records everything drawn.
// When the script runs out ReadKey returns io.EOF, or with Block set it
// waits for Close first, like a terminal nobody types on.
type Console struct {
	Width, Height int
	Block         bool

	mu      sync.Mutex
	keys    []tea.KeyMsg
	out     bytes.Buffer
	frames  []string
	open    bool
	opens   int
	closes  int
	clears  int
	OpenErr error

	closed    chan struct{}
	blocked   chan struct{}
	blockOnce sync.Once
}

// New creates a width x height console that types input. input is decoded
// the way a raw terminal delivers it, so "j\r" is the j key followed by
// enter and "\x1b[B" is the down arrow.
func New(width, height int, input string) *Console {
	return &Console{
		Width:   width,
		Height:  height,
		keys:    terminal.DecodeKeys([]byte(input)),
		closed:  make(chan struct{}),
		blocked: make(chan struct{}),
	}
}

// Blocked is closed once ReadKey starts waiting on an exhausted script.
func (c *Console) Blocked() <-chan struct{} {
	return c.blocked
}

// Type appends more input to the script.
func (c *Console) Type(input string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = append(c.keys, terminal.DecodeKeys([]byte(input))...)
}

func (c *Console) Size() (int, int, error) {
	return c.Width, c.Height, nil
}

func (c *Console) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.OpenErr != nil {
		return c.OpenErr
	}
	c.open = true
	c.opens++
	select {
	case <-c.closed:
		c.closed = make(chan struct{})
	default:
	}
	return nil
}

func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	c.closes++
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

func (c *Console) ReadKey() (tea.KeyMsg, error) {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return tea.KeyMsg{}, io.EOF
	}
	if len(c.keys) > 0 {
		k := c.keys[0]
		c.keys = c.keys[1:]
		c.mu.Unlock()
		return k, nil
	}
	block, closed := c.Block, c.closed
	c.mu.Unlock()

	if block {
		c.blockOnce.Do(func() { close(c.blocked) })
		<-closed
	}
	return tea.KeyMsg{}, io.EOF
}

func (c *Console) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clears++
	if c.out.Len() > 0 {
		c.frames = append(c.frames, c.out.String())
		c.out.Reset()
	}
	return nil
}

func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.Write(p)
}

// Frames returns every frame drawn so far, oldest first.
func (c *Console) Frames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	frames := append([]string(nil), c.frames...)
	if c.out.Len() > 0 {
		frames = append(frames, c.out.String())
	}
	return frames
}

// LastFrame returns the most recent frame, "" if none was drawn.
func (c *Console) LastFrame() string {
	frames := c.Frames()
	if len(frames) == 0 {
		return ""
	}
	return frames[len(frames)-1]
}

// IsOpen reports whether the console is in raw mode.
func (c *Console) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Opens and Closes count the calls to Open and Close.
func (c *Console) Opens() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens
}

func (c *Console) Closes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// Clears counts the calls to Clear.
func (c *Console) Clears() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clears
}

// Remaining returns the number of unread keys.
func (c *Console) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keys)
}

var _ terminal.Console = (*Console)(nil)

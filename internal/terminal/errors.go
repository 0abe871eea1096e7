package terminal

import "errors"

var (
	// ErrTerminalTooSmall is returned by Acquire when the terminal cannot fit
	// the minimum window.
	ErrTerminalTooSmall = errors.New("terminal is too small")

	// ErrNotATerminal is returned when standard input or output is not a tty.
	ErrNotATerminal = errors.New("not a terminal")

	// ErrInterrupted is returned when the operator presses the interrupt key.
	ErrInterrupted = errors.New("interrupted")

	// ErrEmptySelection is returned by Select for an empty item list.
	ErrEmptySelection = errors.New("no items to select from")

	// ErrNotAcquired is returned when the session is used before Acquire or
	// after Release.
	ErrNotAcquired = errors.New("terminal session is not active")
)

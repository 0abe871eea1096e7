// Package terminal draws the installer's interactive window and reads keys.
//
// A Session takes over the terminal in raw mode on the alternate screen and
// draws a bordered window centered on it. Inside the window it runs one of
// two modal interactions:
//
//   - Select: a list navigated with j/k or the arrow keys, confirmed with
//     enter or ";" and cancelled with q or esc. Any other key shows the key
//     help until the next key press.
//   - Input: a one-line editor seeded with a field's value. Typing appends,
//     backspace erases and enter applies the value to the field.
//
// Both are Bubble Tea models (Selection and TextInput) driven one key at a
// time by the session. Every frame also shows the messages pending in the
// message log below the list.
//
// # Cancellation
//
// Acquire registers Release on the context, so cancelling it (for example
// from a signal handler) restores the terminal even while a key read is
// blocked. Pressing ctrl+c returns ErrInterrupted.
//
// # Usage Example
//
//	tty, err := terminal.NewTTY(os.Stdin, os.Stdout)
//	if err != nil {
//	    return err
//	}
//	session := terminal.NewSession(tty, log)
//	if err := session.Acquire(ctx); err != nil {
//	    return err
//	}
//	defer session.Release()
//
//	index, ok, err := session.Select(ctx, "Pick one:", []string{"a", "b"})
package terminal

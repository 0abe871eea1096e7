// Package logging provides developer diagnostics for autoinstall.
//
// This package wraps a zap logger. It is deliberately separate from the
// operator-facing message log in package messages: diagnostics written here
// describe what the program is doing internally (commands run, terminal
// state changes, key events), while the message log holds the text the
// operator reads.
//
// # Configuration
//
// Logging is silent unless AUTOINSTALL_LOG_LEVEL is set (or a level is
// passed explicitly), so the raw-mode terminal UI is never interleaved with
// log lines:
//
//	if err := logging.Initialize(logLevel); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Output Format
//
// Logs are written to stderr in zap's console format:
//
//	2026-10-16T10:30:45.123-0600  DEBUG  system/runner.go:41  running command
//	  {"name": "lsblk", "args": ["--bytes", "--nodeps"]}
//
// # Thread Safety
//
// All functions are safe for concurrent use.
package logging

// Package ui renders the installer's plain terminal output once the
// interactive window is gone.
//
// It provides two box types, drawn with Lipgloss:
//
//   - Header: title, subtitle and aligned detail rows; used for the final
//     profile summary
//   - Result: success or failure box with optional error text and
//     troubleshooting tips
//
// Passwords in the profile summary are masked unless explicitly revealed.
//
// # Usage Example
//
//	printer := ui.NewPrinter(os.Stdout)
//	printer.PrintProfile(p, packages, false)
//	printer.PrintError("No device selected", err, "Run without --non-interactive to pick one")
//
// # Logging Integration
//
// This package expects logging to be controlled via the AUTOINSTALL_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated output to be displayed cleanly.
package ui

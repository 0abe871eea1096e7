// Package messages implements the operator-facing message log.
//
// Messages are queued as they are produced and shown later, either inside
// the terminal UI's content window (FlushToSurface) or on plain output once
// the UI has been torn down (FlushToPlainOutput). A log file, when attached,
// receives every message exactly once at the moment it is drained, whether
// or not the message is displayed.
//
// # Levels
//
// Levels are ordered by how readily they are suppressed, not by urgency:
//
//	normal < success < error < warning < info < verbose
//
// A message is displayed only when its level is at or below the configured
// threshold. The default threshold is LevelVerbose (everything is shown).
//
// # Usage
//
//	log := messages.New(messages.LevelVerbose)
//	defer log.Close() // final plain flush, closes the log file
//
//	if err := log.AttachFile(path); err != nil {
//	    ...
//	}
//	log.Errorf("Failed to read the profile from %s", path)
//
// There is exactly one Log per run; it is passed explicitly to every
// component that reports to the operator.
package messages

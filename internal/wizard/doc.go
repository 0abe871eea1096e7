// Package wizard implements the interactive profile editor.
//
// The editor shows one list with every profile field and its current value,
// followed by a "Begin Installation" entry. Choosing a field opens the
// interaction that fits it:
//
//   - boolean fields: a yes/no list
//   - device: the list of large enough block devices; a device that
//     already has partitions must be confirmed explicitly
//   - time zone: the list of time zones the system knows
//   - every other field: a text prompt seeded with the current value
//
// Afterwards the editor returns to the field list with the cursor where it
// was. "Begin Installation" only succeeds once a device is set; without one
// it opens the device list first. Cancelling the field list aborts editing.
//
// # Usage Example
//
//	session := terminal.NewSession(tty, log)
//	editor := wizard.NewEditor(session, log, host, host)
//	if err := editor.Run(ctx, p); err != nil {
//	    return err
//	}
//
// Rejected text input is not re-prompted: the field keeps its previous value
// and the reason is shown under the next frame.
package wizard

package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/muurk/autoinstall/internal/messages"
	"github.com/muurk/autoinstall/internal/profile"
	"github.com/muurk/autoinstall/internal/system"
	"github.com/muurk/autoinstall/internal/terminal"
	"go.uber.org/zap"
)

// ErrAborted is returned by Run when the operator cancels the field list.
var ErrAborted = errors.New("profile editing aborted")

// DeviceSource lists candidate devices and inspects their partitions.
type DeviceSource interface {
	Devices(ctx context.Context, minBytes uint64) (system.DeviceList, error)
	LacksPartitions(ctx context.Context, path string) (bool, error)
}

// TimeZoneSource lists valid time zone identifiers.
type TimeZoneSource interface {
	TimeZones(ctx context.Context) ([]string, error)
}

// Selector runs a selection interaction.
type Selector interface {
	Select(ctx context.Context, prompt string, items []string, opts ...terminal.SelectOption) (int, bool, error)
}

const (
	fieldListPrompt = "Select a field to change before installation:"
	beginItem       = "Begin Installation"
)

// Text prompts per field
var inputPrompts = map[string]string{
	profile.FieldMinDeviceBytes: "Enter the minimum number of bytes for a device:",
	profile.FieldBootLabel:      "Enter the new boot label:",
	profile.FieldHostname:       "Enter the new hostname:",
	profile.FieldRootPassword:   "Enter the new password for root:",
	profile.FieldUsername:       "Enter the new name for the user:",
	profile.FieldUserPassword:   "Enter the new password for the user:",
	profile.FieldSudoGroup:      "Enter the new name for the sudo group:",
}

// yesNo is the dialog offered for a boolean field. Item 0 means false.
type yesNo struct {
	prompt string
	no     string
	yes    string
}

var boolDialogs = map[string]yesNo{
	profile.FieldNetworkInstall: {
		prompt: "Enable network installation mode?\n\n" +
			"Note: Check the configuration at /etc/pacman.conf before changing this setting.",
		no:  "No. Install packages from an offline repository.",
		yes: "Yes. Download and install packages from remote repositories.",
	},
	profile.FieldRestart: {
		prompt: "Enable restart after installation?",
		no:     "No. Do not restart once installation is complete.",
		yes:    "Yes. Restart once installation is complete.",
	},
}

// Editor lets the operator review and change a profile before installation.
type Editor struct {
	session *terminal.Session
	log     *messages.Log
	devices DeviceSource
	zones   TimeZoneSource
	logger  *zap.Logger
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) EditorOption {
	return func(e *Editor) {
		e.logger = logger
	}
}

// NewEditor creates an editor that draws on session.
func NewEditor(session *terminal.Session, log *messages.Log, devices DeviceSource, zones TimeZoneSource, opts ...EditorOption) *Editor {
	e := &Editor{
		session: session,
		log:     log,
		devices: devices,
		zones:   zones,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run acquires the terminal and edits p until the operator begins the
// installation with a device set. It returns ErrAborted if the operator
// cancels, and the session's error if the terminal cannot be used.
func (e *Editor) Run(ctx context.Context, p *profile.Profile) error {
	if err := e.session.Acquire(ctx); err != nil {
		return err
	}
	defer e.session.Release()

	cursor := 0
	for {
		items := Summary(p)
		index, ok, err := e.session.Select(ctx, fieldListPrompt, items, terminal.WithCursor(cursor))
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
		cursor = index

		if index == len(items)-1 {
			if !p.Device().IsSet() {
				if err := e.editDevice(ctx, p); err != nil {
					return err
				}
			}
			if p.Device().IsSet() {
				break
			}
			continue
		}

		field := p.Fields()[index]
		e.logger.Debug("editing field", zap.String("field", field.Name()))
		if err := e.editField(ctx, p, field); err != nil {
			return err
		}
	}

	e.session.Release()
	e.session.ClearScreen()
	return nil
}

// Summary returns the field list rows: one per field followed by the
// entry that begins the installation.
func Summary(p *profile.Profile) []string {
	fields := p.Fields()
	items := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		value := f.Display()
		if !f.IsSet() {
			value = "none"
		}
		items = append(items, fmt.Sprintf("%16s  ->  %s", f.Label(), value))
	}
	return append(items, beginItem)
}

func (e *Editor) editField(ctx context.Context, p *profile.Profile, field *profile.Field) error {
	switch {
	case field.Name() == profile.FieldDevice:
		return e.editDevice(ctx, p)
	case field.Name() == profile.FieldTimeZone:
		return e.editTimeZone(ctx, field)
	case field.Kind() == profile.KindBool:
		return e.editBool(ctx, field)
	}

	prompt, ok := inputPrompts[field.Name()]
	if !ok {
		prompt = fmt.Sprintf("Enter the new %s:", field.Label())
	}
	_, err := e.session.Input(ctx, prompt, field)
	return err
}

func (e *Editor) editBool(ctx context.Context, field *profile.Field) error {
	dialog, ok := boolDialogs[field.Name()]
	if !ok {
		dialog = yesNo{prompt: fmt.Sprintf("Enable %s?", field.Label()), no: "No.", yes: "Yes."}
	}

	current := 0
	if field.Bool() {
		current = 1
	}

	index, ok, err := e.session.Select(ctx, dialog.prompt, []string{dialog.no, dialog.yes},
		terminal.WithCursor(current))
	if err != nil || !ok {
		return err
	}
	field.Set(fmt.Sprint(index))
	return nil
}

func (e *Editor) editDevice(ctx context.Context, p *profile.Profile) error {
	list, err := e.devices.Devices(ctx, p.MinDeviceBytes().Uint())
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.log.Errorf("Failed to get device information: %v", err)
		return nil
	}

	confirmer := &DeviceConfirmer{
		Selector: e.session,
		Source:   e.devices,
		Devices:  list,
		Log:      e.log,
	}
	index, ok, err := e.session.Select(ctx, "Select the device to format for installation:", list.Rows(),
		terminal.WithHeading(list.Heading),
		terminal.WithConfirmer(confirmer),
	)
	if err != nil {
		return err
	}
	if !ok {
		e.log.Error("Failed to select a device")
		return nil
	}

	p.Device().Set(list.Devices[index].Path)
	return nil
}

func (e *Editor) editTimeZone(ctx context.Context, field *profile.Field) error {
	zones, err := e.zones.TimeZones(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.log.Errorf("Failed to get the list of timezones: %v", err)
		return nil
	}

	cursor := max(0, slices.Index(zones, field.Text()))
	index, ok, err := e.session.Select(ctx, "Select the new timezone:", zones, terminal.WithCursor(cursor))
	if err != nil {
		return err
	}
	if !ok {
		e.log.Error("Failed to select a timezone")
		return nil
	}

	field.Set(zones[index])
	return nil
}

// DeviceConfirmer accepts a highlighted device row if the device has no
// partitions, or if the operator agrees to erase the existing ones.
type DeviceConfirmer struct {
	Selector Selector
	Source   DeviceSource
	Devices  system.DeviceList
	Log      *messages.Log
}

// Confirm implements terminal.Confirmer.
func (c *DeviceConfirmer) Confirm(ctx context.Context, index int) (bool, error) {
	if index < 0 || index >= len(c.Devices.Devices) {
		c.Log.Error("Missing path field")
		return false, nil
	}
	dev := c.Devices.Devices[index]

	lacks, err := c.Source.LacksPartitions(ctx, dev.Path)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		c.Log.Errorf("Failed to list partitions on %s: %v", dev.Path, err)
		return false, nil
	}
	if lacks {
		return true, nil
	}

	choice, ok, err := c.Selector.Select(ctx,
		"The selected device already contains partitions!\n\n"+
			"Are you sure you want to format this device?",
		[]string{
			"No. Select a different device.",
			"Yes. Permanently delete all data on " + dev.Path + ".",
		},
	)
	if err != nil {
		return false, err
	}
	return ok && choice == 1, nil
}

package system

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/muurk/autoinstall/internal/messages"
)

var (
	// ErrNoDevices is returned when no block device meets the size threshold.
	ErrNoDevices = errors.New("no suitable device found")

	// ErrNoTimeZones is returned when the time-zone source lists nothing.
	ErrNoTimeZones = errors.New("no time zones listed")

	// ErrMalformedRow is returned for a device row that cannot be parsed.
	ErrMalformedRow = errors.New("malformed device row")
)

// Device is one row of the block device listing.
type Device struct {
	Path      string
	Size      uint64
	Removable bool
	ReadOnly  bool
	PartTable string // Partition table type, "" when absent
	PartUUID  string // Partition table UUID, "" when absent
	Row       string // Row as printed by lsblk
}

// DeviceList is the result of a device enumeration.
type DeviceList struct {
	Heading string
	Devices []Device
}

// Rows returns the printable rows in listing order.
func (l DeviceList) Rows() []string {
	rows := make([]string, len(l.Devices))
	for i, d := range l.Devices {
		rows[i] = d.Row
	}
	return rows
}

// ParseDeviceRow parses a row of
// "lsblk --bytes --nodeps --output path,size,rm,ro,pttype,ptuuid".
// Columns after ro are empty for devices without a partition table.
func ParseDeviceRow(row string) (Device, error) {
	cols := strings.Fields(row)
	if len(cols) < 4 {
		return Device{}, fmt.Errorf("%w: expected at least 4 columns in %q", ErrMalformedRow, row)
	}

	size, err := strconv.ParseUint(cols[1], 10, 64)
	if err != nil {
		return Device{}, fmt.Errorf("%w: invalid size %q", ErrMalformedRow, cols[1])
	}

	dev := Device{
		Path:      cols[0],
		Size:      size,
		Removable: cols[2] == "1",
		ReadOnly:  cols[3] == "1",
		Row:       strings.TrimRight(row, " \t"),
	}
	if len(cols) > 4 {
		dev.PartTable = cols[4]
	}
	if len(cols) > 5 {
		dev.PartUUID = cols[5]
	}
	return dev, nil
}

// Host answers device and time-zone queries about the running system.
type Host struct {
	runner Runner
	log    *messages.Log
}

// NewHost creates a Host that runs commands through runner and reports
// operator-facing notes to log.
func NewHost(runner Runner, log *messages.Log) *Host {
	return &Host{runner: runner, log: log}
}

// Devices lists whole disks of at least minBytes. Rows lsblk prints that
// cannot be parsed are reported and skipped.
func (h *Host) Devices(ctx context.Context, minBytes uint64) (DeviceList, error) {
	out, err := h.runner.Output(ctx, "lsblk", "--bytes", "--nodeps",
		"--output", "path,size,rm,ro,pttype,ptuuid")
	if err != nil {
		return DeviceList{}, fmt.Errorf("failed to list devices: %w", err)
	}

	lines := nonEmptyLines(out)
	if len(lines) <= 1 {
		return DeviceList{}, ErrNoDevices
	}

	list := DeviceList{Heading: strings.TrimRight(lines[0], " \t")}
	for _, row := range lines[1:] {
		dev, err := ParseDeviceRow(row)
		if err != nil {
			h.log.Warningf("Skipping device: %v", err)
			continue
		}
		if dev.Size < minBytes {
			h.log.Verbosef("Device %s is smaller than %d bytes", dev.Path, minBytes)
			continue
		}
		list.Devices = append(list.Devices, dev)
	}

	if len(list.Devices) == 0 {
		return DeviceList{}, ErrNoDevices
	}
	return list, nil
}

// LacksPartitions reports whether path has no partitions.
func (h *Host) LacksPartitions(ctx context.Context, path string) (bool, error) {
	out, err := h.runner.Output(ctx, "lsblk", "--noheadings", "--output", "path", path)
	if err != nil {
		return false, fmt.Errorf("failed to list partitions on %s: %w", path, err)
	}

	lines := nonEmptyLines(out)
	if len(lines) == 0 {
		return false, fmt.Errorf("lsblk listed nothing for %s", path)
	}
	// The first row is the device itself
	return len(lines) == 1, nil
}

// TimeZones lists every time zone identifier the system knows.
func (h *Host) TimeZones(ctx context.Context) ([]string, error) {
	out, err := h.runner.Output(ctx, "timedatectl", "list-timezones", "--no-pager")
	if err != nil {
		return nil, fmt.Errorf("failed to list time zones: %w", err)
	}

	zones := nonEmptyLines(out)
	if len(zones) == 0 {
		return nil, ErrNoTimeZones
	}
	return zones, nil
}

// FindDevice picks the first device of at least minBytes that has no
// partitions. Devices with partitions are never picked without asking.
func (h *Host) FindDevice(ctx context.Context, minBytes uint64) (string, error) {
	list, err := h.Devices(ctx, minBytes)
	if err != nil {
		return "", err
	}

	for _, dev := range list.Devices {
		lacks, err := h.LacksPartitions(ctx, dev.Path)
		if err != nil {
			h.log.Errorf("%v", err)
			continue
		}
		if !lacks {
			h.log.Warningf("Partitions found on device: %s", dev.Path)
			h.log.Info("Formatting a device that already contains partitions will result in irreversible data loss!" +
				"\n\t\tExplicit permission (via interactive mode) is required to format a device with existing partitions")
			continue
		}
		return dev.Path, nil
	}

	return "", ErrNoDevices
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return lines
}

package system

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/autoinstall/internal/messages"
)

// fakeRunner answers commands from a table keyed by the joined command line.
type fakeRunner struct {
	outputs map[string]string
	calls   []string
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, line)
	out, ok := f.outputs[line]
	if !ok {
		return "", &CommandError{Name: name, Args: args, ExitCode: 1, Err: errors.New("exit status 1")}
	}
	return out, nil
}

const lsblkDevices = "lsblk --bytes --nodeps --output path,size,rm,ro,pttype,ptuuid"

const deviceListing = `PATH              SIZE RM RO PTTYPE PTUUID
/dev/sda  500107862016  0  0 gpt    6f1c2a55-3d3e-4c1e-9a62-0d6f8a1e2b7c
/dev/sdb   32015679488  1  0
/dev/sdc    2147483648  1  0 dos    1234abcd
/dev/sr0          1024  1  1
`

func newTestLog() *messages.Log {
	return messages.New(messages.LevelVerbose, messages.WithOutput(&bytes.Buffer{}))
}

func TestParseDeviceRow(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		want    Device
		wantErr bool
	}{
		{
			name: "with partition table",
			row:  "/dev/sda 500107862016 0 0 gpt 6f1c",
			want: Device{Path: "/dev/sda", Size: 500107862016, PartTable: "gpt", PartUUID: "6f1c"},
		},
		{
			name: "without partition table",
			row:  "/dev/sdb 32015679488 1 0",
			want: Device{Path: "/dev/sdb", Size: 32015679488, Removable: true},
		},
		{
			name: "read only",
			row:  "/dev/sr0 1024 1 1",
			want: Device{Path: "/dev/sr0", Size: 1024, Removable: true, ReadOnly: true},
		},
		{name: "too few columns", row: "/dev/sda 100", wantErr: true},
		{name: "bad size", row: "/dev/sda 1.5G 0 0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDeviceRow(tt.row)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedRow) {
					t.Errorf("ParseDeviceRow() error = %v, want ErrMalformedRow", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDeviceRow() error = %v", err)
			}
			got.Row = ""
			if got != tt.want {
				t.Errorf("ParseDeviceRow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDevicesFiltersBySize(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{lsblkDevices: deviceListing}}
	host := NewHost(runner, newTestLog())

	list, err := host.Devices(context.Background(), 10_000_000_000)
	if err != nil {
		t.Fatalf("Devices() error = %v", err)
	}

	if !strings.HasPrefix(list.Heading, "PATH") {
		t.Errorf("Heading = %q", list.Heading)
	}
	if len(list.Devices) != 2 {
		t.Fatalf("Devices = %d, want 2", len(list.Devices))
	}
	if list.Devices[0].Path != "/dev/sda" || list.Devices[1].Path != "/dev/sdb" {
		t.Errorf("Devices = %v", list.Rows())
	}
	if !strings.HasPrefix(list.Rows()[1], "/dev/sdb") {
		t.Errorf("Rows()[1] = %q", list.Rows()[1])
	}
}

func TestDevicesNoneQualify(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{lsblkDevices: deviceListing}}
	host := NewHost(runner, newTestLog())

	_, err := host.Devices(context.Background(), 1<<50)
	if !errors.Is(err, ErrNoDevices) {
		t.Errorf("Devices() error = %v, want ErrNoDevices", err)
	}
}

func TestDevicesCommandFailure(t *testing.T) {
	host := NewHost(&fakeRunner{}, newTestLog())

	_, err := host.Devices(context.Background(), 0)
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("Devices() error = %v, want CommandError", err)
	}
	if cmdErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d", cmdErr.ExitCode)
	}
}

func TestLacksPartitions(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"lsblk --noheadings --output path /dev/sda": "/dev/sda\n/dev/sda1\n/dev/sda2\n",
		"lsblk --noheadings --output path /dev/sdb": "/dev/sdb\n",
	}}
	host := NewHost(runner, newTestLog())

	tests := []struct {
		path string
		want bool
	}{
		{"/dev/sda", false},
		{"/dev/sdb", true},
	}
	for _, tt := range tests {
		got, err := host.LacksPartitions(context.Background(), tt.path)
		if err != nil {
			t.Fatalf("LacksPartitions(%s) error = %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("LacksPartitions(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if _, err := host.LacksPartitions(context.Background(), "/dev/missing"); err == nil {
		t.Error("LacksPartitions() should fail when lsblk fails")
	}
}

func TestFindDeviceSkipsPartitionedDevices(t *testing.T) {
	log := newTestLog()
	runner := &fakeRunner{outputs: map[string]string{
		lsblkDevices: deviceListing,
		"lsblk --noheadings --output path /dev/sda": "/dev/sda\n/dev/sda1\n",
		"lsblk --noheadings --output path /dev/sdb": "/dev/sdb\n",
	}}
	host := NewHost(runner, log)

	got, err := host.FindDevice(context.Background(), 10_000_000_000)
	if err != nil {
		t.Fatalf("FindDevice() error = %v", err)
	}
	if got != "/dev/sdb" {
		t.Errorf("FindDevice() = %q, want /dev/sdb", got)
	}

	var warned bool
	for {
		msg, ok := log.DrainNext()
		if !ok {
			break
		}
		if msg.Level == messages.LevelWarning && strings.Contains(msg.Text, "/dev/sda") {
			warned = true
		}
	}
	if !warned {
		t.Error("expected a warning about partitions on /dev/sda")
	}
}

func TestFindDeviceNoneWithoutPartitions(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		lsblkDevices: deviceListing,
		"lsblk --noheadings --output path /dev/sda": "/dev/sda\n/dev/sda1\n",
		"lsblk --noheadings --output path /dev/sdb": "/dev/sdb\n/dev/sdb1\n",
	}}
	host := NewHost(runner, newTestLog())

	if _, err := host.FindDevice(context.Background(), 10_000_000_000); !errors.Is(err, ErrNoDevices) {
		t.Errorf("FindDevice() error = %v, want ErrNoDevices", err)
	}
}

func TestTimeZones(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"timedatectl list-timezones --no-pager": "Africa/Abidjan\nAmerica/Denver\n\nEurope/Berlin\n",
	}}
	host := NewHost(runner, newTestLog())

	zones, err := host.TimeZones(context.Background())
	if err != nil {
		t.Fatalf("TimeZones() error = %v", err)
	}
	if strings.Join(zones, ",") != "Africa/Abidjan,America/Denver,Europe/Berlin" {
		t.Errorf("TimeZones() = %v", zones)
	}

	empty := NewHost(&fakeRunner{outputs: map[string]string{
		"timedatectl list-timezones --no-pager": "\n",
	}}, newTestLog())
	if _, err := empty.TimeZones(context.Background()); !errors.Is(err, ErrNoTimeZones) {
		t.Errorf("TimeZones() error = %v, want ErrNoTimeZones", err)
	}
}

func TestCommandErrorMessage(t *testing.T) {
	err := &CommandError{Name: "lsblk", Args: []string{"--bytes"}, ExitCode: 32, Stderr: "not found"}
	want := "lsblk --bytes failed (exit code 32): not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

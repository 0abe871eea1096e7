package profile

import (
	"errors"
	"strings"
	"testing"

	"github.com/muurk/autoinstall/internal/messages"
)

func TestEncodeFieldOrder(t *testing.T) {
	p := New(newTestLog())
	data, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	text := string(data)
	last := -1
	for _, name := range Names() {
		idx := strings.Index(text, name+":")
		if idx < 0 {
			t.Fatalf("encoded profile is missing %s:\n%s", name, text)
		}
		if idx < last {
			t.Errorf("%s is out of order:\n%s", name, text)
		}
		last = idx
	}

	if !strings.Contains(text, "device: null") {
		t.Errorf("unset device should encode as null:\n%s", text)
	}
	if !strings.Contains(text, "min_device_bytes: 10000000000") {
		t.Errorf("min_device_bytes should encode as an integer:\n%s", text)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	log := newTestLog()
	original := New(log)
	original.Device().Set("/dev/sda")
	original.BootLabel().Set("MOOS Testing")
	original.TimeZone().Set("Europe/Berlin")
	original.NetworkInstall().Set("true")

	data, err := original.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	restored, err := Decode(log, data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	for _, f := range original.Fields() {
		got, _ := restored.Field(f.Name())
		if got.Get() != f.Get() {
			t.Errorf("%s = %v, want %v", f.Name(), got.Get(), f.Get())
		}
	}
}

func TestDecodeTolerantOfBadEntries(t *testing.T) {
	log := newTestLog()
	doc := `
hostname: lab
sudo_group: "-wheel"
min_device_bytes: lots
partitions: [boot, root]
colour: blue
device: null
`
	p, err := Decode(log, []byte(doc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if p.Hostname().Text() != "lab" {
		t.Errorf("hostname = %q, want lab", p.Hostname().Text())
	}
	if p.SudoGroup().Text() != DefaultSudoGroup {
		t.Errorf("sudo_group = %q, want default", p.SudoGroup().Text())
	}
	if p.MinDeviceBytes().Uint() != DefaultMinDeviceBytes {
		t.Errorf("min_device_bytes = %d, want default", p.MinDeviceBytes().Uint())
	}
	if p.Device().IsSet() {
		t.Error("device should stay unset")
	}

	var warnings int
	for _, msg := range drain(log) {
		if msg.Level == messages.LevelWarning {
			warnings++
		}
	}
	// sudo_group, min_device_bytes, partitions, colour
	if warnings != 4 {
		t.Errorf("warnings = %d, want 4", warnings)
	}
}

func TestDecodeEmptyDocument(t *testing.T) {
	p, err := Decode(newTestLog(), nil)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if p.Hostname().Text() != DefaultHostname {
		t.Errorf("empty document should keep defaults")
	}
}

func TestDecodeEmptyDevice(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty string", "device: \"\"\n"},
		{"null", "device: null\n"},
		{"missing", "hostname: lab\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(newTestLog(), []byte(tt.doc))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if p.Device().IsSet() {
				t.Errorf("device should be unset, got %q", p.Device().Text())
			}
		})
	}
}

func TestDecodeRejectsNonMapping(t *testing.T) {
	_, err := Decode(newTestLog(), []byte("- hostname\n- device\n"))
	if !errors.Is(err, ErrNotAMapping) {
		t.Errorf("Decode() error = %v, want ErrNotAMapping", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode(newTestLog(), []byte("hostname: [unterminated")); err == nil {
		t.Error("Decode() should fail on malformed YAML")
	}
}

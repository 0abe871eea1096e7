package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/autoinstall/internal/messages"
	"github.com/muurk/autoinstall/internal/profile"
)

func newProfile(t *testing.T) *profile.Profile {
	t.Helper()
	log := messages.New(messages.LevelVerbose, messages.WithOutput(&bytes.Buffer{}))
	p := profile.New(log)
	if !p.Device().Set("/dev/sdb") {
		t.Fatal("device should accept /dev/sdb")
	}
	return p
}

func TestProfileDetailsMasksSecrets(t *testing.T) {
	p := newProfile(t)

	tests := []struct {
		name   string
		reveal bool
	}{
		{"masked", false},
		{"revealed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := ProfileDetails(p, tt.reveal)
			if len(details) != len(p.Fields()) {
				t.Fatalf("ProfileDetails() has %d rows", len(details))
			}
			for _, d := range details {
				secret := d.Key == profile.FieldRootPassword || d.Key == profile.FieldUserPassword
				if d.Secret != (secret && !tt.reveal) {
					t.Errorf("%s: Secret = %v", d.Key, d.Secret)
				}
			}
		})
	}
}

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf)
	if printer.Width() != MinTerminalWidth {
		t.Errorf("Width() = %d, want %d for a non-terminal", printer.Width(), MinTerminalWidth)
	}

	printer.PrintProfile(newProfile(t), []string{"moos", "vim"}, false)

	out := buf.String()
	for _, want := range []string{"INSTALLATION PROFILE", "/dev/sdb", "moos vim", SecretMask} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, SecretMask) != 2 {
		t.Errorf("both passwords should be masked:\n%s", out)
	}
}

func TestResultRender(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("Profile saved").AddDetail("file", "/tmp/profile.yaml"),
			want:   []string{"SUCCESS", "Profile saved", "/tmp/profile.yaml"},
		},
		{
			name:   "failure",
			result: NewFailureResult("No device", errors.New("no suitable device found"), "Attach a larger disk"),
			want:   []string{"FAILED", "no suitable device found", "Attach a larger disk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.Render()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("Render() is missing %q:\n%s", want, out)
				}
			}
		})
	}
}

package messages

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestLevelOrdering(t *testing.T) {
	order := []Level{LevelNormal, LevelSuccess, LevelError, LevelWarning, LevelInfo, LevelVerbose}
	for i := 1; i < len(order); i++ {
		if order[i-1] >= order[i] {
			t.Errorf("%v should be below %v", order[i-1], order[i])
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"normal", LevelNormal, false},
		{"Success", LevelSuccess, false},
		{"ERROR", LevelError, false},
		{"warning", LevelWarning, false},
		{" info ", LevelInfo, false},
		{"verbose", LevelVerbose, false},
		{"debug", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDrainPreservesOrder(t *testing.T) {
	log := New(LevelVerbose)
	log.Push("A", LevelVerbose)
	log.Push("B", LevelError)
	log.Push("C", LevelNormal)

	var got []string
	for {
		msg, ok := log.DrainNext()
		if !ok {
			break
		}
		got = append(got, msg.Text)
	}

	want := []string{"A", "B", "C"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("drained %v, want %v", got, want)
	}
	if log.Len() != 0 {
		t.Errorf("Len() = %d after draining, want 0", log.Len())
	}
}

func TestDrainNextEmpty(t *testing.T) {
	log := New(LevelVerbose)
	if _, ok := log.DrainNext(); ok {
		t.Error("DrainNext() on empty log should report nothing")
	}
}

func TestPrefixedPushers(t *testing.T) {
	log := New(LevelVerbose)
	log.Normal("plain")
	log.Success("done")
	log.Error("broken")
	log.Warning("careful")
	log.Info("note")
	log.Verbose("detail")
	log.Errorf("bad value %d", 7)

	want := []Message{
		{"plain", LevelNormal},
		{"done", LevelSuccess},
		{"  [Error] broken.", LevelError},
		{"[Warning] careful.", LevelWarning},
		{"   [Info] note.", LevelInfo},
		{"[Verbose] detail.", LevelVerbose},
		{"  [Error] bad value 7.", LevelError},
	}

	for i, w := range want {
		got, ok := log.DrainNext()
		if !ok {
			t.Fatalf("message %d missing", i)
		}
		if got != w {
			t.Errorf("message %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestFlushToPlainOutputSuppression(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "install.log")

	log := New(LevelError, WithOutput(&out))
	if err := log.AttachFile(path); err != nil {
		t.Fatalf("AttachFile() error = %v", err)
	}

	log.Push("too chatty", LevelVerbose)
	log.Push("disk missing", LevelError)
	log.FlushToPlainOutput()

	printed := out.String()
	if strings.Contains(printed, "too chatty") {
		t.Errorf("verbose message should be suppressed, got %q", printed)
	}
	if !strings.Contains(printed, "disk missing") {
		t.Errorf("error message should be printed, got %q", printed)
	}
	if log.Len() != 0 {
		t.Errorf("suppressed messages should still be consumed, Len() = %d", log.Len())
	}

	if err := log.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if string(data) != "too chatty\ndisk missing\n" {
		t.Errorf("log file = %q, want both messages", string(data))
	}
}

func TestSuppressedMessageDoesNotStopFlush(t *testing.T) {
	var out bytes.Buffer
	log := New(LevelWarning, WithOutput(&out))

	log.Push("first", LevelNormal)
	log.Push("hidden", LevelInfo)
	log.Push("last", LevelError)
	log.FlushToPlainOutput()

	printed := out.String()
	if !strings.Contains(printed, "first") || !strings.Contains(printed, "last") {
		t.Errorf("flush should continue past suppressed messages, got %q", printed)
	}
	if strings.Contains(printed, "hidden") {
		t.Errorf("info message should be suppressed at warning, got %q", printed)
	}
}

func TestFileWrittenOnceAtFirstDrain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "install.log")
	log := New(LevelVerbose, WithOutput(&bytes.Buffer{}))
	if err := log.AttachFile(path); err != nil {
		t.Fatalf("AttachFile() error = %v", err)
	}

	log.Normal("one")
	log.Normal("two")

	if _, ok := log.DrainNext(); !ok {
		t.Fatal("expected a message")
	}
	log.FlushToSurface(func(Level) {}, func(string) {})
	log.FlushToPlainOutput()
	_ = log.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if string(data) != "one\ntwo\n" {
		t.Errorf("log file = %q, want each message exactly once", string(data))
	}
}

func TestFlushToSurface(t *testing.T) {
	log := New(LevelWarning)
	log.Error("bad hostname")
	log.Verbose("hidden")
	log.Warning("unknown key")

	var colors []Level
	var text strings.Builder
	log.FlushToSurface(
		func(level Level) { colors = append(colors, level) },
		func(s string) { text.WriteString(s) },
	)

	if got := text.String(); got != "  [Error] bad hostname.\n[Warning] unknown key.\n" {
		t.Errorf("surface text = %q", got)
	}

	wantColors := []Level{LevelError, LevelNormal, LevelWarning, LevelNormal}
	if len(colors) != len(wantColors) {
		t.Fatalf("color calls = %v, want %v", colors, wantColors)
	}
	for i := range wantColors {
		if colors[i] != wantColors[i] {
			t.Errorf("color call %d = %v, want %v", i, colors[i], wantColors[i])
		}
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "install.log")
	log := New(LevelVerbose, WithOutput(&out))
	if err := log.AttachFile(path); err != nil {
		t.Fatalf("AttachFile() error = %v", err)
	}

	log.Success("installed")
	if err := log.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	first := out.String()

	if err := log.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if out.String() != first {
		t.Errorf("second Close() changed output: %q -> %q", first, out.String())
	}
	if !strings.Contains(first, "installed") {
		t.Errorf("Close() should flush pending messages, got %q", first)
	}
}

func TestSetThresholdIgnoresInvalid(t *testing.T) {
	log := New(LevelInfo)
	log.SetThreshold(Level(42))
	if log.Threshold() != LevelInfo {
		t.Errorf("Threshold() = %v, want %v", log.Threshold(), LevelInfo)
	}
	log.SetThreshold(LevelNormal)
	if log.Threshold() != LevelNormal {
		t.Errorf("Threshold() = %v, want %v", log.Threshold(), LevelNormal)
	}
}

func TestNilLogPushIsSafe(t *testing.T) {
	var log *Log
	log.Error("nobody listening")
}

func TestLevelStyle(t *testing.T) {
	tests := []struct {
		level Level
		want  lipgloss.TerminalColor
	}{
		{LevelSuccess, lipgloss.Color("2")},
		{LevelError, lipgloss.Color("1")},
		{LevelWarning, lipgloss.Color("3")},
		{LevelInfo, lipgloss.Color("4")},
		{LevelNormal, lipgloss.NoColor{}},
		{LevelVerbose, lipgloss.NoColor{}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.Style().GetForeground(); got != tt.want {
				t.Errorf("Style() foreground = %v, want %v", got, tt.want)
			}
		})
	}
}

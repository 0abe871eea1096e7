package terminal

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tea.KeyMsg
	}{
		{
			name:  "runes",
			input: "jk",
			want: []tea.KeyMsg{
				{Type: tea.KeyRunes, Runes: []rune{'j'}},
				{Type: tea.KeyRunes, Runes: []rune{'k'}},
			},
		},
		{
			name:  "arrows",
			input: "\x1b[A\x1b[B\x1bOA",
			want: []tea.KeyMsg{
				{Type: tea.KeyUp},
				{Type: tea.KeyDown},
				{Type: tea.KeyUp},
			},
		},
		{
			name:  "enter and backspace",
			input: "\r\n\x7f\x08",
			want: []tea.KeyMsg{
				{Type: tea.KeyEnter},
				{Type: tea.KeyEnter},
				{Type: tea.KeyBackspace},
				{Type: tea.KeyBackspace},
			},
		},
		{
			name:  "lone escape",
			input: "\x1b",
			want:  []tea.KeyMsg{{Type: tea.KeyEsc}},
		},
		{
			name:  "ctrl+c",
			input: "\x03",
			want:  []tea.KeyMsg{{Type: tea.KeyCtrlC}},
		},
		{
			name:  "space",
			input: " ",
			want:  []tea.KeyMsg{{Type: tea.KeySpace, Runes: []rune{' '}}},
		},
		{
			name:  "utf-8",
			input: "é世",
			want: []tea.KeyMsg{
				{Type: tea.KeyRunes, Runes: []rune{'é'}},
				{Type: tea.KeyRunes, Runes: []rune{'世'}},
			},
		},
		{
			name:  "alt modified rune",
			input: "\x1bj",
			want:  []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune{'j'}, Alt: true}},
		},
		{
			name:  "delete",
			input: "\x1b[3~",
			want:  []tea.KeyMsg{{Type: tea.KeyDelete}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeKeys([]byte(tt.input))
			if len(got) != len(tt.want) {
				t.Fatalf("DecodeKeys(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i].String() != tt.want[i].String() || got[i].Type != tt.want[i].Type {
					t.Errorf("key %d = %v (%d), want %v (%d)",
						i, got[i], got[i].Type, tt.want[i], tt.want[i].Type)
				}
			}
		})
	}
}

func TestDecodeUnknownSequence(t *testing.T) {
	got := DecodeKeys([]byte("\x1b[99Zq"))
	if len(got) != 2 {
		t.Fatalf("DecodeKeys() = %v, want 2 keys", got)
	}
	if !got[0].Alt {
		t.Errorf("unknown sequence should decode as an alt key, got %v", got[0])
	}
	if got[1].String() != "q" {
		t.Errorf("second key = %v, want q", got[1])
	}
}

func TestDefaultKeyMap(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		input   string
		binding key.Binding
	}{
		{"j", keys.Down},
		{"\x1b[B", keys.Down},
		{"k", keys.Up},
		{"\x1b[A", keys.Up},
		{"q", keys.Cancel},
		{"\x1b", keys.Cancel},
		{";", keys.Confirm},
		{"\r", keys.Confirm},
		{"\r", keys.Submit},
		{"\x7f", keys.Erase},
		{"\x03", keys.Interrupt},
	}

	for _, tt := range tests {
		k := DecodeKeys([]byte(tt.input))[0]
		if !key.Matches(k, tt.binding) {
			t.Errorf("%q (%v) does not match %v", tt.input, k, tt.binding.Keys())
		}
	}

	if key.Matches(DecodeKeys([]byte("\x1bj"))[0], keys.Down) {
		t.Error("alt+j should not move down")
	}
}

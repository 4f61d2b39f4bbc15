package config

import (
	"strings"
	"testing"

	"github.com/abdullathedruid/editline/internal/keymap"
)

func TestParseKey_SingleChar(t *testing.T) {
	tests := []struct {
		input string
		want  keymap.Sequence
	}{
		{"q", "q"},
		{"?", "?"},
		{"N", "N"},
		{"^", "^"},
	}

	for _, tt := range tests {
		got, err := ParseKey(tt.input)
		if err != nil {
			t.Errorf("ParseKey(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseKey_SpecialKeys(t *testing.T) {
	tests := []struct {
		input string
		want  keymap.Sequence
	}{
		{"enter", "\r"},
		{"Enter", "\r"},
		{"linefeed", "\n"},
		{"tab", "\t"},
		{"esc", "\x1b"},
		{"backspace", "\x7f"},
		{"delete", "\x1b[3~"},
		{"up", "\x1b[A"},
		{"down", "\x1b[B"},
		{"home", "\x1b[H"},
	}

	for _, tt := range tests {
		got, err := ParseKey(tt.input)
		if err != nil {
			t.Errorf("ParseKey(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseKey_Modifiers(t *testing.T) {
	tests := []struct {
		input string
		want  keymap.Sequence
	}{
		{"ctrl+w", "\x17"},
		{"CTRL+W", "\x17"},
		{"ctrl+_", "\x1f"},
		{"ctrl+right", "\x1b[1;5C"},
		{"alt+b", "\x1bb"},
		{"alt+enter", "\x1b\r"},
		{"alt+up", "\x1b\x1b[A"},
		{"alt+<", "\x1b<"},
	}

	for _, tt := range tests {
		got, err := ParseKey(tt.input)
		if err != nil {
			t.Errorf("ParseKey(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseKey_Notation(t *testing.T) {
	tests := []struct {
		input string
		want  keymap.Sequence
	}{
		{"^w", "\x17"},
		{`\e[1;3A`, "\x1b[1;3A"},
		{`\e[\^`, "\x1b[^"},
	}

	for _, tt := range tests {
		got, err := ParseKey(tt.input)
		if err != nil {
			t.Errorf("ParseKey(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseKey_Invalid(t *testing.T) {
	tests := []string{"", "   ", "ctrl+1", "ctrl+", "alt+", `\q`}

	for _, input := range tests {
		if _, err := ParseKey(input); err == nil {
			t.Errorf("ParseKey(%q) expected error, got nil", input)
		}
	}
}

func TestKeyToString(t *testing.T) {
	tests := []struct {
		seq  keymap.Sequence
		want string
	}{
		{"\r", "enter"},
		{"\x1b[A", "up"},
		{"\x17", "ctrl+w"},
		{"\x1b[1;5C", "ctrl+right"},
		{"\x1bb", "alt+b"},
		{"q", "q"},
	}

	for _, tt := range tests {
		got := KeyToString(tt.seq)
		if got != tt.want {
			t.Errorf("KeyToString(%q) = %q, want %q", tt.seq, got, tt.want)
			continue
		}
		back, err := ParseKey(got)
		if err != nil || back != tt.seq {
			t.Errorf("ParseKey(KeyToString(%q)) = %q, %v", tt.seq, back, err)
		}
	}
}

func TestValidateKeys_NoDuplicates(t *testing.T) {
	keys := &KeyBindings{
		SingleLine: map[string]string{"ctrl+x": keymap.ActionKillLine},
		// The same key may be bound in both modes
		MultiLine: map[string]string{"ctrl+x": keymap.ActionRevertLine, "alt+enter": keymap.ActionBreakLine},
	}

	if err := ValidateKeys(keys); err != nil {
		t.Errorf("ValidateKeys() error = %v, want nil", err)
	}
}

func TestValidateKeys_WithDuplicates(t *testing.T) {
	keys := &KeyBindings{
		MultiLine: map[string]string{
			"backspace": keymap.ActionDeletePreviousChar,
			"^?":        keymap.ActionDeletePreviousChar,
		},
	}

	err := ValidateKeys(keys)
	if err == nil {
		t.Fatal("ValidateKeys() expected error for duplicates, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error = %v, want duplicate message", err)
	}
}

func TestValidateKeys_EmptyAction(t *testing.T) {
	keys := &KeyBindings{SingleLine: map[string]string{"ctrl+x": " "}}
	if err := ValidateKeys(keys); err == nil {
		t.Error("ValidateKeys() expected error for empty action")
	}
}

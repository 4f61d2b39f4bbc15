package config

import (
	"fmt"
	"strings"

	"github.com/abdullathedruid/editline/internal/keymap"
)

// ParseKey parses a key string into the raw sequence a terminal sends.
// Supported formats:
//   - Single character: "q", "?", "N"
//   - Special keys: "enter", "tab", "esc", "backspace", "delete"
//   - Arrow and paging keys: "up", "down", "home", "pgup"
//   - Ctrl combinations: "ctrl+w", "ctrl+left"
//   - Alt (meta) combinations: "alt+b", "alt+enter", "alt+up"
//   - libedit notation: "^w", `\e[1;5C`
func ParseKey(s string) (keymap.Sequence, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("empty key string")
	}
	lower := strings.ToLower(trimmed)

	// Alt sends ESC followed by the key
	if strings.HasPrefix(lower, "alt+") {
		inner, err := ParseKey(trimmed[len("alt+"):])
		if err != nil {
			return "", fmt.Errorf("invalid alt combination: %s", s)
		}
		return "\x1b" + inner, nil
	}

	// Check for ctrl combinations
	if char, found := strings.CutPrefix(lower, "ctrl+"); found {
		if seq, ok := ctrlSpecialKeyMap[char]; ok {
			return seq, nil
		}
		if len(char) == 1 {
			if seq, ok := ctrlKeyMap(char[0]); ok {
				return seq, nil
			}
		}
		return "", fmt.Errorf("invalid ctrl combination: %s", s)
	}

	// Check for special keys (case insensitive)
	if seq, ok := specialKeyMap[lower]; ok {
		return seq, nil
	}

	// Single character (preserve original case)
	if len(trimmed) == 1 {
		return keymap.Sequence(trimmed), nil
	}

	// Fall back to libedit notation
	seq, err := keymap.ParseSequence(trimmed)
	if err != nil {
		return "", fmt.Errorf("unknown key: %s: %w", s, err)
	}
	return seq, nil
}

// specialKeyMap maps key names to the sequences an xterm-style terminal
// sends for them.
var specialKeyMap = map[string]keymap.Sequence{
	"enter":     "\r",
	"return":    "\r",
	"linefeed":  "\n",
	"space":     " ",
	"esc":       "\x1b",
	"escape":    "\x1b",
	"tab":       "\t",
	"backspace": "\x7f",
	"delete":    "\x1b[3~",
	"insert":    "\x1b[2~",
	"home":      "\x1b[H",
	"end":       "\x1b[F",
	"pgup":      "\x1b[5~",
	"pageup":    "\x1b[5~",
	"pgdn":      "\x1b[6~",
	"pagedown":  "\x1b[6~",
	"up":        "\x1b[A",
	"down":      "\x1b[B",
	"right":     "\x1b[C",
	"left":      "\x1b[D",
	"f1":        "\x1bOP",
	"f2":        "\x1bOQ",
	"f3":        "\x1bOR",
	"f4":        "\x1bOS",
}

// ctrlSpecialKeyMap maps ctrl+<special key> names to their sequences.
var ctrlSpecialKeyMap = map[string]keymap.Sequence{
	"up":    "\x1b[1;5A",
	"down":  "\x1b[1;5B",
	"right": "\x1b[1;5C",
	"left":  "\x1b[1;5D",
	"space": "\x00",
}

// ctrlKeyMap returns the control character for ctrl+ch.
func ctrlKeyMap(ch byte) (keymap.Sequence, bool) {
	switch {
	case ch >= 'a' && ch <= 'z':
		return keymap.Sequence([]byte{ch - 'a' + 1}), true
	case ch == '@', ch == '[', ch == '\\', ch == ']', ch == '^', ch == '_':
		return keymap.Sequence([]byte{ch & 0x1f}), true
	case ch == '?':
		return "\x7f", true
	}
	return "", false
}

// KeyToString converts a sequence back to a key name, falling back to
// caret notation.
func KeyToString(seq keymap.Sequence) string {
	if len(seq) == 0 {
		return ""
	}

	// Prefer the canonical name of special keys
	for _, name := range []string{"enter", "linefeed", "tab", "esc", "backspace", "delete", "home", "end", "pgup", "pgdn", "up", "down", "left", "right", "space"} {
		if specialKeyMap[name] == seq {
			return name
		}
	}
	for name, s := range ctrlSpecialKeyMap {
		if s == seq {
			return "ctrl+" + name
		}
	}

	if len(seq) == 1 && seq[0] >= 1 && seq[0] <= 26 {
		return "ctrl+" + string(rune('a'+seq[0]-1))
	}
	if len(seq) > 1 && seq[0] == 0x1b {
		if inner := KeyToString(seq[1:]); inner != "" && !strings.HasPrefix(inner, "^") {
			return "alt+" + inner
		}
	}
	if len(seq) == 1 && seq[0] > 0x20 && seq[0] < 0x7f {
		return string(seq)
	}
	return seq.String()
}

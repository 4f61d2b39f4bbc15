package keymap

import (
	"strings"
	"testing"

	"github.com/go-errors/errors"
)

func TestParseSequence(t *testing.T) {
	tests := []struct {
		input string
		want  Sequence
	}{
		{"^w", "\x17"},
		{"^W", "\x17"},
		{"^?", "\x7f"},
		{"^[", "\x1b"},
		{`\e[A`, "\x1b[A"},
		{`\E\E[C`, "\x1b\x1b[C"},
		{`\e\n`, "\x1b\n"},
		{`\e[\^`, "\x1b[^"},
		{"\x1b[\\^", "\x1b[^"},
		{`\033[3~`, "\x1b[3~"},
		{`\\`, `\`},
		{"\t", "\t"},
		{"\n", "\n"},
		{"q", "q"},
	}

	for _, tt := range tests {
		got, err := ParseSequence(tt.input)
		if err != nil {
			t.Errorf("ParseSequence(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSequence(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseSequence_Invalid(t *testing.T) {
	tests := []string{
		"",
		"^",
		"^1",
		`\`,
		`\q`,
		`\777`,
	}

	for _, input := range tests {
		_, err := ParseSequence(input)
		if err == nil {
			t.Errorf("ParseSequence(%q) expected error, got nil", input)
			continue
		}
		if !errors.Is(err, ErrInvalidKeySequence) {
			t.Errorf("ParseSequence(%q) error = %v, want ErrInvalidKeySequence", input, err)
		}
	}
}

func TestSequence_String(t *testing.T) {
	tests := []struct {
		seq  Sequence
		want string
	}{
		{"\x17", "^W"},
		{"\x7f", "^?"},
		{"\x1b[A", "^[[A"},
		{"\x1b\n", "^[^J"},
		{"abc", "abc"},
	}

	for _, tt := range tests {
		if got := tt.seq.String(); got != tt.want {
			t.Errorf("Sequence(%q).String() = %q, want %q", string(tt.seq), got, tt.want)
		}
	}
}

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{SingleLine, "single-line"},
		{MultiLine, "multi-line"},
		{Mode(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, mode := range Modes {
		got, err := ParseMode(mode.String())
		if err != nil {
			t.Fatalf("ParseMode(%q) error = %v", mode.String(), err)
		}
		if got != mode {
			t.Errorf("ParseMode(%q) = %v, want %v", mode.String(), got, mode)
		}
	}
	if _, err := ParseMode("sideways"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("ParseMode(sideways) error = %v, want ErrUnknownMode", err)
	}
}

func TestKeymap_BindLookup(t *testing.T) {
	km := New()
	km.Bind("\x1b[A", "up")
	km.Bind("\x1b[B", "down")

	if got, ok := km.Lookup("\x1b[A"); !ok || got != "up" {
		t.Errorf("Lookup(up) = %q, %v, want %q, true", got, ok, "up")
	}
	if _, ok := km.Lookup("\x1b["); ok {
		t.Error("Lookup of a prefix should not match")
	}
	if km.Len() != 2 {
		t.Errorf("Len() = %d, want 2", km.Len())
	}

	// Rebinding replaces the action without adding a binding
	km.Bind("\x1b[A", "history")
	if got, _ := km.Lookup("\x1b[A"); got != "history" {
		t.Errorf("Lookup after rebind = %q, want %q", got, "history")
	}
	if km.Len() != 2 {
		t.Errorf("Len() after rebind = %d, want 2", km.Len())
	}
}

func TestKeymap_Unbind(t *testing.T) {
	km := New()
	km.Bind("\x1b[A", "up")
	km.Bind("\x1b[B", "down")

	if !km.Unbind("\x1b[A") {
		t.Fatal("Unbind(up) = false, want true")
	}
	if km.Unbind("\x1b[A") {
		t.Error("second Unbind(up) = true, want false")
	}
	if _, ok := km.Lookup("\x1b[A"); ok {
		t.Error("up still bound after Unbind")
	}
	if got, ok := km.Lookup("\x1b[B"); !ok || got != "down" {
		t.Errorf("Lookup(down) = %q, %v after unrelated Unbind", got, ok)
	}

	km.Unbind("\x1b[B")
	if len(km.root.children) != 0 {
		t.Errorf("root has %d children after removing every binding, want 0", len(km.root.children))
	}
}

func TestKeymap_Dump(t *testing.T) {
	km := New()
	km.Bind("\x17", ActionDeletePrevWord)
	km.Bind("\x1b[A", ActionPrevHistory)

	dump := km.Dump()
	want := []string{
		`"^W"` + "\t->\t" + ActionDeletePrevWord,
		`"^[[A"` + "\t->\t" + ActionPrevHistory,
	}
	for _, line := range want {
		if !strings.Contains(dump, line) {
			t.Errorf("Dump() missing %q:\n%s", line, dump)
		}
	}

	if got := km.DumpSequence("\x1b[Z"); !strings.Contains(got, ActionUnassigned) {
		t.Errorf("DumpSequence(unbound) = %q, want %s", got, ActionUnassigned)
	}
}

func TestMatcher(t *testing.T) {
	km := New()
	km.Bind("\x1b[A", "up")
	km.Bind("\x17", "kill-word")

	m := km.NewMatcher()

	if got := m.Feed(0x17); got.Kind != Matched || got.Action != "kill-word" {
		t.Errorf("Feed(^W) = %+v, want Matched kill-word", got)
	}

	if got := m.Feed(0x1b); got.Kind != Partial {
		t.Errorf("Feed(ESC) = %+v, want Partial", got)
	}
	if !m.Pending() {
		t.Error("Pending() = false after ESC")
	}
	m.Feed('[')
	if got := m.Feed('A'); got.Kind != Matched || got.Action != "up" || got.Seq != "\x1b[A" {
		t.Errorf("Feed(A) = %+v, want Matched up", got)
	}

	if got := m.Feed('x'); got.Kind != Unbound || got.Seq != "x" {
		t.Errorf("Feed(x) = %+v, want Unbound x", got)
	}

	m.Feed(0x1b)
	m.Feed('[')
	if got := m.Feed('Z'); got.Kind != Unbound || got.Seq != "\x1b[Z" {
		t.Errorf("Feed(Z) = %+v, want Unbound ^[[Z", got)
	}
	if m.Pending() {
		t.Error("Pending() = true after an unbound sequence")
	}
}

func TestMatcher_BoundPrefix(t *testing.T) {
	km := New()
	km.Bind("\x1b", "escape")
	km.Bind("\x1bb", "word-left")

	m := km.NewMatcher()
	if got := m.Feed(0x1b); got.Kind != Partial {
		t.Fatalf("Feed(ESC) = %+v, want Partial", got)
	}
	got := m.Feed('x')
	if got.Kind != Matched || got.Action != "escape" || !got.Replay {
		t.Errorf("Feed(x) = %+v, want Matched escape with replay", got)
	}
	if got := m.Feed('x'); got.Kind != Unbound {
		t.Errorf("replayed Feed(x) = %+v, want Unbound", got)
	}
}

func TestTable_ModeIsolation(t *testing.T) {
	table := NewTable()

	multiOnly := map[string]bool{}
	for _, b := range multiLineBindings {
		multiOnly[b.action] = true
	}

	single := table.Dump(SingleLine)
	for action := range multiOnly {
		if strings.Contains(single, action) {
			t.Errorf("single-line dump contains multi-line action %s", action)
		}
	}

	multi := table.Dump(MultiLine)
	for action := range multiOnly {
		if !strings.Contains(multi, action) {
			t.Errorf("multi-line dump is missing %s", action)
		}
	}
}

func TestTable_Bind(t *testing.T) {
	table := NewTable()

	if err := table.Bind(SingleLine, "\x1b[Z", ActionPrevWord); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if got, _ := table.Keymap(SingleLine).Lookup("\x1b[Z"); got != ActionPrevWord {
		t.Errorf("single-line Lookup = %q, want %q", got, ActionPrevWord)
	}
	if _, ok := table.Keymap(MultiLine).Lookup("\x1b[Z"); ok {
		t.Error("binding leaked into multi-line keymap")
	}

	if err := table.Bind(Mode(7), "x", ActionInsert); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Bind(bad mode) error = %v, want ErrUnknownMode", err)
	}
	if err := table.Bind(SingleLine, "", ActionInsert); !errors.Is(err, ErrInvalidKeySequence) {
		t.Errorf("Bind(empty) error = %v, want ErrInvalidKeySequence", err)
	}
}

func TestDefaults_NoBoundPrefixes(t *testing.T) {
	for _, mode := range Modes {
		bindings := Defaults(mode)
		for _, a := range bindings {
			for _, b := range bindings {
				if a.Keys != b.Keys && strings.HasPrefix(string(b.Keys), string(a.Keys)) {
					t.Errorf("%s: %q is a prefix of %q", mode, a.Keys.String(), b.Keys.String())
				}
			}
		}
	}
}

func TestDefaults_HistoryActions(t *testing.T) {
	tests := []struct {
		mode Mode
		keys Sequence
		want string
	}{
		{SingleLine, "\x0e", "ed-next-history"},
		{SingleLine, "\x1b[A", "ed-prev-history"},
		{MultiLine, "\x1b\x1b[A", "el-previous-history"},
		{MultiLine, "\x1b\x1b[B", "el-next-history"},
		{MultiLine, "\x1b[1;3B", "el-next-history"},
	}

	table := NewTable()
	for _, tt := range tests {
		got, ok := table.Keymap(tt.mode).Lookup(tt.keys)
		if !ok || got != tt.want {
			t.Errorf("%s: Lookup(%q) = %q, want %q", tt.mode, tt.keys.String(), got, tt.want)
		}
	}
	if ActionNextHistory == ActionNextLogicalHistory || ActionPrevHistory == ActionPreviousLogicalHistory {
		t.Error("engine and editor history actions share a name")
	}
}

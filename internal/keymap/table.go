package keymap

import (
	"github.com/go-errors/errors"
)

// ErrUnknownMode is returned for modes outside SingleLine and MultiLine.
var ErrUnknownMode = errors.New("unknown mode")

// Table owns one Keymap per Mode. The keymaps are independent: the same
// sequence may be bound to different actions, or to nothing, per mode.
type Table struct {
	maps [2]*Keymap
}

// NewTable returns a table seeded with the default bindings of each mode.
func NewTable() *Table {
	t := &Table{}
	for _, mode := range Modes {
		km := New()
		for _, b := range Defaults(mode) {
			km.Bind(b.Keys, b.Action)
		}
		t.maps[mode] = km
	}
	return t
}

// Keymap returns the live keymap of mode. Changes made through Bind are
// visible to every holder of the returned pointer.
func (t *Table) Keymap(mode Mode) *Keymap {
	if !mode.Valid() {
		return nil
	}
	return t.maps[mode]
}

// Bind registers or overwrites a binding in mode.
func (t *Table) Bind(mode Mode, seq Sequence, action string) error {
	if !mode.Valid() {
		return errors.WrapPrefix(ErrUnknownMode, mode.String(), 0)
	}
	if len(seq) == 0 {
		return invalid("", "empty sequence")
	}
	t.maps[mode].Bind(seq, action)
	return nil
}

// Unbind removes a binding from mode.
func (t *Table) Unbind(mode Mode, seq Sequence) bool {
	if !mode.Valid() {
		return false
	}
	return t.maps[mode].Unbind(seq)
}

// Dump enumerates the bindings of mode.
func (t *Table) Dump(mode Mode) string {
	if !mode.Valid() {
		return ""
	}
	return t.maps[mode].Dump()
}

type defaultBinding struct {
	notation string
	action   string
}

// commonBindings are installed in both modes.
var commonBindings = []defaultBinding{
	{`^w`, ActionDeletePrevWord},
	{`\t`, ActionComplete},
	{`\e[1;5C`, ActionNextWord},
	{`\e[1;5D`, ActionPrevWord},
	{`\e[5C`, ActionNextWord},
	{`\e[5D`, ActionPrevWord},
	{`\e\e[C`, ActionNextWord},
	{`\e\e[D`, ActionPrevWord},
	{`\ef`, ActionNextWord},
	{`\eb`, ActionPrevWord},
	{`\ed`, ActionDeleteNextWord},
	{`^a`, ActionMoveToBeg},
	{`^e`, ActionMoveToEnd},
	{`\e[H`, ActionMoveToBeg},
	{`\e[F`, ActionMoveToEnd},
	{`\eOH`, ActionMoveToBeg},
	{`\eOF`, ActionMoveToEnd},
	{`^b`, ActionPrevChar},
	{`^f`, ActionNextChar},
	{`\e[D`, ActionPrevChar},
	{`\e[C`, ActionNextChar},
	{`^k`, ActionKillLine},
	{`^u`, ActionKillToBeg},
	{`^t`, ActionTransposeChars},
	{`^l`, ActionClearScreen},
	{`^c`, ActionInterrupt},
	{`^_`, ActionUndo},
}

// singleLineBindings only use engine built-ins, so no multi-line action
// name is reachable in SingleLine mode.
var singleLineBindings = []defaultBinding{
	{`\n`, ActionNewline},
	{`\r`, ActionNewline},
	{`^p`, ActionPrevHistory},
	{`^n`, ActionNextHistory},
	{`\e[A`, ActionPrevHistory},
	{`\e[B`, ActionNextHistory},
	{`^?`, ActionDeletePrevChar},
	{`^h`, ActionDeletePrevChar},
	{`^d`, ActionDeleteOrEOF},
	{`\e[3~`, ActionDeleteNextChar},
	{`\e<`, ActionMoveToBeg},
	{`\e>`, ActionMoveToEnd},
}

var multiLineBindings = []defaultBinding{
	{`\n`, ActionEndOrAddLine},
	{`\r`, ActionEndOrAddLine},
	{`\e\n`, ActionBreakLine},
	{`\e\r`, ActionBreakLine},
	{`^p`, ActionPreviousLine},
	{`^n`, ActionNextLine},
	{`\e[A`, ActionPreviousLine},
	{`\e[B`, ActionNextLine},
	{`^?`, ActionDeletePreviousChar},
	{`^h`, ActionDeletePreviousChar},
	{`^d`, ActionDeleteFollowingChar},
	{`\e[3~`, ActionDeleteFollowingChar},
	{`\e[\^`, ActionRevertLine},
	{`\e<`, ActionBufferStart},
	{`\e>`, ActionBufferEnd},
	{`\e\e[A`, ActionPreviousLogicalHistory},
	{`\e\e[B`, ActionNextLogicalHistory},
	{`\e[1;3A`, ActionPreviousLogicalHistory},
	{`\e[1;3B`, ActionNextLogicalHistory},
}

// Defaults returns the default bindings of mode.
func Defaults(mode Mode) []Binding {
	var specific []defaultBinding
	switch mode {
	case SingleLine:
		specific = singleLineBindings
	case MultiLine:
		specific = multiLineBindings
	default:
		return nil
	}

	bindings := make([]Binding, 0, len(commonBindings)+len(specific))
	for _, list := range [][]defaultBinding{commonBindings, specific} {
		for _, d := range list {
			bindings = append(bindings, Binding{Keys: MustParse(d.notation), Action: d.action})
		}
	}
	return bindings
}

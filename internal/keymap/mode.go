package keymap

import (
	"strings"

	"github.com/go-errors/errors"
)

// Mode selects which binding set is active.
type Mode int

const (
	// SingleLine submits the line on Enter without consulting any
	// completion predicate.
	SingleLine Mode = iota
	// MultiLine routes Enter through the completion decision and enables
	// the line navigation actions.
	MultiLine
)

// Modes lists every mode in table order.
var Modes = []Mode{SingleLine, MultiLine}

// String returns the mode name as used in configuration files.
func (m Mode) String() string {
	switch m {
	case SingleLine:
		return "single-line"
	case MultiLine:
		return "multi-line"
	default:
		return "unknown"
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == SingleLine || m == MultiLine
}

// IsMultiLine returns true for the multi-line mode.
func (m Mode) IsMultiLine() bool {
	return m == MultiLine
}

// ParseMode parses a mode name. The empty string selects SingleLine.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single-line", "single", "singleline":
		return SingleLine, nil
	case "multi-line", "multi", "multiline":
		return MultiLine, nil
	}
	return SingleLine, errors.WrapPrefix(ErrUnknownMode, s, 0)
}

// Package keymap maps raw key sequences to named editing actions.
//
// Sequences are written in the notation used by libedit's bind command:
//
//	^W      control character (^? is DEL)
//	\e      escape (also \E)
//	\n \r \t \a \b \f \v
//	\\ \^   literal backslash and caret
//	\033    octal byte value
//
// Any other byte stands for itself, so raw escape sequences such as
// "\x1b[A" may be passed directly.
package keymap

import (
	"fmt"
	"strings"

	"github.com/go-errors/errors"
)

// ErrInvalidKeySequence is returned when a key sequence cannot be parsed.
var ErrInvalidKeySequence = errors.New("invalid key sequence")

// Sequence is a raw key sequence as it arrives from the terminal.
type Sequence string

// ParseSequence converts a key notation string into the raw bytes it
// describes.
func ParseSequence(notation string) (Sequence, error) {
	if notation == "" {
		return "", invalid(notation, "empty sequence")
	}

	var seq []byte
	for i := 0; i < len(notation); i++ {
		ch := notation[i]
		switch ch {
		case '^':
			if i+1 >= len(notation) {
				return "", invalid(notation, fmt.Sprintf("dangling '^' at %d", i))
			}
			i++
			b, ok := controlByte(notation[i])
			if !ok {
				return "", invalid(notation, fmt.Sprintf("no control character for '%c' at %d", notation[i], i))
			}
			seq = append(seq, b)

		case '\\':
			if i+1 >= len(notation) {
				return "", invalid(notation, fmt.Sprintf("dangling '\\' at %d", i))
			}
			i++
			esc := notation[i]
			if esc >= '0' && esc <= '7' {
				val := 0
				n := 0
				for n < 3 && i < len(notation) && notation[i] >= '0' && notation[i] <= '7' {
					val = val*8 + int(notation[i]-'0')
					i++
					n++
				}
				i--
				if val > 0xff {
					return "", invalid(notation, fmt.Sprintf("octal value %o out of range", val))
				}
				seq = append(seq, byte(val))
				continue
			}
			b, ok := escapes[esc]
			if !ok {
				return "", invalid(notation, fmt.Sprintf("unknown escape '\\%c' at %d", esc, i-1))
			}
			seq = append(seq, b)

		default:
			seq = append(seq, ch)
		}
	}

	return Sequence(seq), nil
}

// MustParse is like ParseSequence but panics on malformed notation.
// It is meant for package-level tables of known-good sequences.
func MustParse(notation string) Sequence {
	seq, err := ParseSequence(notation)
	if err != nil {
		panic(err)
	}
	return seq
}

// String renders the sequence in printable caret notation, e.g. "^[[A".
func (s Sequence) String() string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == 0x7f:
			b.WriteString("^?")
		case ch < 0x20:
			b.WriteByte('^')
			b.WriteByte(ch | 0x40)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

var escapes = map[byte]byte{
	'e':  0x1b,
	'E':  0x1b,
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'v':  '\v',
	'\\': '\\',
	'^':  '^',
}

// controlByte returns the control character written as ^ch.
func controlByte(ch byte) (byte, bool) {
	switch {
	case ch == '?':
		return 0x7f, true
	case ch >= 'a' && ch <= 'z':
		return ch - 'a' + 1, true
	case ch >= '@' && ch <= '_':
		return ch & 0x1f, true
	}
	return 0, false
}

func invalid(notation, reason string) error {
	return errors.WrapPrefix(ErrInvalidKeySequence, fmt.Sprintf("%q: %s", notation, reason), 0)
}

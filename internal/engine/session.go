// Package engine is a small line-editing engine that works on plain byte
// streams. A Session reads keystrokes from an io.Reader, dispatches them
// through a keymap to named commands and renders the edited line to an
// io.Writer using ANSI control sequences.
package engine

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-errors/errors"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"

	"github.com/abdullathedruid/editline/internal/keymap"
)

var (
	// ErrInterrupted is returned by ReadLine when ed-interrupt runs.
	ErrInterrupted = errors.New("interrupted")
	// ErrUnknownAction is returned when binding a key to an action that
	// has no registered command.
	ErrUnknownAction = errors.New("unknown action")
)

// Status tells the session what to do after a command has run.
type Status int

const (
	// StatusNorm leaves the display alone.
	StatusNorm Status = iota
	// StatusRefresh redraws the current line.
	StatusRefresh
	// StatusNewline finishes the line and returns it from ReadLine.
	StatusNewline
	// StatusEOF ends input; ReadLine returns io.EOF.
	StatusEOF
	// StatusInterrupt abandons the line; ReadLine returns ErrInterrupted.
	StatusInterrupt
	// StatusError rings the bell.
	StatusError
)

// Command implements an action. keys holds the sequence that triggered it.
type Command func(s *Session, keys keymap.Sequence) Status

// History is the capability the session uses to recall earlier entries.
// Index 0 is the oldest entry.
type History interface {
	Len() int
	At(i int) string
	Add(entry string) error
}

// Line is a finished line as returned by ReadLine.
type Line struct {
	Text   string
	Cursor int
	// Action is the name of the command that finished the line.
	Action string
}

// Session is one editing session bound to an input and output stream.
type Session struct {
	name     string
	in       *bufio.Reader
	out      io.Writer
	errOut   io.Writer
	useColor bool

	prompt      string
	contPrompt  string
	lineNumbers int
	lineIndex   int

	keymap  *keymap.Keymap
	matcher *keymap.Matcher
	funcs   map[string]Command

	buf      *Buffer
	utf8Buf  []byte
	history  History
	histPos  int
	histLive string

	writeErr error
}

// NewSession creates a session reading keystrokes from in. Rendered
// output goes to out, the bell to errOut. The single-line default
// bindings are active until ActivateBindingSet is called.
func NewSession(name string, in io.Reader, out, errOut io.Writer, useColor bool) *Session {
	if errOut == nil {
		errOut = out
	}
	s := &Session{
		name:     name,
		in:       bufio.NewReader(in),
		out:      out,
		errOut:   errOut,
		useColor: useColor,
		funcs:    make(map[string]Command),
		buf:      NewBuffer(),
		histPos:  -1,
	}
	registerBuiltins(s)

	km := keymap.New()
	for _, b := range keymap.Defaults(keymap.SingleLine) {
		km.Bind(b.Keys, b.Action)
	}
	s.ActivateBindingSet(km)
	return s
}

// Name returns the session name.
func (s *Session) Name() string {
	return s.name
}

// AddFunction registers cmd under name, replacing any existing command.
func (s *Session) AddFunction(name string, cmd Command) error {
	if name == "" || cmd == nil {
		return errors.Errorf("add function %q: name and command are required", name)
	}
	s.funcs[name] = cmd
	return nil
}

// HasFunction reports whether a command is registered under name.
func (s *Session) HasFunction(name string) bool {
	_, ok := s.funcs[name]
	return ok
}

// ValidateBinding parses notation and checks that action is registered.
func (s *Session) ValidateBinding(notation, action string) (keymap.Sequence, error) {
	seq, err := keymap.ParseSequence(notation)
	if err != nil {
		return "", err
	}
	if !s.HasFunction(action) {
		return "", errors.WrapPrefix(ErrUnknownAction, action, 0)
	}
	return seq, nil
}

// BindKey binds notation to action in the active binding set.
func (s *Session) BindKey(notation, action string) error {
	seq, err := s.ValidateBinding(notation, action)
	if err != nil {
		return err
	}
	s.keymap.Bind(seq, action)
	return nil
}

// ActivateBindingSet makes km the active binding set. The session keeps
// the pointer, so later changes to km are live.
func (s *Session) ActivateBindingSet(km *keymap.Keymap) {
	s.keymap = km
	s.matcher = km.NewMatcher()
}

// DumpBindings lists the active bindings.
func (s *Session) DumpBindings() string {
	return s.keymap.Dump()
}

// DumpBinding describes the binding of a single sequence.
func (s *Session) DumpBinding(notation string) (string, error) {
	seq, err := keymap.ParseSequence(notation)
	if err != nil {
		return "", err
	}
	return s.keymap.DumpSequence(seq), nil
}

// SetPrompt sets the prompt of the first line.
func (s *Session) SetPrompt(prompt string) {
	s.prompt = prompt
}

// SetContinuationPrompt sets the prompt of every line after the first.
// An empty continuation prompt reuses the main prompt.
func (s *Session) SetContinuationPrompt(prompt string) {
	s.contPrompt = prompt
}

// SetLineNumbers enables line number prefixes starting at base. Zero
// disables them.
func (s *Session) SetLineNumbers(base int) {
	if base < 0 {
		base = 0
	}
	s.lineNumbers = base
}

// SetLineIndex selects which line of a logical block is being edited.
// It only affects the prompt.
func (s *Session) SetLineIndex(i int) {
	s.lineIndex = i
}

// PromptFor returns the unstyled prompt of line i.
func (s *Session) PromptFor(i int) string {
	p := s.prompt
	if i > 0 && s.contPrompt != "" {
		p = s.contPrompt
	}
	if s.lineNumbers > 0 {
		width := max(3, len(strconv.Itoa(s.lineNumbers))+1)
		p = fmt.Sprintf("%*d%s", width, s.lineNumbers+i, p)
	}
	return p
}

// StyledPromptFor returns the prompt of line i, colored when the session
// was created with useColor.
func (s *Session) StyledPromptFor(i int) string {
	p := s.PromptFor(i)
	if !s.useColor || p == "" {
		return p
	}
	return termenv.ANSI.String(p).Foreground(termenv.ANSIBlue).Bold().String()
}

// SetHistory sets the history used by ed-prev-history and ed-next-history.
func (s *Session) SetHistory(h History) {
	s.history = h
	s.histPos = -1
}

// History returns the history set with SetHistory.
func (s *Session) History() History {
	return s.history
}

// SetLine replaces the text being edited and clears undo.
func (s *Session) SetLine(text string, cursor int) {
	s.buf.SetWithCursor(text, cursor)
	s.buf.ClearHistory()
}

// Line returns the text being edited.
func (s *Session) Line() Line {
	return Line{Text: s.buf.Text(), Cursor: s.buf.Cursor()}
}

// Buffer exposes the edit buffer to commands.
func (s *Session) Buffer() *Buffer {
	return s.buf
}

// WriteString writes s to the output unchanged.
func (s *Session) WriteString(str string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	if _, err := io.WriteString(s.out, str); err != nil {
		s.writeErr = err
		return err
	}
	return nil
}

// Refresh redraws the current line in place.
func (s *Session) Refresh() {
	var b strings.Builder
	b.WriteString("\r")
	b.WriteString(s.StyledPromptFor(s.lineIndex))
	b.WriteString(s.buf.Text())
	b.WriteString("\x1b[K")
	if tail := runewidth.StringWidth(s.buf.AfterCursor()); tail > 0 {
		fmt.Fprintf(&b, "\x1b[%dD", tail)
	}
	s.WriteString(b.String())
}

// Beep rings the terminal bell.
func (s *Session) Beep() {
	io.WriteString(s.errOut, "\a")
}

// ReadLine edits one line, starting from the text set with SetLine. It
// returns when a command reports StatusNewline. At end of input the
// partial line is returned together with io.EOF; ed-interrupt yields
// ErrInterrupted. Any other error comes from the streams.
func (s *Session) ReadLine() (Line, error) {
	s.matcher.Reset()
	s.utf8Buf = s.utf8Buf[:0]
	s.histPos = -1
	s.Refresh()

	for {
		if s.writeErr != nil {
			return s.Line(), s.writeErr
		}

		c, err := s.in.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.WriteString("\r\n")
				return s.Line(), io.EOF
			}
			return s.Line(), err
		}

		var (
			st     Status
			action string
		)
		m := s.matcher.Feed(c)
		switch m.Kind {
		case keymap.Partial:
			continue
		case keymap.Unbound:
			if len(m.Seq) == 1 {
				st = s.selfInsert(c)
			} else {
				st = StatusError
			}
		case keymap.Matched:
			if m.Replay {
				s.in.UnreadByte()
			}
			action = m.Action
			st = s.run(m.Action, m.Seq)
		}

		switch st {
		case StatusRefresh:
			s.Refresh()
		case StatusError:
			s.Beep()
		case StatusNewline:
			s.WriteString("\r\n")
			line := s.Line()
			line.Action = action
			return line, s.writeErr
		case StatusEOF:
			s.WriteString("\r\n")
			return s.Line(), io.EOF
		case StatusInterrupt:
			s.WriteString("\r\n")
			return Line{}, ErrInterrupted
		}
	}
}

func (s *Session) run(action string, keys keymap.Sequence) Status {
	cmd, ok := s.funcs[action]
	if !ok {
		log.Debug().Str("session", s.name).Str("action", action).Msg("no command for bound action")
		return StatusError
	}
	return cmd(s, keys)
}

// selfInsert inserts printable input. Multi-byte UTF-8 characters are
// collected until complete.
func (s *Session) selfInsert(c byte) Status {
	if len(s.utf8Buf) == 0 && c < utf8.RuneSelf {
		if c < 0x20 || c == 0x7f {
			return StatusError
		}
		s.buf.SaveState()
		s.buf.Insert(rune(c))
		return StatusRefresh
	}

	s.utf8Buf = append(s.utf8Buf, c)
	if !utf8.FullRune(s.utf8Buf) {
		return StatusNorm
	}
	r, _ := utf8.DecodeRune(s.utf8Buf)
	s.utf8Buf = s.utf8Buf[:0]
	if r == utf8.RuneError {
		return StatusError
	}
	s.buf.SaveState()
	s.buf.Insert(r)
	return StatusRefresh
}

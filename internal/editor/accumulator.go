package editor

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/go-errors/errors"
	"github.com/rs/zerolog/log"

	"github.com/abdullathedruid/editline/internal/engine"
	"github.com/abdullathedruid/editline/internal/keymap"
)

type state int

const (
	stateIdle state = iota
	stateAwaitingLine
	stateLineReady
	stateComplete
	stateInterrupted
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAwaitingLine:
		return "awaiting-line"
	case stateLineReady:
		return "line-ready"
	case stateComplete:
		return "complete"
	case stateInterrupted:
		return "interrupted"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// accumulator collects the physical lines of one logical read.
//
// The lines are drawn as a block, one row per line. row is the terminal
// row of the cursor relative to the first line of the block; the engine
// only ever redraws the row of the current line.
type accumulator struct {
	ed      *Editor
	s       *engine.Session
	mode    keymap.Mode
	state   state
	lines   []string
	current int
	row     int

	histPos  int
	histLive []string
}

func newAccumulator(ed *Editor, mode keymap.Mode) *accumulator {
	return &accumulator{
		ed:      ed,
		s:       ed.session,
		mode:    mode,
		lines:   []string{""},
		histPos: -1,
	}
}

func (a *accumulator) setState(st state) {
	log.Debug().
		Str("session", a.ed.name).
		Stringer("from", a.state).
		Stringer("to", st).
		Int("line", a.current).
		Int("lines", len(a.lines)).
		Msg("accumulator")
	a.state = st
}

// run drives the engine until the logical read completes. The returned
// lines are the whole buffer for multi-line reads and a single line for
// single-line reads.
func (a *accumulator) run() ([]string, bool, error) {
	a.load(0, 0)
	a.setState(stateAwaitingLine)

	for {
		line, err := a.s.ReadLine()
		// The engine ends every read with a newline.
		a.row = a.current + 1
		if err != nil {
			return a.end(line, err)
		}

		a.lines[a.current] = line.Text
		a.setState(stateLineReady)

		if line.Action == keymap.ActionBreakLine {
			a.split(line.Cursor)
			a.setState(stateAwaitingLine)
			continue
		}

		if a.mode == keymap.SingleLine {
			a.finish()
			a.setState(stateComplete)
			return []string{line.Text}, false, nil
		}

		done, err := a.ed.evaluate(a.lines)
		if err != nil {
			a.finish()
			a.setState(stateFailed)
			return nil, false, err
		}
		if done {
			a.finish()
			a.setState(stateComplete)
			return slices.Clone(a.lines), false, nil
		}

		a.split(line.Cursor)
		a.setState(stateAwaitingLine)
	}
}

// end handles a read that stopped without a finished line.
func (a *accumulator) end(line engine.Line, err error) ([]string, bool, error) {
	switch {
	case errors.Is(err, engine.ErrInterrupted):
		a.finish()
		a.setState(stateInterrupted)
		return nil, true, nil

	case errors.Is(err, io.EOF):
		a.lines[a.current] = line.Text
		a.finish()

		lines := trimTrailingEmpty(a.lines)
		if len(lines) == 0 {
			a.setState(stateInterrupted)
			return nil, true, nil
		}
		if a.mode == keymap.SingleLine {
			a.setState(stateComplete)
			return []string{line.Text}, false, nil
		}
		a.setState(stateInterrupted)
		return lines, true, nil

	default:
		a.setState(stateFailed)
		return nil, true, errors.WrapPrefix(ErrChannelClosed, err.Error(), 0)
	}
}

func trimTrailingEmpty(lines []string) []string {
	n := len(lines)
	for n > 0 && lines[n-1] == "" {
		n--
	}
	return slices.Clone(lines[:n])
}

// load makes line i the one being edited.
func (a *accumulator) load(i, cursor int) {
	a.gotoRow(i)
	a.current = i
	a.s.SetLineIndex(i)
	a.s.SetLine(a.lines[i], cursor)
}

// save copies the engine's line back into the buffer.
func (a *accumulator) save() {
	a.lines[a.current] = a.s.Buffer().Text()
}

// split breaks the current line at cursor and continues on the new line.
// Called after the engine returned, so the terminal cursor is already
// one row below the current line.
func (a *accumulator) split(cursor int) {
	runes := []rune(a.lines[a.current])
	cursor = min(max(cursor, 0), len(runes))
	head, tail := string(runes[:cursor]), string(runes[cursor:])

	a.lines[a.current] = head
	a.lines = slices.Insert(a.lines, a.current+1, tail)
	a.current++

	if tail == "" && a.current == len(a.lines)-1 {
		// Plain append: the new row is already where the cursor is.
		a.load(a.current, 0)
		return
	}
	a.redraw()
	a.load(a.current, 0)
}

// insertLine opens a new line after the current one while the engine is
// still reading.
func (a *accumulator) insertLine(text string) {
	a.save()
	a.lines = slices.Insert(a.lines, a.current+1, text)
	a.current++
	a.redraw()
	a.load(a.current, 0)
}

// finish moves the terminal cursor below the block.
func (a *accumulator) finish() {
	if a.row < len(a.lines) {
		a.gotoRow(len(a.lines) - 1)
		a.s.WriteString("\r\n")
		a.row = len(a.lines)
	}
}

func (a *accumulator) gotoRow(r int) {
	switch {
	case r > a.row:
		a.s.WriteString(fmt.Sprintf("\x1b[%dB", r-a.row))
	case r < a.row:
		a.s.WriteString(fmt.Sprintf("\x1b[%dA", a.row-r))
	}
	a.row = r
}

// redraw repaints the whole block from its first row.
func (a *accumulator) redraw() {
	a.gotoRow(0)
	a.s.WriteString("\r\x1b[J")
	a.reprint()
}

// reprint writes the whole block starting at the cursor row, then returns
// to the current line.
func (a *accumulator) reprint() {
	var b strings.Builder
	for i, line := range a.lines {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(a.s.StyledPromptFor(i))
		b.WriteString(line)
		b.WriteString("\x1b[K")
	}
	a.s.WriteString(b.String())
	a.row = len(a.lines) - 1
	a.gotoRow(a.current)
}

// revert discards the buffer and starts over on an empty first line.
func (a *accumulator) revert() {
	a.lines = []string{""}
	a.current = 0
	a.histPos = -1
	a.redraw()
	a.load(0, 0)
	a.setState(stateAwaitingLine)
}

// recall replaces the buffer with a history entry. Walking newer past the
// last entry restores the lines that were being edited.
func (a *accumulator) recall(older bool) bool {
	h := a.ed.history
	if h == nil || h.Len() == 0 {
		return false
	}
	a.save()

	switch {
	case older && a.histPos < 0:
		a.histLive = slices.Clone(a.lines)
		a.histPos = h.Len() - 1
	case older && a.histPos > 0:
		a.histPos--
	case older:
		return false
	case a.histPos < 0:
		return false
	default:
		a.histPos++
	}

	if a.histPos >= h.Len() {
		a.histPos = -1
		a.lines = a.histLive
	} else {
		a.lines = strings.Split(h.At(a.histPos), "\n")
	}

	a.gotoRow(0)
	a.current = len(a.lines) - 1
	a.s.WriteString("\r\x1b[J")
	a.reprint()
	a.load(a.current, len([]rune(a.lines[a.current])))
	return true
}

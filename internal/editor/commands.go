package editor

import (
	"github.com/abdullathedruid/editline/internal/engine"
	"github.com/abdullathedruid/editline/internal/keymap"
)

// registerCommands adds the multi-line aware actions to the engine.
func (e *Editor) registerCommands() {
	commands := map[string]func(a *accumulator, s *engine.Session) engine.Status{
		keymap.ActionEndOrAddLine:           finishLine,
		keymap.ActionBreakLine:              finishLine,
		keymap.ActionPreviousLine:           previousLine,
		keymap.ActionNextLine:               nextLine,
		keymap.ActionDeletePreviousChar:     deletePreviousChar,
		keymap.ActionDeleteFollowingChar:    deleteFollowingChar,
		keymap.ActionRevertLine:             revertLine,
		keymap.ActionBufferStart:            bufferStart,
		keymap.ActionBufferEnd:              bufferEnd,
		keymap.ActionPreviousLogicalHistory: previousHistory,
		keymap.ActionNextLogicalHistory:     nextHistory,
		keymap.ActionComplete:               complete,
		keymap.ActionClearScreen:            clearScreen,
	}

	for name, fn := range commands {
		fn := fn
		e.session.AddFunction(name, func(s *engine.Session, _ keymap.Sequence) engine.Status {
			if e.acc == nil {
				return engine.StatusError
			}
			return fn(e.acc, s)
		})
	}
}

// finishLine hands the line back to the accumulator, which decides
// between completing and continuing from the action name.
func finishLine(_ *accumulator, _ *engine.Session) engine.Status {
	return engine.StatusNewline
}

func previousLine(a *accumulator, s *engine.Session) engine.Status {
	if a.current == 0 {
		if !a.recall(true) {
			return engine.StatusError
		}
		return engine.StatusRefresh
	}
	col := s.Buffer().Cursor()
	a.save()
	a.load(a.current-1, col)
	return engine.StatusRefresh
}

func nextLine(a *accumulator, s *engine.Session) engine.Status {
	if a.current < len(a.lines)-1 {
		col := s.Buffer().Cursor()
		a.save()
		a.load(a.current+1, col)
		return engine.StatusRefresh
	}

	if isBlank(s.Buffer().Text()) {
		if !a.recall(false) {
			return engine.StatusError
		}
		return engine.StatusRefresh
	}
	a.insertLine("")
	return engine.StatusRefresh
}

// deletePreviousChar deletes backwards, joining with the previous line at
// the start of a line.
func deletePreviousChar(a *accumulator, s *engine.Session) engine.Status {
	buf := s.Buffer()
	if buf.Cursor() > 0 {
		buf.SaveState()
		buf.DeleteBackward()
		return engine.StatusRefresh
	}
	if a.current == 0 {
		return engine.StatusError
	}

	a.save()
	prev := a.lines[a.current-1]
	col := len([]rune(prev))
	a.lines[a.current-1] = prev + a.lines[a.current]
	a.lines = append(a.lines[:a.current], a.lines[a.current+1:]...)
	a.current--
	a.redraw()
	a.load(a.current, col)
	return engine.StatusRefresh
}

// deleteFollowingChar deletes forwards, joining the next line at the end
// of a line. On a completely empty buffer it ends input.
func deleteFollowingChar(a *accumulator, s *engine.Session) engine.Status {
	buf := s.Buffer()
	if buf.Cursor() < buf.Len() {
		buf.SaveState()
		buf.DeleteForward()
		return engine.StatusRefresh
	}
	if a.current < len(a.lines)-1 {
		a.save()
		col := buf.Cursor()
		a.lines[a.current] += a.lines[a.current+1]
		a.lines = append(a.lines[:a.current+1], a.lines[a.current+2:]...)
		a.redraw()
		a.load(a.current, col)
		return engine.StatusRefresh
	}
	if len(a.lines) == 1 && buf.Len() == 0 {
		return engine.StatusEOF
	}
	return engine.StatusError
}

func revertLine(a *accumulator, _ *engine.Session) engine.Status {
	a.revert()
	return engine.StatusRefresh
}

func bufferStart(a *accumulator, _ *engine.Session) engine.Status {
	a.save()
	a.load(0, 0)
	return engine.StatusRefresh
}

func bufferEnd(a *accumulator, _ *engine.Session) engine.Status {
	a.save()
	last := len(a.lines) - 1
	a.load(last, len([]rune(a.lines[last])))
	return engine.StatusRefresh
}

func previousHistory(a *accumulator, _ *engine.Session) engine.Status {
	if !a.recall(true) {
		return engine.StatusError
	}
	return engine.StatusRefresh
}

func nextHistory(a *accumulator, _ *engine.Session) engine.Status {
	if !a.recall(false) {
		return engine.StatusError
	}
	return engine.StatusRefresh
}

func clearScreen(a *accumulator, s *engine.Session) engine.Status {
	a.save()
	s.WriteString("\x1b[H\x1b[2J")
	a.row = 0
	a.reprint()
	return engine.StatusRefresh
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' {
			return false
		}
	}
	return true
}

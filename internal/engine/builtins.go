package engine

import (
	"github.com/abdullathedruid/editline/internal/keymap"
)

func registerBuiltins(s *Session) {
	builtins := map[string]Command{
		keymap.ActionInsert:         insertKey,
		keymap.ActionNewline:        newline,
		keymap.ActionDeletePrevChar: edit((*Buffer).DeleteBackward),
		keymap.ActionDeleteNextChar: edit((*Buffer).DeleteForward),
		keymap.ActionDeleteOrEOF:    deleteOrEOF,
		keymap.ActionDeletePrevWord: edit((*Buffer).DeleteWordBackward),
		keymap.ActionDeleteNextWord: edit((*Buffer).DeleteWordForward),
		keymap.ActionPrevChar:       move((*Buffer).Left),
		keymap.ActionNextChar:       move((*Buffer).Right),
		keymap.ActionPrevWord:       move((*Buffer).WordLeft),
		keymap.ActionNextWord:       move((*Buffer).WordRight),
		keymap.ActionMoveToBeg:      move(func(b *Buffer) bool { b.Home(); return true }),
		keymap.ActionMoveToEnd:      move(func(b *Buffer) bool { b.End(); return true }),
		keymap.ActionKillLine:       edit(func(b *Buffer) bool { b.KillToEnd(); return true }),
		keymap.ActionKillToBeg:      edit(func(b *Buffer) bool { b.KillToStart(); return true }),
		keymap.ActionTransposeChars: edit((*Buffer).Transpose),
		keymap.ActionPrevHistory:    prevHistory,
		keymap.ActionNextHistory:    nextHistory,
		keymap.ActionClearScreen:    clearScreen,
		keymap.ActionInterrupt:      interrupt,
		keymap.ActionUndo:           undo,
		keymap.ActionUnassigned:     unassigned,
	}
	for name, cmd := range builtins {
		s.funcs[name] = cmd
	}
}

// edit wraps a buffer mutation with an undo snapshot.
func edit(fn func(*Buffer) bool) Command {
	return func(s *Session, _ keymap.Sequence) Status {
		s.buf.SaveState()
		if !fn(s.buf) {
			return StatusError
		}
		return StatusRefresh
	}
}

func move(fn func(*Buffer) bool) Command {
	return func(s *Session, _ keymap.Sequence) Status {
		if !fn(s.buf) {
			return StatusNorm
		}
		return StatusRefresh
	}
}

func insertKey(s *Session, keys keymap.Sequence) Status {
	if len(keys) == 0 {
		return StatusError
	}
	return s.selfInsert(keys[len(keys)-1])
}

func newline(_ *Session, _ keymap.Sequence) Status {
	return StatusNewline
}

func deleteOrEOF(s *Session, keys keymap.Sequence) Status {
	if s.buf.Len() == 0 {
		return StatusEOF
	}
	return edit((*Buffer).DeleteForward)(s, keys)
}

func interrupt(_ *Session, _ keymap.Sequence) Status {
	return StatusInterrupt
}

func unassigned(_ *Session, _ keymap.Sequence) Status {
	return StatusError
}

func undo(s *Session, _ keymap.Sequence) Status {
	if !s.buf.Undo() {
		return StatusError
	}
	return StatusRefresh
}

func clearScreen(s *Session, _ keymap.Sequence) Status {
	s.WriteString("\x1b[H\x1b[2J")
	return StatusRefresh
}

// prevHistory replaces the line with the next older history entry. The
// line being edited is kept and restored when walking back past the
// newest entry.
func prevHistory(s *Session, _ keymap.Sequence) Status {
	if s.history == nil || s.history.Len() == 0 {
		return StatusError
	}
	switch {
	case s.histPos < 0:
		s.histLive = s.buf.Text()
		s.histPos = s.history.Len() - 1
	case s.histPos > 0:
		s.histPos--
	default:
		return StatusError
	}
	s.SetLine(s.history.At(s.histPos), -1)
	s.buf.End()
	return StatusRefresh
}

func nextHistory(s *Session, _ keymap.Sequence) Status {
	if s.history == nil || s.histPos < 0 {
		return StatusError
	}
	s.histPos++
	if s.histPos >= s.history.Len() {
		s.histPos = -1
		s.SetLine(s.histLive, -1)
	} else {
		s.SetLine(s.history.At(s.histPos), -1)
	}
	s.buf.End()
	return StatusRefresh
}

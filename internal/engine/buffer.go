package engine

import "unicode"

// bufferState is a snapshot of buffer state for undo.
type bufferState struct {
	text   []rune
	cursor int
}

// Buffer is a single-line text buffer with cursor tracking. Positions are
// rune offsets.
type Buffer struct {
	text    []rune
	cursor  int
	history []bufferState // Undo history stack
	maxHist int           // Maximum history size (0 = unlimited)
}

// NewBuffer creates a new empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{maxHist: 100}
}

// Text returns the current text.
func (b *Buffer) Text() string {
	return string(b.text)
}

// Cursor returns the current cursor position.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// SetCursor sets the cursor position, clamping to valid range.
func (b *Buffer) SetCursor(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(b.text) {
		pos = len(b.text)
	}
	b.cursor = pos
}

// Len returns the length of the text in runes.
func (b *Buffer) Len() int {
	return len(b.text)
}

// SetWithCursor replaces the text and places the cursor at pos.
func (b *Buffer) SetWithCursor(text string, pos int) {
	b.text = []rune(text)
	b.SetCursor(pos)
}

// SaveState saves the current state to the undo history.
// Call this before making changes that should be undoable.
func (b *Buffer) SaveState() {
	if len(b.history) > 0 {
		last := b.history[len(b.history)-1]
		if last.cursor == b.cursor && string(last.text) == string(b.text) {
			return
		}
	}

	textCopy := make([]rune, len(b.text))
	copy(textCopy, b.text)
	b.history = append(b.history, bufferState{text: textCopy, cursor: b.cursor})

	if b.maxHist > 0 && len(b.history) > b.maxHist {
		b.history = b.history[1:]
	}
}

// Undo restores the previous state from the undo history.
// Returns true if undo was performed, false if history is empty.
func (b *Buffer) Undo() bool {
	if len(b.history) == 0 {
		return false
	}
	last := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	b.text = last.text
	b.cursor = last.cursor
	return true
}

// ClearHistory clears the undo history.
func (b *Buffer) ClearHistory() {
	b.history = b.history[:0]
}

// BeforeCursor returns text before the cursor.
func (b *Buffer) BeforeCursor() string {
	return string(b.text[:b.cursor])
}

// AfterCursor returns text from cursor to end.
func (b *Buffer) AfterCursor() string {
	return string(b.text[b.cursor:])
}

// Insert adds a rune at the cursor position.
func (b *Buffer) Insert(r rune) {
	b.text = append(b.text, 0)
	copy(b.text[b.cursor+1:], b.text[b.cursor:])
	b.text[b.cursor] = r
	b.cursor++
}

// InsertString adds a string at the cursor position.
func (b *Buffer) InsertString(s string) {
	for _, r := range s {
		b.Insert(r)
	}
}

// DeleteBackward removes the character before the cursor (backspace).
// Returns true if a character was deleted.
func (b *Buffer) DeleteBackward() bool {
	if b.cursor == 0 {
		return false
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
	return true
}

// DeleteForward removes the character at the cursor (delete).
// Returns true if a character was deleted.
func (b *Buffer) DeleteForward() bool {
	if b.cursor >= len(b.text) {
		return false
	}
	b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
	return true
}

// Left moves cursor one character left.
// Returns true if cursor moved.
func (b *Buffer) Left() bool {
	if b.cursor == 0 {
		return false
	}
	b.cursor--
	return true
}

// Right moves cursor one character right.
// Returns true if cursor moved.
func (b *Buffer) Right() bool {
	if b.cursor >= len(b.text) {
		return false
	}
	b.cursor++
	return true
}

// Home moves cursor to beginning of line.
func (b *Buffer) Home() {
	b.cursor = 0
}

// End moves cursor to end of line.
func (b *Buffer) End() {
	b.cursor = len(b.text)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordStartLeft finds the start of the word before the cursor (emacs M-b).
func (b *Buffer) wordStartLeft() int {
	i := b.cursor
	for i > 0 && !isWordRune(b.text[i-1]) {
		i--
	}
	for i > 0 && isWordRune(b.text[i-1]) {
		i--
	}
	return i
}

// wordEndRight finds the end of the word after the cursor (emacs M-f).
func (b *Buffer) wordEndRight() int {
	i := b.cursor
	for i < len(b.text) && !isWordRune(b.text[i]) {
		i++
	}
	for i < len(b.text) && isWordRune(b.text[i]) {
		i++
	}
	return i
}

// WordLeft moves cursor to the start of the previous word.
func (b *Buffer) WordLeft() bool {
	pos := b.wordStartLeft()
	moved := pos != b.cursor
	b.cursor = pos
	return moved
}

// WordRight moves cursor past the end of the next word.
func (b *Buffer) WordRight() bool {
	pos := b.wordEndRight()
	moved := pos != b.cursor
	b.cursor = pos
	return moved
}

// DeleteWordBackward deletes from cursor to previous word start (Ctrl+W).
func (b *Buffer) DeleteWordBackward() bool {
	newPos := b.wordStartLeft()
	if newPos == b.cursor {
		return false
	}
	b.text = append(b.text[:newPos], b.text[b.cursor:]...)
	b.cursor = newPos
	return true
}

// DeleteWordForward deletes from cursor to the next word end (Alt+D).
func (b *Buffer) DeleteWordForward() bool {
	newPos := b.wordEndRight()
	if newPos == b.cursor {
		return false
	}
	b.text = append(b.text[:b.cursor], b.text[newPos:]...)
	return true
}

// KillToEnd deletes from cursor to end of line (Ctrl+K).
func (b *Buffer) KillToEnd() {
	b.text = b.text[:b.cursor]
}

// KillToStart deletes from beginning to cursor (Ctrl+U).
func (b *Buffer) KillToStart() {
	b.text = append(b.text[:0], b.text[b.cursor:]...)
	b.cursor = 0
}

// Transpose swaps the character before cursor with the one at cursor (Ctrl+T).
// If at end, swaps the last two characters.
func (b *Buffer) Transpose() bool {
	if b.cursor == 0 || len(b.text) < 2 {
		return false
	}
	pos := b.cursor
	if pos == len(b.text) {
		pos--
	}
	b.text[pos-1], b.text[pos] = b.text[pos], b.text[pos-1]
	if b.cursor < len(b.text) {
		b.cursor++
	}
	return true
}

// Package screen provides a virtual terminal that interprets the editor's
// rendered output.
package screen

import (
	"strings"
	"sync"

	"github.com/vito/midterm"
)

// Screen wraps midterm.Terminal with a mutex for thread-safe access.
// The drain goroutine writes while tests and callers read.
type Screen struct {
	mu   sync.Mutex
	term *midterm.Terminal
}

// New creates a new screen with the given dimensions.
func New(rows, cols int) *Screen {
	return &Screen{
		term: midterm.NewTerminal(rows, cols),
	}
}

// Write feeds raw output to the terminal emulator. Thread-safe.
func (s *Screen) Write(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term.Write(data)
}

// Cursor returns the current cursor position. Thread-safe.
func (s *Screen) Cursor() (x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term.Cursor.X, s.term.Cursor.Y
}

// Row returns the plain text of row y without trailing blanks.
func (s *Screen) Row(y int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if y < 0 || y >= len(s.term.Content) {
		return ""
	}
	return strings.TrimRight(string(s.term.Content[y]), " \x00")
}

// Lines returns the plain text of every row up to the last non-empty one.
func (s *Screen) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]string, len(s.term.Content))
	last := -1
	for y, row := range s.term.Content {
		lines[y] = strings.TrimRight(string(row), " \x00")
		if lines[y] != "" {
			last = y
		}
	}
	return lines[:last+1]
}

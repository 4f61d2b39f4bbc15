package bridge

import (
	"bytes"
	"sync"

	"github.com/abdullathedruid/editline/internal/screen"
)

// Sink accumulates drained output. It keeps the raw bytes and, when a
// screen is attached, feeds them to the virtual terminal as well.
type Sink struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	screen *screen.Screen
}

// NewSink creates a sink. scr may be nil.
func NewSink(scr *screen.Screen) *Sink {
	return &Sink{screen: scr}
}

// Write appends p to the sink. It never fails.
func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	s.buf.Write(p)
	s.mu.Unlock()

	if s.screen != nil {
		s.screen.Write(p)
	}
	return len(p), nil
}

// String returns everything written so far.
func (s *Sink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// Screen returns the attached screen, or nil.
func (s *Sink) Screen() *screen.Screen {
	return s.screen
}

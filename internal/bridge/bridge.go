// Package bridge connects a line-editing engine to an in-process keyboard
// and display. Keystrokes are written into a pipe the engine reads from;
// the engine's output is drained byte by byte on a background goroutine.
package bridge

import (
	"io"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"github.com/go-errors/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/abdullathedruid/editline/internal/screen"
)

// Transport selects how the engine's output is connected to the drain.
type Transport string

const (
	// TransportAuto uses a pty when one can be opened and a pipe otherwise.
	TransportAuto Transport = "auto"
	// TransportPTY writes engine output to a raw pty secondary.
	TransportPTY Transport = "pty"
	// TransportPipe writes engine output to a plain pipe.
	TransportPipe Transport = "pipe"
)

// ParseTransport parses a transport name. The empty string selects
// TransportAuto.
func ParseTransport(s string) (Transport, error) {
	switch t := Transport(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TransportAuto, nil
	case TransportAuto, TransportPTY, TransportPipe:
		return t, nil
	}
	return "", errors.Errorf("unknown transport: %s", s)
}

// Options configures Open.
type Options struct {
	Transport Transport
	// Rows and Cols size the pty and the screen. Zero means 24x80.
	Rows int
	Cols int
	// Screen attaches a virtual terminal to the sink.
	Screen bool
}

// Bridge owns the input feed and the output drain of one engine.
type Bridge struct {
	transport Transport

	feedR *os.File // engine reads keystrokes here
	feedW *os.File
	outR  *os.File // drain reads engine output here
	outW  *os.File // engine writes here

	sink *Sink
	done chan struct{}

	feedOnce  sync.Once
	feedErr   error
	inputOnce sync.Once
	inputErr  error
	closeOnce sync.Once
	closeErr  error
}

// Open creates the channel pair and starts the drain goroutine.
func Open(opts Options) (*Bridge, error) {
	if opts.Rows <= 0 {
		opts.Rows = 24
	}
	if opts.Cols <= 0 {
		opts.Cols = 80
	}
	if opts.Transport == "" {
		opts.Transport = TransportAuto
	}

	feedR, feedW, err := os.Pipe()
	if err != nil {
		return nil, errors.WrapPrefix(err, "open input feed", 0)
	}

	b := &Bridge{
		feedR: feedR,
		feedW: feedW,
		done:  make(chan struct{}),
	}

	switch opts.Transport {
	case TransportPTY:
		err = b.openPTY(opts)
	case TransportPipe:
		err = b.openPipe()
	case TransportAuto:
		if err = b.openPTY(opts); err != nil {
			log.Debug().Err(err).Msg("pty unavailable, falling back to pipe")
			err = b.openPipe()
		}
	default:
		err = errors.Errorf("unknown transport: %s", opts.Transport)
	}
	if err != nil {
		feedR.Close()
		feedW.Close()
		return nil, err
	}

	var scr *screen.Screen
	if opts.Screen {
		scr = screen.New(opts.Rows, opts.Cols)
	}
	b.sink = NewSink(scr)

	log.Debug().Str("transport", string(b.transport)).Msg("bridge open")
	go b.drain()
	return b, nil
}

func (b *Bridge) openPTY(opts Options) error {
	primary, secondary, err := pty.Open()
	if err != nil {
		return errors.WrapPrefix(err, "open pty", 0)
	}
	if _, err := term.MakeRaw(int(secondary.Fd())); err != nil {
		primary.Close()
		secondary.Close()
		return errors.WrapPrefix(err, "set pty raw", 0)
	}
	pty.Setsize(secondary, &pty.Winsize{
		Rows: uint16(opts.Rows),
		Cols: uint16(opts.Cols),
	})
	b.outR, b.outW = primary, secondary
	b.transport = TransportPTY
	return nil
}

func (b *Bridge) openPipe() error {
	r, w, err := os.Pipe()
	if err != nil {
		return errors.WrapPrefix(err, "open output pipe", 0)
	}
	b.outR, b.outW = r, w
	b.transport = TransportPipe
	return nil
}

// drain copies engine output into the sink one byte at a time until the
// engine side is closed.
func (b *Bridge) drain() {
	defer close(b.done)

	buf := make([]byte, 1)
	for {
		n, err := b.outR.Read(buf)
		if n > 0 {
			b.sink.Write(buf[:n])
		}
		if err != nil {
			if !isEndOfStream(err) {
				log.Debug().Err(err).Msg("drain stopped")
			}
			return
		}
	}
}

// A pty primary reports EIO once the secondary is closed.
func isEndOfStream(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed)
}

// Transport returns the transport in use.
func (b *Bridge) Transport() Transport {
	return b.transport
}

// EngineInput is the stream the engine reads keystrokes from.
func (b *Bridge) EngineInput() io.Reader {
	return b.feedR
}

// EngineOutput is the unbuffered stream the engine renders to.
func (b *Bridge) EngineOutput() io.Writer {
	return b.outW
}

// Write sends raw keystrokes to the engine.
func (b *Bridge) Write(p []byte) (int, error) {
	return b.feedW.Write(p)
}

// Feed sends s to the engine unchanged.
func (b *Bridge) Feed(s string) error {
	_, err := io.WriteString(b.feedW, s)
	return err
}

// SendLine sends line followed by a newline.
func (b *Bridge) SendLine(line string) error {
	return b.Feed(line + "\n")
}

// SendLines sends each line followed by a newline.
func (b *Bridge) SendLines(lines []string) error {
	for _, line := range lines {
		if err := b.SendLine(line); err != nil {
			return err
		}
	}
	return nil
}

// CloseFeed closes the keystroke pipe. The engine sees end of input once
// it has consumed what was already sent. Safe to call more than once.
func (b *Bridge) CloseFeed() error {
	b.feedOnce.Do(func() {
		b.feedErr = b.feedW.Close()
	})
	return b.feedErr
}

// CloseInput closes the descriptor the engine writes to, which ends the
// drain once buffered output has been consumed. Safe to call more than
// once.
func (b *Bridge) CloseInput() error {
	b.inputOnce.Do(func() {
		log.Debug().Msg("bridge close input")
		b.inputErr = b.outW.Close()
	})
	return b.inputErr
}

// Join blocks until the drain goroutine has finished. It may be called
// any number of times.
func (b *Bridge) Join() {
	<-b.done
}

// Close shuts down both directions and releases every descriptor.
func (b *Bridge) Close() error {
	b.closeOnce.Do(func() {
		var errs []error
		errs = append(errs, b.CloseFeed(), b.CloseInput())
		b.Join()
		errs = append(errs, b.outR.Close(), b.feedR.Close())
		for _, err := range errs {
			if err != nil {
				b.closeErr = err
				break
			}
		}
	})
	return b.closeErr
}

// Output returns everything the drain has collected so far.
func (b *Bridge) Output() string {
	return b.sink.String()
}

// Screen returns the virtual terminal, or nil when Options.Screen was not
// set.
func (b *Bridge) Screen() *screen.Screen {
	return b.sink.Screen()
}

// Package editor implements a multi-line line editor on top of the
// engine package. An Editor accumulates physical lines into one logical
// command, asking a CompletionPredicate whether the command is finished,
// and switches between a single-line and a multi-line keymap.
package editor

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-errors/errors"
	"github.com/rs/zerolog/log"

	"github.com/abdullathedruid/editline/internal/bridge"
	"github.com/abdullathedruid/editline/internal/config"
	"github.com/abdullathedruid/editline/internal/engine"
	"github.com/abdullathedruid/editline/internal/history"
	"github.com/abdullathedruid/editline/internal/keymap"
)

// Editor is a line editor bound to one input and one output stream.
// Its methods must be called from a single goroutine.
type Editor struct {
	name    string
	session *engine.Session
	bridge  *bridge.Bridge
	ctl     *controller

	predicate CompletionPredicate
	completer Completer
	history   engine.History
	acc       *accumulator

	// broken is set once the streams failed; every later read returns it.
	broken error
}

// New creates an editor reading keystrokes from in and rendering to out.
// The bell goes to errOut, or to out when errOut is nil. The editor
// starts in SingleLine mode.
func New(name string, in io.Reader, out, errOut io.Writer, useColor bool) *Editor {
	e := &Editor{
		name:    name,
		session: engine.NewSession(name, in, out, errOut, useColor),
	}
	e.ctl = newController(e.session)
	e.registerCommands()
	return e
}

// NewWithBridge creates an editor whose streams are the two ends of b.
// CloseInput and Join delegate to b.
func NewWithBridge(name string, b *bridge.Bridge, useColor bool) *Editor {
	e := New(name, b.EngineInput(), b.EngineOutput(), b.EngineOutput(), useColor)
	e.bridge = b
	return e
}

// Open creates a headless editor behind a new bridge and applies cfg.
func Open(cfg *config.Config) (*Editor, error) {
	transport, err := bridge.ParseTransport(cfg.Transport)
	if err != nil {
		return nil, err
	}
	b, err := bridge.Open(bridge.Options{Transport: transport, Screen: true})
	if err != nil {
		return nil, err
	}

	e := NewWithBridge(cfg.Name, b, cfg.UseColor(false))
	if err := e.Apply(cfg); err != nil {
		b.Close()
		return nil, err
	}
	return e, nil
}

// Apply sets prompts, extra key bindings, history and mode from cfg. A
// key mapped to ed-unassigned removes the default binding of that key.
func (e *Editor) Apply(cfg *config.Config) error {
	e.SetPrompt(cfg.Prompt)
	e.SetContinuationPrompt(cfg.ContinuationPrompt)

	for _, mode := range keymap.Modes {
		for key, action := range cfg.Keys.ForMode(mode) {
			seq, err := config.ParseKey(key)
			if err != nil {
				return errors.WrapPrefix(err, "key "+key, 0)
			}
			if action == keymap.ActionUnassigned {
				err = e.ctl.UnbindSequence(mode, seq)
			} else {
				err = e.BindSequence(mode, seq, action)
			}
			if err != nil {
				return errors.WrapPrefix(err, "key "+key, 0)
			}
		}
	}

	store := history.NewStore(cfg.HistoryPath(), cfg.HistorySize)
	if err := store.Load(); err != nil {
		return err
	}
	e.SetHistory(store)

	return e.Configure(cfg.EditorMode())
}

// Name returns the editor name.
func (e *Editor) Name() string {
	return e.name
}

// Session returns the underlying engine session.
func (e *Editor) Session() *engine.Session {
	return e.session
}

// Bridge returns the bridge, or nil when the editor runs on plain streams.
func (e *Editor) Bridge() *bridge.Bridge {
	return e.bridge
}

// SetPrompt sets the prompt of the first line.
func (e *Editor) SetPrompt(prompt string) {
	e.session.SetPrompt(prompt)
}

// SetContinuationPrompt sets the prompt of the following lines.
func (e *Editor) SetContinuationPrompt(prompt string) {
	e.session.SetContinuationPrompt(prompt)
}

// SetCompletionPredicate installs f. A nil predicate treats every line
// as complete.
func (e *Editor) SetCompletionPredicate(f CompletionPredicate) {
	e.predicate = f
}

// SetCompleter installs the candidate source used by el-complete.
func (e *Editor) SetCompleter(c Completer) {
	e.completer = c
}

// SetHistory installs the history used for recall. Completed reads are
// added to it.
func (e *Editor) SetHistory(h engine.History) {
	e.history = h
	e.session.SetHistory(h)
}

// History returns the installed history.
func (e *Editor) History() engine.History {
	return e.history
}

// Configure switches to mode.
func (e *Editor) Configure(mode keymap.Mode) error {
	return e.ctl.Configure(mode)
}

// Mode returns the active mode.
func (e *Editor) Mode() keymap.Mode {
	return e.ctl.Mode()
}

// Reading reports whether a read is in progress.
func (e *Editor) Reading() bool {
	return e.ctl.reading.Load()
}

// Bind binds the key sequence written in notation to action in mode.
func (e *Editor) Bind(mode keymap.Mode, notation, action string) error {
	return e.ctl.Bind(mode, notation, action)
}

// BindSequence binds a raw key sequence to action in mode.
func (e *Editor) BindSequence(mode keymap.Mode, seq keymap.Sequence, action string) error {
	return e.ctl.BindSequence(mode, seq, action)
}

// DumpBindings lists the bindings of mode sorted by sequence.
func (e *Editor) DumpBindings(mode keymap.Mode) string {
	return e.ctl.Dump(mode)
}

// Unbind removes the binding of the key sequence written in notation
// from mode.
func (e *Editor) Unbind(mode keymap.Mode, notation string) error {
	seq, err := keymap.ParseSequence(notation)
	if err != nil {
		return err
	}
	return e.ctl.UnbindSequence(mode, seq)
}

// PrintBindings writes the active bindings to the output stream. With
// arguments, only the binding of each given sequence is written.
func (e *Editor) PrintBindings(notations ...string) error {
	var out string
	if len(notations) == 0 {
		out = e.session.DumpBindings()
	} else {
		var b strings.Builder
		for _, n := range notations {
			line, err := e.session.DumpBinding(n)
			if err != nil {
				return err
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
		out = b.String()
	}
	return e.session.WriteString(strings.ReplaceAll(out, "\n", "\r\n"))
}

// PrintKeyNames writes the bindings of the active mode with every
// sequence spelled the way config files name keys, e.g. "ctrl+w".
func (e *Editor) PrintKeyNames() error {
	km := e.ctl.table.Keymap(e.Mode())
	var b strings.Builder
	for _, binding := range km.Bindings() {
		fmt.Fprintf(&b, "%-16s %s\r\n", config.KeyToString(binding.Keys), binding.Action)
	}
	return e.session.WriteString(b.String())
}

// ReadLine reads one line in SingleLine mode. interrupted is set when
// the read was cancelled or input ended without text.
func (e *Editor) ReadLine() (line string, interrupted bool, err error) {
	if e.Mode() != keymap.SingleLine {
		return "", false, ErrModeMismatch
	}
	lines, interrupted, err := e.read(0)
	if len(lines) > 0 {
		line = lines[0]
	}
	return line, interrupted, err
}

// ReadLogicalLines reads one logical command. In MultiLine mode lines are
// collected until the completion predicate accepts them. When start is
// positive every prompt is prefixed with its line number, counting from
// start.
func (e *Editor) ReadLogicalLines(start int) ([]string, bool, error) {
	return e.read(start)
}

func (e *Editor) read(start int) ([]string, bool, error) {
	if e.broken != nil {
		return nil, true, e.broken
	}
	if !e.ctl.beginRead() {
		return nil, false, ErrReadInProgress
	}
	defer e.ctl.endRead()

	e.session.SetLineNumbers(start)
	e.acc = newAccumulator(e, e.Mode())
	lines, interrupted, err := e.acc.run()
	e.acc = nil

	if err != nil {
		if errors.Is(err, ErrChannelClosed) {
			e.broken = err
		}
		log.Debug().Str("session", e.name).Err(err).Msg("read failed")
		return lines, interrupted, err
	}

	if !interrupted && e.history != nil {
		if entry := strings.Join(lines, "\n"); strings.TrimSpace(entry) != "" {
			if err := e.history.Add(entry); err != nil {
				log.Debug().Str("session", e.name).Err(err).Msg("history add failed")
			}
		}
	}
	return lines, interrupted, nil
}

// CloseInput closes the output side of the bridge so the drain can
// finish. It is a no-op without a bridge.
func (e *Editor) CloseInput() error {
	if e.bridge == nil {
		return nil
	}
	return e.bridge.CloseInput()
}

// Join waits until everything written by the editor has been drained.
func (e *Editor) Join() {
	if e.bridge != nil {
		e.bridge.Join()
	}
}

// Close releases the bridge.
func (e *Editor) Close() error {
	if e.bridge == nil {
		return nil
	}
	return e.bridge.Close()
}

package editor

import (
	"sync"
	"sync/atomic"

	"github.com/go-errors/errors"
	"github.com/rs/zerolog/log"

	"github.com/abdullathedruid/editline/internal/engine"
	"github.com/abdullathedruid/editline/internal/keymap"
)

// controller owns the binding table and decides which of its keymaps the
// engine dispatches through.
type controller struct {
	mu      sync.RWMutex
	mode    keymap.Mode
	table   *keymap.Table
	session *engine.Session
	reading atomic.Bool
}

func newController(session *engine.Session) *controller {
	c := &controller{
		mode:    keymap.SingleLine,
		table:   keymap.NewTable(),
		session: session,
	}
	session.ActivateBindingSet(c.table.Keymap(c.mode))
	return c
}

// Mode returns the active mode.
func (c *controller) Mode() keymap.Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// Configure installs the keymap of mode into the engine. Calling it with
// the active mode reinstalls the same keymap.
func (c *controller) Configure(mode keymap.Mode) error {
	if !mode.Valid() {
		return errors.WrapPrefix(keymap.ErrUnknownMode, mode.String(), 0)
	}
	if c.reading.Load() {
		return ErrReadInProgress
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.mode
	c.mode = mode
	c.session.ActivateBindingSet(c.table.Keymap(mode))
	log.Debug().Str("session", c.session.Name()).Stringer("from", prev).Stringer("to", mode).Msg("mode configured")
	return nil
}

// Bind parses notation and binds it in mode.
func (c *controller) Bind(mode keymap.Mode, notation, action string) error {
	seq, err := c.session.ValidateBinding(notation, action)
	if err != nil {
		return err
	}
	return c.BindSequence(mode, seq, action)
}

// BindSequence binds a raw sequence in mode.
func (c *controller) BindSequence(mode keymap.Mode, seq keymap.Sequence, action string) error {
	if !c.session.HasFunction(action) {
		return errors.WrapPrefix(ErrUnknownAction, action, 0)
	}
	if mode == c.Mode() && c.reading.Load() {
		return ErrReadInProgress
	}
	return c.table.Bind(mode, seq, action)
}

// UnbindSequence removes the binding of seq from mode. Removing a
// sequence that is not bound succeeds.
func (c *controller) UnbindSequence(mode keymap.Mode, seq keymap.Sequence) error {
	if !mode.Valid() {
		return errors.WrapPrefix(keymap.ErrUnknownMode, mode.String(), 0)
	}
	if mode == c.Mode() && c.reading.Load() {
		return ErrReadInProgress
	}
	if c.table.Unbind(mode, seq) {
		log.Debug().Str("session", c.session.Name()).Stringer("mode", mode).Str("keys", seq.String()).Msg("binding removed")
	}
	return nil
}

// Dump lists the bindings of mode.
func (c *controller) Dump(mode keymap.Mode) string {
	return c.table.Dump(mode)
}

// beginRead marks a read as running. It fails if one already is.
func (c *controller) beginRead() bool {
	return c.reading.CompareAndSwap(false, true)
}

func (c *controller) endRead() {
	c.reading.Store(false)
}

package editor

import (
	"github.com/go-errors/errors"

	"github.com/abdullathedruid/editline/internal/engine"
	"github.com/abdullathedruid/editline/internal/keymap"
)

var (
	// ErrInvalidKeySequence rejects a single Bind call.
	ErrInvalidKeySequence = keymap.ErrInvalidKeySequence
	// ErrUnknownAction rejects a Bind to an action with no command.
	ErrUnknownAction = engine.ErrUnknownAction
	// ErrPredicateFailure is returned when the completion predicate panics.
	// The partial input is discarded; the editor stays usable.
	ErrPredicateFailure = errors.New("completion predicate failed")
	// ErrChannelClosed is returned when the input or output stream fails
	// outside of the normal shutdown sequence. Later reads fail with it.
	ErrChannelClosed = errors.New("channel closed")
	// ErrReadInProgress is returned by Configure and Bind on the active
	// mode while a read is running.
	ErrReadInProgress = errors.New("read in progress")
	// ErrModeMismatch is returned by ReadLine in multi-line mode.
	ErrModeMismatch = errors.New("read does not match the configured mode")
)

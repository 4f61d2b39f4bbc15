package editor

import (
	"fmt"
	"slices"

	"github.com/go-errors/errors"
	"github.com/rs/zerolog/log"
)

// CompletionPredicate decides whether the lines entered so far form a
// complete command. It receives a copy of the lines and is never called
// with zero lines.
type CompletionPredicate func(ed *Editor, lines []string) bool

// evaluate consults the predicate. A panic inside the predicate is
// reported as ErrPredicateFailure.
func (e *Editor) evaluate(lines []string) (ok bool, err error) {
	if e.predicate == nil {
		return true, nil
	}

	defer func() {
		if r := recover(); r != nil {
			log.Debug().Str("session", e.name).Interface("panic", r).Msg("completion predicate panicked")
			ok = false
			err = errors.WrapPrefix(ErrPredicateFailure, fmt.Sprintf("completion predicate: %v", r), 0)
		}
	}()
	return e.predicate(e, slices.Clone(lines)), nil
}

// BraceBalanced reports whether at least one '{' was entered and every
// '{' has been closed.
func BraceBalanced(_ *Editor, lines []string) bool {
	opened := 0
	balance := 0
	for _, line := range lines {
		for _, ch := range line {
			switch ch {
			case '{':
				opened++
				balance++
			case '}':
				balance--
			}
		}
	}
	return opened > 0 && balance == 0
}

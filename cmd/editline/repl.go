package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-errors/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/abdullathedruid/editline/internal/config"
	"github.com/abdullathedruid/editline/internal/editor"
	"github.com/abdullathedruid/editline/internal/history"
	"github.com/abdullathedruid/editline/internal/keymap"
)

var replCommands = []string{":bindings", ":help", ":history", ":mode", ":quit", ":unbind"}

const replHelp = `Lines are collected until every '{' is closed.
  :bindings          list the active key bindings
  :history [clear]   list or clear the history
  :mode <mode>       switch to single-line or multi-line
  :quit              exit (also ^D on an empty line)
  :unbind <key>...   remove key bindings from the current mode
`

func runREPL() error {
	if err := setupLogging(); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	fd := int(os.Stdin.Fd())
	isTTY := term.IsTerminal(fd)
	if isTTY {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer term.Restore(fd, state)
	}

	ed := editor.New(cfg.Name, os.Stdin, os.Stdout, os.Stderr, cfg.UseColor(isTTY))
	if err := ed.Apply(cfg); err != nil {
		return err
	}
	ed.SetCompletionPredicate(bracesClosed)
	ed.SetCompleter(completeCommand)

	if store, ok := ed.History().(*history.Store); ok && store.Path() != "" {
		w, err := store.Watch()
		if err != nil {
			log.Debug().Err(err).Msg("history watch disabled")
		} else {
			defer w.Stop()
			w.OnReload(func(s *history.Store) {
				log.Debug().Int("entries", s.Len()).Msg("history reloaded")
			})
		}
	}

	r := &repl{ed: ed, out: os.Stdout}
	start := 0
	if cfg.LineNumbers {
		start = 1
	}

	for {
		lines, interrupted, err := ed.ReadLogicalLines(start)
		switch {
		case errors.Is(err, editor.ErrPredicateFailure):
			r.printf("%v\n", err)
			continue
		case err != nil:
			return err
		case interrupted && len(lines) == 0:
			return nil
		case interrupted:
			// Input ended inside an unfinished command.
			r.printf("incomplete input discarded (%d lines)\n", len(lines))
			return nil
		}

		if quit := r.handle(lines); quit {
			return nil
		}
	}
}

type repl struct {
	ed  *editor.Editor
	out io.Writer
}

// printf writes to the terminal, which is in raw mode.
func (r *repl) printf(format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	io.WriteString(r.out, strings.ReplaceAll(s, "\n", "\r\n"))
}

func (r *repl) handle(lines []string) (quit bool) {
	fields := strings.Fields(strings.Join(lines, " "))
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":help":
		r.printf("%s", replHelp)
	case ":bindings":
		if err := r.ed.PrintBindings(fields[1:]...); err != nil {
			r.printf("%v\n", err)
		}
	case ":history":
		store, ok := r.ed.History().(*history.Store)
		if !ok {
			break
		}
		if len(fields) > 1 && fields[1] == "clear" {
			if err := store.Clear(); err != nil {
				r.printf("%v\n", err)
			}
			break
		}
		for i, entry := range store.Entries() {
			r.printf("%4d  %s\n", i+1, strings.ReplaceAll(entry, "\n", "\n      "))
		}
	case ":mode":
		if len(fields) < 2 {
			r.printf("%s\n", r.ed.Mode())
			break
		}
		mode, err := keymap.ParseMode(fields[1])
		if err == nil {
			err = r.ed.Configure(mode)
		}
		if err != nil {
			r.printf("%v\n", err)
		}
	case ":unbind":
		for _, key := range fields[1:] {
			seq, err := config.ParseKey(key)
			if err == nil {
				err = r.ed.Unbind(r.ed.Mode(), octalNotation(seq))
			}
			if err != nil {
				r.printf("%v\n", err)
			}
		}
	default:
		r.printf("=> %d line(s)\n%s\n", len(lines), strings.Join(lines, "\n"))
	}
	return false
}

// bracesClosed accepts a command once no '{' is left open.
func bracesClosed(_ *editor.Editor, lines []string) bool {
	balance := 0
	for _, line := range lines {
		balance += strings.Count(line, "{") - strings.Count(line, "}")
	}
	return balance <= 0
}

func completeCommand(word string) []string {
	var out []string
	for _, c := range replCommands {
		if strings.HasPrefix(c, word) {
			out = append(out, c)
		}
	}
	return out
}

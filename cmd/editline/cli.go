package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/abdullathedruid/editline/internal/config"
	"github.com/abdullathedruid/editline/internal/editor"
	"github.com/abdullathedruid/editline/internal/keymap"
	"github.com/abdullathedruid/editline/internal/version"
)

// Options are the command line flags.
type Options struct {
	Config      string `short:"c" long:"config" description:"Config file (default: $XDG_CONFIG_HOME/editline/config.yaml)" value-name:"<file>"`
	Mode        string `short:"m" long:"mode" choice:"single-line" choice:"multi-line" description:"Editing mode, overrides the config file"`
	LineNumbers bool   `short:"n" long:"line-numbers" description:"Number the lines of multi-line input"`
	LogFile     string `short:"l" long:"log-file" description:"Write debug logs to this file (otherwise logs are dropped)" value-name:"<file>"`
	LogPretty   bool   `short:"p" long:"log-pretty" description:"Prettify logs written to the log file"`
	Version     bool   `short:"v" long:"version" description:"Show the program version"`

	BindingsCommand BindingsCommand `command:"bindings" description:"Print the key bindings of the configured mode"`
	VersionCommand  VersionCommand  `command:"version" description:"Show the program version"`
}

var opts Options

// VersionCommand prints the version.
type VersionCommand struct{}

// Execute is called by go-flags when `version` is given.
func (c *VersionCommand) Execute(args []string) error {
	printVersion()
	return nil
}

func printVersion() {
	fmt.Println(version.String())
}

// BindingsCommand prints the bindings of the selected mode, or only those
// of the given keys. The editor runs headless behind the configured
// transport and its output is copied to stdout.
type BindingsCommand struct {
	Names bool `long:"names" description:"Spell keys the way the config file names them"`
	Args  struct {
		Keys []string `positional-arg-name:"key" description:"Key to describe, e.g. ctrl+w or \\e[A"`
	} `positional-args:"yes"`
}

// Execute is called by go-flags when `bindings` is given.
func (c *BindingsCommand) Execute(args []string) error {
	if err := setupLogging(); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.HistoryFile = "-"

	out, err := printBindings(cfg, c.Names, c.Args.Keys)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// printBindings renders the bindings through a headless editor and
// returns what it wrote, with line endings restored.
func printBindings(cfg *config.Config, names bool, keys []string) (string, error) {
	ed, err := editor.Open(cfg)
	if err != nil {
		return "", err
	}
	defer ed.Close()

	notations := make([]string, 0, len(keys))
	for _, key := range keys {
		seq, err := config.ParseKey(key)
		if err != nil {
			return "", err
		}
		notations = append(notations, octalNotation(seq))
	}

	switch {
	case len(notations) > 0:
		err = ed.PrintBindings(notations...)
	case names:
		err = ed.PrintKeyNames()
	default:
		err = ed.PrintBindings()
	}
	if err != nil {
		return "", err
	}

	if err := ed.CloseInput(); err != nil {
		return "", err
	}
	ed.Join()
	return strings.ReplaceAll(ed.Bridge().Output(), "\r\n", "\n"), nil
}

// octalNotation spells every byte of seq as an octal escape so that
// bytes like '^' and '\\' survive ParseSequence unchanged.
func octalNotation(seq keymap.Sequence) string {
	var b strings.Builder
	for i := 0; i < len(seq); i++ {
		fmt.Fprintf(&b, "\\%03o", seq[i])
	}
	return b.String()
}

// loadConfig reads the config file and applies the command line
// overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.Config != "" {
		cfg, err = config.LoadFile(opts.Config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.Mode != "" {
		cfg.Mode = opts.Mode
	}
	if opts.LineNumbers {
		cfg.LineNumbers = true
	}
	return cfg, nil
}

// setupLogging points the global logger at the log file, or drops logs.
func setupLogging() error {
	if opts.LogFile == "" {
		log.Logger = zerolog.Nop()
		return nil
	}

	file, err := os.OpenFile(opts.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	var w io.Writer = file
	if opts.LogPretty {
		w = zerolog.ConsoleWriter{Out: file}
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(w).With().Timestamp().Caller().Logger()
	return nil
}

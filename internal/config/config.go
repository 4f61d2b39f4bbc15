// Package config handles editor configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/abdullathedruid/editline/internal/bridge"
	"github.com/abdullathedruid/editline/internal/history"
	"github.com/abdullathedruid/editline/internal/keymap"
)

// Color modes.
const (
	ColorNever  = "never"
	ColorAlways = "always"
	ColorAuto   = "auto"
)

// Config holds editor configuration.
type Config struct {
	// DataDir is the directory for the config file and history
	DataDir string `yaml:"-"`

	// Name identifies the editor instance (used for the history file name)
	Name string `yaml:"name"`

	// Prompt is shown before the first line of input
	Prompt string `yaml:"prompt"`

	// ContinuationPrompt is shown before every following line
	ContinuationPrompt string `yaml:"continuation_prompt"`

	// Color selects prompt coloring: never, always or auto
	Color string `yaml:"color"`

	// Mode is single-line or multi-line
	Mode string `yaml:"mode"`

	// LineNumbers prefixes multi-line prompts with line numbers
	LineNumbers bool `yaml:"line_numbers"`

	// HistoryFile overrides the history location; "-" disables persistence
	HistoryFile string `yaml:"history_file"`

	// HistorySize is the number of history entries kept
	HistorySize int `yaml:"history_size"`

	// Transport selects how the headless bridge connects output (auto, pty, pipe)
	Transport string `yaml:"transport"`

	// Keys contains additional key bindings per mode
	Keys KeyBindings `yaml:"keys"`
}

// KeyBindings maps keys to action names for each mode. Keys use the
// names understood by ParseKey.
type KeyBindings struct {
	SingleLine map[string]string `yaml:"single_line"`
	MultiLine  map[string]string `yaml:"multi_line"`
}

// ForMode returns the bindings of mode.
func (k KeyBindings) ForMode(mode keymap.Mode) map[string]string {
	if mode.IsMultiLine() {
		return k.MultiLine
	}
	return k.SingleLine
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		DataDir:            defaultDataDir(),
		Name:               "editline",
		Prompt:             "> ",
		ContinuationPrompt: ". ",
		Color:              ColorAuto,
		Mode:               keymap.MultiLine.String(),
		LineNumbers:        false,
		HistorySize:        500,
		Transport:          string(bridge.TransportAuto),
		Keys: KeyBindings{
			SingleLine: map[string]string{},
			MultiLine:  map[string]string{},
		},
	}
}

// Load loads configuration from the config file, falling back to defaults.
func Load() (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(cfg.ConfigFile(), true); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads configuration from path on top of the defaults. Unlike
// Load, a missing file is an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path, false); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			// Config file doesn't exist, use defaults
			return nil
		}
		return err
	}

	// Parse YAML into a temporary struct to merge with defaults
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	// Merge file config with defaults (file values override defaults)
	mergeConfig(c, &fileCfg)

	return c.Validate()
}

// Validate checks enumerated settings and key bindings.
func (c *Config) Validate() error {
	if _, err := keymap.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := bridge.ParseTransport(c.Transport); err != nil {
		return err
	}
	switch c.Color {
	case ColorNever, ColorAlways, ColorAuto:
	default:
		return fmt.Errorf("invalid color mode: %s", c.Color)
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("invalid history size: %d", c.HistorySize)
	}
	return ValidateKeys(&c.Keys)
}

// mergeConfig merges file configuration into the default configuration.
// Only non-zero values from file are applied.
func mergeConfig(dst, src *Config) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Prompt != "" {
		dst.Prompt = src.Prompt
	}
	if src.ContinuationPrompt != "" {
		dst.ContinuationPrompt = src.ContinuationPrompt
	}
	if src.Color != "" {
		dst.Color = src.Color
	}
	if src.Mode != "" {
		dst.Mode = src.Mode
	}
	if src.LineNumbers {
		dst.LineNumbers = true
	}
	if src.HistoryFile != "" {
		dst.HistoryFile = src.HistoryFile
	}
	if src.HistorySize != 0 {
		dst.HistorySize = src.HistorySize
	}
	if src.Transport != "" {
		dst.Transport = src.Transport
	}

	// Merge keybindings
	mergeKeyBindings(&dst.Keys, &src.Keys)
}

// mergeKeyBindings merges keybindings from src into dst.
func mergeKeyBindings(dst, src *KeyBindings) {
	if dst.SingleLine == nil {
		dst.SingleLine = map[string]string{}
	}
	if dst.MultiLine == nil {
		dst.MultiLine = map[string]string{}
	}
	for key, action := range src.SingleLine {
		dst.SingleLine[key] = action
	}
	for key, action := range src.MultiLine {
		dst.MultiLine[key] = action
	}
}

// defaultDataDir returns the default data directory.
func defaultDataDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "editline")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".editline"
	}
	return filepath.Join(home, ".config", "editline")
}

// EditorMode returns the parsed Mode.
func (c *Config) EditorMode() keymap.Mode {
	mode, err := keymap.ParseMode(c.Mode)
	if err != nil {
		return keymap.SingleLine
	}
	return mode
}

// UseColor resolves the color mode. isTerminal is consulted for auto.
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return isTerminal && os.Getenv("NO_COLOR") == ""
}

// HistoryPath returns the history file, or "" when persistence is off.
func (c *Config) HistoryPath() string {
	switch c.HistoryFile {
	case "-":
		return ""
	case "":
		return history.FileName(c.DataDir, c.Name)
	}
	return c.HistoryFile
}

// ConfigFile returns the path to the config file.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "config.yaml")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}

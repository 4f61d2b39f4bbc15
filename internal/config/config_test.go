package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdullathedruid/editline/internal/keymap"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	if cfg.Prompt != "> " {
		t.Errorf("Prompt = %q, want '> '", cfg.Prompt)
	}
	if cfg.ContinuationPrompt != ". " {
		t.Errorf("ContinuationPrompt = %q, want '. '", cfg.ContinuationPrompt)
	}
	if cfg.EditorMode() != keymap.MultiLine {
		t.Errorf("EditorMode() = %v, want multi-line", cfg.EditorMode())
	}
	if cfg.HistorySize != 500 {
		t.Errorf("HistorySize = %d, want 500", cfg.HistorySize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	dir := defaultDataDir()
	if dir != "/custom/config/editline" {
		t.Errorf("with XDG_CONFIG_HOME: got %q, want '/custom/config/editline'", dir)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	dir = defaultDataDir()
	if !strings.HasSuffix(dir, ".config/editline") {
		t.Errorf("without XDG_CONFIG_HOME: got %q, expected to end with '.config/editline'", dir)
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := &Config{DataDir: "/test/data", Name: "gtest editor"}

	if got := cfg.HistoryPath(); got != "/test/data/gtest-editor.history" {
		t.Errorf("HistoryPath() = %q, want %q", got, "/test/data/gtest-editor.history")
	}

	cfg.HistoryFile = "/elsewhere/h"
	if got := cfg.HistoryPath(); got != "/elsewhere/h" {
		t.Errorf("HistoryPath() = %q, want %q", got, "/elsewhere/h")
	}

	cfg.HistoryFile = "-"
	if got := cfg.HistoryPath(); got != "" {
		t.Errorf("HistoryPath() = %q, want empty", got)
	}
}

func TestUseColor(t *testing.T) {
	tests := []struct {
		color      string
		isTerminal bool
		want       bool
	}{
		{ColorAlways, false, true},
		{ColorNever, true, false},
		{ColorAuto, false, false},
	}

	for _, tt := range tests {
		cfg := &Config{Color: tt.color}
		if got := cfg.UseColor(tt.isTerminal); got != tt.want {
			t.Errorf("UseColor(%v) with %q = %v, want %v", tt.isTerminal, tt.color, got, tt.want)
		}
	}
}

func TestEnsureDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "editline-test", "data")
	cfg := &Config{DataDir: dataDir}

	if err := cfg.EnsureDataDir(); err != nil {
		t.Fatalf("EnsureDataDir() error: %v", err)
	}

	info, err := os.Stat(dataDir)
	if err != nil {
		t.Fatalf("data dir does not exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("data dir is not a directory")
	}

	// Should be idempotent
	if err := cfg.EnsureDataDir(); err != nil {
		t.Errorf("second EnsureDataDir() error: %v", err)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.Prompt != "> " {
		t.Errorf("cfg.Prompt = %q, want %q", cfg.Prompt, "> ")
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dataDir := filepath.Join(xdg, "editline")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatal(err)
	}

	configContent := `prompt: "(lldb) "
mode: single-line
color: never
history_size: 50
keys:
  single_line:
    ctrl+x: ed-kill-line
  multi_line:
    alt+enter: el-break-line
`
	if err := os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Prompt != "(lldb) " {
		t.Errorf("cfg.Prompt = %q, want %q", cfg.Prompt, "(lldb) ")
	}
	// Not in the file, kept from defaults
	if cfg.ContinuationPrompt != ". " {
		t.Errorf("cfg.ContinuationPrompt = %q, want %q", cfg.ContinuationPrompt, ". ")
	}
	if cfg.EditorMode() != keymap.SingleLine {
		t.Errorf("cfg.EditorMode() = %v, want single-line", cfg.EditorMode())
	}
	if cfg.HistorySize != 50 {
		t.Errorf("cfg.HistorySize = %d, want 50", cfg.HistorySize)
	}
	if got := cfg.Keys.SingleLine["ctrl+x"]; got != keymap.ActionKillLine {
		t.Errorf("single_line ctrl+x = %q, want %q", got, keymap.ActionKillLine)
	}
	if got := cfg.Keys.ForMode(keymap.MultiLine)["alt+enter"]; got != keymap.ActionBreakLine {
		t.Errorf("multi_line alt+enter = %q, want %q", got, keymap.ActionBreakLine)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "prompt: [unclosed"},
		{"bad mode", "mode: sideways"},
		{"bad color", "color: purple"},
		{"bad transport", "transport: carrier-pigeon"},
		{"bad key", "keys:\n  single_line:\n    ctrl+1: ed-kill-line\n"},
		{"duplicate key", "keys:\n  multi_line:\n    tab: el-complete\n    ctrl+i: el-complete\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Errorf("LoadFile() expected error for %s", tt.name)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile() of a missing file expected error")
	}
}

package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abdullathedruid/editline/internal/keymap"
)

// ValidateKeys checks for invalid key strings and for two spellings of
// the same key within one mode.
func ValidateKeys(keys *KeyBindings) error {
	for _, mode := range keymap.Modes {
		if err := validateModeKeys(mode, keys.ForMode(mode)); err != nil {
			return err
		}
	}
	return nil
}

func validateModeKeys(mode keymap.Mode, bindings map[string]string) error {
	// Build a map of sequence -> key names for duplicate detection
	seqMap := make(map[keymap.Sequence][]string)

	for keyStr, action := range bindings {
		if strings.TrimSpace(action) == "" {
			return fmt.Errorf("%s: empty action for key %q", mode, keyStr)
		}

		// Validate that the key string can be parsed
		seq, err := ParseKey(keyStr)
		if err != nil {
			return fmt.Errorf("%s: invalid key for %s: %w", mode, action, err)
		}
		seqMap[seq] = append(seqMap[seq], keyStr)
	}

	// Check for duplicates
	var duplicates []string
	for seq, names := range seqMap {
		if len(names) > 1 {
			sort.Strings(names)
			duplicates = append(duplicates, fmt.Sprintf("key %q is spelled as: %s", seq.String(), strings.Join(names, ", ")))
		}
	}

	if len(duplicates) > 0 {
		sort.Strings(duplicates)
		return fmt.Errorf("%s: duplicate keybindings found:\n  %s", mode, strings.Join(duplicates, "\n  "))
	}

	return nil
}

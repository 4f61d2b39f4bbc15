// Package history provides line history with optional file persistence.
package history

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultLimit is the number of entries kept when no limit is given.
const DefaultLimit = 500

// Store keeps history entries, oldest first. A Store with an empty path
// lives in memory only.
type Store struct {
	mu      sync.RWMutex
	path    string
	entries []string
	limit   int

	// saveMu orders whole saves. synced is the file content this store
	// last wrote or read, so the watcher can tell its own writes apart.
	saveMu sync.Mutex
	synced string
}

// NewStore creates a new history store backed by path.
func NewStore(path string, limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		path:  path,
		limit: limit,
	}
}

// FileName returns the history file of the named editor inside dir.
func FileName(dir, name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '-'
		}
		return r
	}, name)
	return filepath.Join(dir, name+".history")
}

// Path returns the backing file, or "" for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the entries with the file contents.
func (s *Store) Load() error {
	_, err := s.reload()
	return err
}

// reload reads the file and replaces the entries unless the content is
// what the store already holds. It reports whether the entries changed.
func (s *Store) reload() (bool, error) {
	if s.path == "" {
		return false, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// No history yet
			return false, nil
		}
		return false, err
	}

	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		entries = append(entries, decode(line))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if string(data) == s.synced {
		return false, nil
	}
	s.synced = string(data)
	s.entries = s.trim(entries)
	return true, nil
}

// Save writes the entries to the file. The file is replaced atomically,
// so readers never see a partial history.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	var b strings.Builder
	for _, e := range s.entries {
		b.WriteString(encode(e))
		b.WriteByte('\n')
	}
	data := b.String()
	s.synced = data
	s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Add appends an entry and saves. Blank entries and repeats of the most
// recent entry are ignored.
func (s *Store) Add(entry string) error {
	if strings.TrimSpace(entry) == "" {
		return nil
	}

	s.mu.Lock()
	if n := len(s.entries); n > 0 && s.entries[n-1] == entry {
		s.mu.Unlock()
		return nil
	}
	s.entries = s.trim(append(s.entries, entry))
	s.mu.Unlock()

	return s.Save()
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// At returns entry i, 0 being the oldest. Out of range indexes yield "".
func (s *Store) At(i int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.entries) {
		return ""
	}
	return s.entries[i]
}

// Entries returns a copy of all entries.
func (s *Store) Entries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]string, len(s.entries))
	copy(result, s.entries)
	return result
}

// Clear removes every entry and saves.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
	return s.Save()
}

func (s *Store) trim(entries []string) []string {
	if len(entries) > s.limit {
		entries = entries[len(entries)-s.limit:]
	}
	return entries
}

// Multi-line entries are stored on one line with "\n" and "\\" escaped.
func encode(entry string) string {
	entry = strings.ReplaceAll(entry, `\`, `\\`)
	return strings.ReplaceAll(entry, "\n", `\n`)
}

func decode(line string) string {
	var b strings.Builder
	for i := 0; i < len(line); i++ {
		if line[i] == '\\' && i+1 < len(line) {
			switch line[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(line[i])
	}
	return b.String()
}

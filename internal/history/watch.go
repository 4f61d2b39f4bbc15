package history

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-errors/errors"
	"github.com/rs/zerolog/log"
)

// Watcher reloads a Store when another process rewrites its file.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	once    sync.Once

	mu        sync.Mutex
	callbacks []func(*Store)
}

// Watch starts watching the store's file. The parent directory is
// watched so that editors replacing the file atomically are noticed.
func (s *Store) Watch() (*Watcher, error) {
	if s.path == "" {
		return nil, errors.New("history: in-memory store cannot be watched")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	hw := &Watcher{
		store:   s,
		watcher: w,
		stopCh:  make(chan struct{}),
	}
	go hw.watchLoop()
	return hw, nil
}

// OnReload registers a callback invoked after every reload.
func (w *Watcher) OnReload(cb func(*Store)) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, cb)
	w.mu.Unlock()
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.once.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
	})
}

func (w *Watcher) watchLoop() {
	target := filepath.Clean(w.store.path)
	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.reload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Debug().Err(err).Str("path", target).Msg("history watch error")
		}
	}
}

func (w *Watcher) reload() {
	changed, err := w.store.reload()
	if err != nil {
		log.Debug().Err(err).Str("path", w.store.path).Msg("history reload failed")
		return
	}
	if !changed {
		return
	}
	log.Debug().Str("path", w.store.path).Int("entries", w.store.Len()).Msg("history reloaded")

	w.mu.Lock()
	callbacks := append([]func(*Store){}, w.callbacks...)
	w.mu.Unlock()
	for _, cb := range callbacks {
		cb(w.store)
	}
}

// Package watch reports changes to the directories the panes show. Events
// are delivered as bubbletea messages so panes are only ever touched from
// the program's event loop.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/LFroesch/duet/internal/logger"
)

// ChangedMsg reports that the contents of Dir changed.
type ChangedMsg struct {
	Dir string
}

// Watcher monitors a small set of directories using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	changes   chan string
	stopChan  chan struct{}

	mutex   sync.Mutex
	dirs    map[string]bool
	pending map[string]bool // queued on changes, not yet received
	running bool
}

// New creates a stopped watcher.
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		changes:   make(chan string, 16),
		stopChan:  make(chan struct{}),
		dirs:      make(map[string]bool),
		pending:   make(map[string]bool),
	}, nil
}

// Set replaces the watched directories. Directories that cannot be watched
// are skipped and reported in the returned error; the rest are still set.
func (w *Watcher) Set(dirs ...string) error {
	want := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		want[filepath.Clean(d)] = true
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()

	for d := range w.dirs {
		if !want[d] {
			w.fsWatcher.Remove(d)
			delete(w.dirs, d)
		}
	}

	var firstErr error
	for d := range want {
		if w.dirs[d] {
			continue
		}
		if err := w.fsWatcher.Add(d); err != nil {
			logger.Warn("Cannot watch %s: %v", d, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to watch %s: %w", d, err)
			}
			continue
		}
		w.dirs[d] = true
		logger.Debug("Watching %s", d)
	}
	return firstErr
}

// Dirs returns the directories currently watched.
func (w *Watcher) Dirs() []string {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	out := make([]string, 0, len(w.dirs))
	for d := range w.dirs {
		out = append(out, d)
	}
	return out
}

// Start begins forwarding events.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			// Chmod alone never changes a listing.
			if event.Op == fsnotify.Chmod {
				continue
			}
			w.notify(event.Name)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logger.Error("fsnotify watcher error: %v", err)

		case <-w.stopChan:
			return
		}
	}
}

// notify queues a change for the watched directory containing name. A
// directory already queued is not queued again until it is received.
func (w *Watcher) notify(name string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}
	dir := filepath.Clean(name)
	if !w.dirs[dir] {
		dir = filepath.Dir(dir)
	}
	if !w.dirs[dir] || w.pending[dir] {
		return
	}

	select {
	case w.changes <- dir:
		w.pending[dir] = true
	default:
		logger.Warn("Change queue full, dropped event for %s", dir)
	}
}

// Wait returns a command that blocks until the next change. It yields nil
// once the watcher is stopped.
func (w *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		dir, ok := <-w.changes
		if !ok {
			return nil
		}
		w.mutex.Lock()
		delete(w.pending, dir)
		w.mutex.Unlock()
		return ChangedMsg{Dir: dir}
	}
}

// Stop halts the watcher. A pending Wait then yields nil.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		w.fsWatcher.Close()
		return
	}
	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		logger.Error("Error closing fsnotify watcher: %v", err)
	}
	w.running = false
	close(w.changes)
}

package main

import (
	"slices"

	"github.com/charmbracelet/bubbles/help"

	"github.com/LFroesch/duet/internal/app"
	"github.com/LFroesch/duet/internal/config"
	"github.com/LFroesch/duet/internal/git"
	"github.com/LFroesch/duet/internal/logger"
	"github.com/LFroesch/duet/internal/watch"
)

// Terminal dimension constants
const (
	minTerminalWidth  = 60 // Minimum usable width
	minTerminalHeight = 12 // Minimum usable height
	uiOverhead        = 7  // Header (1) + status (1) + help (1) + borders (2) + pane title (1) + spare (1)
)

type model struct {
	app     *app.App
	config  *config.Config
	watcher *watch.Watcher // nil when watching is off or unavailable
	help    help.Model

	width  int
	height int

	scrollOffset [2]int
	gitDirs      [2]string
	gitStatus    [2]git.Status
}

func newModel(left, right string, cfg *config.Config) (*model, error) {
	a, err := app.New(left, right, cfg, &launcher{config: cfg})
	if err != nil {
		return nil, err
	}

	m := &model{
		app:    a,
		config: cfg,
		help:   help.New(),
	}

	if cfg.Watch {
		m.watcher = startWatcher(a.WatchedDirs())
	}
	m.refreshGit(true)
	return m, nil
}

// startWatcher returns a running watcher for dirs, or nil if fsnotify is
// unavailable. Auto-reload is an extra; the browser runs without it.
func startWatcher(dirs []string) *watch.Watcher {
	w, err := watch.New()
	if err != nil {
		logger.Warn("Auto-reload disabled: %v", err)
		return nil
	}
	if err := w.Set(dirs...); err != nil {
		logger.Warn("Partial watch: %v", err)
	}
	if err := w.Start(); err != nil {
		logger.Warn("Auto-reload disabled: %v", err)
		w.Stop()
		return nil
	}
	return w
}

func (m *model) close() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

// syncPanes follows pane navigation: the watcher gets the new directories
// and git state is looked up again for panes that moved, or for both panes
// when force is set.
func (m *model) syncPanes(force bool) {
	if m.watcher != nil {
		dirs := m.app.WatchedDirs()
		watched := m.watcher.Dirs()
		slices.Sort(dirs)
		slices.Sort(watched)
		if !slices.Equal(slices.Compact(dirs), watched) {
			if err := m.watcher.Set(dirs...); err != nil {
				logger.Warn("Partial watch: %v", err)
			}
		}
	}
	m.refreshGit(force)
}

func (m *model) refreshGit(force bool) {
	for _, side := range []app.Side{app.Left, app.Right} {
		dir := m.app.Pane(side).Path()
		if !force && m.gitDirs[side] == dir {
			continue
		}
		m.gitDirs[side] = dir
		m.gitStatus[side] = git.Lookup(dir)
	}
}

// Safe dimension helpers
func (m *model) getSafeWidth() int {
	if m.width < minTerminalWidth {
		return minTerminalWidth
	}
	return m.width
}

func (m *model) getSafeHeight() int {
	if m.height < minTerminalHeight {
		return minTerminalHeight
	}
	return m.height
}

// getContentHeight returns the number of entry rows a pane can show.
func (m *model) getContentHeight() int {
	h := m.getSafeHeight() - uiOverhead
	if h < 3 {
		return 3
	}
	return h
}

package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/duet/internal/app"
	"github.com/LFroesch/duet/internal/watch"
)

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("duet"),
		m.waitForChange(),
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = m.getSafeWidth()
		return m, nil

	case tea.KeyMsg:
		wasModal := m.app.IsModal()
		cmd := m.app.HandleKey(msg)
		// A dialog that just closed may have changed files; so may a refresh.
		force := (wasModal && !m.app.IsModal()) ||
			(!wasModal && key.Matches(msg, m.app.Keys().Refresh))
		m.syncPanes(force)
		return m, cmd

	case watch.ChangedMsg:
		m.app.ReloadDir(msg.Dir)
		m.refreshGit(true)
		return m, m.waitForChange()

	case app.EditorFinishedMsg:
		m.app.EditorFinished(msg.Err)
		m.syncPanes(true)
		return m, nil
	}

	return m, nil
}

// waitForChange re-arms the watcher after each delivered change.
func (m *model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Wait()
}

package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/skratchdot/open-golang/open"

	"github.com/LFroesch/duet/internal/app"
	"github.com/LFroesch/duet/internal/config"
	"github.com/LFroesch/duet/internal/logger"
	"github.com/LFroesch/duet/internal/utils"
)

var errNoEditor = errors.New("no editor found: set editor in config or $EDITOR")

// launcher runs the processes and system services the browser hands off to.
type launcher struct {
	config *config.Config
}

// EditFile suspends the UI and runs the editor on path in the terminal.
func (l *launcher) EditFile(path string) tea.Cmd {
	argv := editorCommand(l.config)
	if argv == nil {
		return func() tea.Msg { return app.EditorFinishedMsg{Err: errNoEditor} }
	}

	logger.Info("Opening %s with %s", path, argv[0])
	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return app.EditorFinishedMsg{Err: err}
	})
}

// editorCommand returns the first available editor with its arguments:
// the configured one, then $EDITOR, then common terminal editors.
func editorCommand(cfg *config.Config) []string {
	candidates := []string{}
	if cfg.Editor != "" {
		candidates = append(candidates, cfg.Editor)
	}
	if env := os.Getenv("EDITOR"); env != "" {
		candidates = append(candidates, env)
	}
	candidates = append(candidates, "nvim", "vim", "vi", "nano")

	for _, c := range candidates {
		fields := strings.Fields(c)
		if len(fields) > 0 && utils.CommandExists(fields[0]) {
			return fields
		}
	}
	return nil
}

// OpenDefault opens path with the system default application.
func (l *launcher) OpenDefault(path string) error {
	// Use system default opener (handles Linux/macOS/Windows automatically)
	if err := open.Start(path); err != nil {
		logger.Error("Failed to open %s: %v", path, err)
		return err
	}
	return nil
}

func (l *launcher) CopyToClipboard(text string) error {
	// Use clipboard library for cross-platform support
	return clipboard.WriteAll(text)
}

// WriteHandoff leaves dir in the handoff file for the shell wrapper.
func (l *launcher) WriteHandoff(dir string) error {
	path := l.config.HandoffPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("cannot create handoff directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(dir), 0644); err != nil {
		return fmt.Errorf("cannot write handoff file: %w", err)
	}
	logger.Info("Handed off %s via %s", dir, path)
	return nil
}

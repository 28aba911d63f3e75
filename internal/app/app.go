// Package app holds the browser state and turns key presses into pane,
// selection and file operation commands. Rendering lives in package main.
package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/duet/internal/config"
	"github.com/LFroesch/duet/internal/dialog"
	"github.com/LFroesch/duet/internal/fileops"
	"github.com/LFroesch/duet/internal/keys"
	"github.com/LFroesch/duet/internal/listing"
	"github.com/LFroesch/duet/internal/logger"
	"github.com/LFroesch/duet/internal/pane"
	"github.com/LFroesch/duet/internal/selection"
)

// Side picks one of the two panes.
type Side int

const (
	Left Side = iota
	Right
)

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == Left {
		return Right
	}
	return Left
}

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Launcher runs the actions that leave the browser.
type Launcher interface {
	// EditFile returns a command that runs the editor on path in the
	// foreground and reports EditorFinishedMsg.
	EditFile(path string) tea.Cmd
	OpenDefault(path string) error
	CopyToClipboard(text string) error
	// WriteHandoff records dir for the wrapping shell before quitting.
	WriteHandoff(dir string) error
}

// EditorFinishedMsg is sent when the external editor exits.
type EditorFinishedMsg struct {
	Err error
}

// Swapped in tests.
var (
	nowFn    = time.Now
	deleteFn = fileops.Delete
	copyFn   = fileops.Copy
	moveFn   = fileops.Move
)

// App is the whole browser state. It is owned by the event loop and never
// touched concurrently.
type App struct {
	panes     [2]*pane.Pane
	focused   Side
	selection *selection.Set
	dialogs   *dialog.Controller
	keys      keys.KeyMap
	lister    *listing.Lister
	cfg       *config.Config
	launcher  Launcher

	lastKey      string
	statusMsg    string
	statusExpiry time.Time
}

// New creates the browser with the left pane at leftPath and the right pane
// at rightPath.
func New(leftPath, rightPath string, cfg *config.Config, launcher Launcher) (*App, error) {
	lister, err := listing.NewLister(cfg.ShowHidden, cfg.HidePatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid hide pattern: %w", err)
	}

	km := keys.Default()
	a := &App{
		focused:   Left,
		selection: selection.New(),
		dialogs:   dialog.NewController(km),
		keys:      km,
		lister:    lister,
		cfg:       cfg,
		launcher:  launcher,
	}
	a.panes[Left] = pane.New(leftPath, lister)
	a.panes[Right] = pane.New(rightPath, lister)
	logger.Info("Started with left=%s right=%s", a.panes[Left].Path(), a.panes[Right].Path())
	return a, nil
}

// Pane returns the pane on side s.
func (a *App) Pane(s Side) *pane.Pane { return a.panes[s] }

// FocusedSide returns the side receiving pane commands.
func (a *App) FocusedSide() Side { return a.focused }

// Active returns the focused pane.
func (a *App) Active() *pane.Pane { return a.panes[a.focused] }

// Inactive returns the pane that is not focused.
func (a *App) Inactive() *pane.Pane { return a.panes[a.focused.Other()] }

// Selection returns the shared selection.
func (a *App) Selection() *selection.Set { return a.selection }

// Dialog returns the open dialog, or nil.
func (a *App) Dialog() dialog.Dialog { return a.dialogs.Active() }

// IsModal reports whether a dialog owns input.
func (a *App) IsModal() bool { return a.dialogs.IsModal() }

// Keys returns the key bindings.
func (a *App) Keys() keys.KeyMap { return a.keys }

// ShowHidden reports whether dotfiles are listed.
func (a *App) ShowHidden() bool { return a.lister.ShowHidden }

// Status returns the transient status message, or "" once it expired.
func (a *App) Status() string {
	if a.statusMsg != "" && nowFn().After(a.statusExpiry) {
		a.statusMsg = ""
	}
	return a.statusMsg
}

// SetStatus shows msg in the status line for d.
func (a *App) SetStatus(msg string, d time.Duration) {
	a.statusMsg = msg
	a.statusExpiry = nowFn().Add(d)
}

// HandleKey routes one key press. With a dialog open the dialog gets it;
// otherwise it is a normal-mode command.
func (a *App) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if a.dialogs.IsModal() {
		a.lastKey = ""
		out, cmd := a.dialogs.HandleKey(msg)
		if out.Kind == dialog.Submit {
			return tea.Batch(cmd, a.submit(out))
		}
		return cmd
	}
	return a.handleNormalKey(msg)
}

func (a *App) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	prev := a.lastKey
	a.lastKey = msg.String()
	p := a.Active()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit

	case key.Matches(msg, a.keys.Down):
		p.MoveFocus(1)
	case key.Matches(msg, a.keys.Up):
		p.MoveFocus(-1)
	case key.Matches(msg, a.keys.Top):
		if prev == a.lastKey {
			p.FocusFirst()
			a.lastKey = ""
		}
	case key.Matches(msg, a.keys.Bottom):
		p.FocusLast()
	case key.Matches(msg, a.keys.OppositeKind):
		p.JumpToOppositeKind()

	case key.Matches(msg, a.keys.LeftPane):
		a.focused = Left
	case key.Matches(msg, a.keys.RightPane):
		a.focused = Right
	case key.Matches(msg, a.keys.SwitchPane):
		a.focused = a.focused.Other()

	case key.Matches(msg, a.keys.Enter):
		if entry, ok := p.Focused(); ok {
			p.NavigateInto(entry.Name)
		}
	case key.Matches(msg, a.keys.Back):
		p.NavigateUp()
	case key.Matches(msg, a.keys.Home):
		if err := p.NavigateHome(); err != nil {
			a.SetStatus(fmt.Sprintf("No home directory: %v", err), 3*time.Second)
		}

	case key.Matches(msg, a.keys.Toggle):
		if path, ok := p.FocusedPath(); ok {
			a.selection.Toggle(path)
		}
	case key.Matches(msg, a.keys.SelectAll):
		a.toggleSelectAll()

	case key.Matches(msg, a.keys.Delete):
		a.openDelete()
	case key.Matches(msg, a.keys.Copy):
		a.openTransfer(fileops.OpCopy)
	case key.Matches(msg, a.keys.Move):
		a.openTransfer(fileops.OpMove)
	case key.Matches(msg, a.keys.Add):
		a.dialogs.Open(dialog.NewTextInput(dialog.PurposeCreate, "Add File/Directory", p.Path(), ""))
	case key.Matches(msg, a.keys.Rename):
		a.openRename()
	case key.Matches(msg, a.keys.Actions):
		a.dialogs.Open(dialog.NewActionMenu("Select Action", dialog.DefaultActions))
	case key.Matches(msg, a.keys.Find):
		a.dialogs.Open(dialog.NewTextInput(dialog.PurposeFind, "Find", p.Path(), ""))

	case key.Matches(msg, a.keys.ToggleHidden):
		a.toggleHidden()
	case key.Matches(msg, a.keys.Refresh):
		a.ReloadAll()
	}
	return nil
}

// submit carries out the answer of a closed dialog.
func (a *App) submit(out dialog.Outcome) tea.Cmd {
	switch d := out.Dialog.(type) {
	case *dialog.Confirm:
		a.runBatch(d.Batch)
	case *dialog.TextInput:
		switch d.Purpose {
		case dialog.PurposeCreate:
			a.create(d.Target, nameOrEmpty(out.Text))
		case dialog.PurposeRename:
			a.rename(d.Target, nameOrEmpty(out.Text))
		case dialog.PurposeFind:
			a.find(out.Text)
		}
	case *dialog.ActionMenu:
		return a.runAction(out.Action)
	}
	return nil
}

// nameOrEmpty keeps surrounding spaces, which are legal in file names,
// unless the text is nothing but spaces.
func nameOrEmpty(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return text
}

// RefreshAll re-lists both panes with focus back on the first entry.
func (a *App) RefreshAll() {
	a.panes[Left].Refresh()
	a.panes[Right].Refresh()
}

// ReloadAll re-lists both panes keeping focus where it was.
func (a *App) ReloadAll() {
	a.panes[Left].Reload()
	a.panes[Right].Reload()
}

// ReloadDir re-lists every pane showing dir, keeping focus.
func (a *App) ReloadDir(dir string) {
	for _, p := range a.panes {
		if p.Path() == dir {
			p.Reload()
		}
	}
}

// EditorFinished handles the editor exiting.
func (a *App) EditorFinished(err error) {
	if err != nil {
		logger.Error("Editor failed: %v", err)
		a.showError("Editor Failed", err.Error())
	}
	a.ReloadAll()
}

// WatchedDirs returns the directories the panes show.
func (a *App) WatchedDirs() []string {
	return []string{a.panes[Left].Path(), a.panes[Right].Path()}
}

func (a *App) showError(title, details string) {
	a.dialogs.Open(dialog.NewError(title, details))
}

func (a *App) confirmYes() bool {
	return a.cfg.ConfirmDefault != config.ConfirmNo
}

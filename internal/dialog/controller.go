package dialog

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/duet/internal/keys"
)

// OutcomeKind is what a key did to the active dialog.
type OutcomeKind int

const (
	// None: the dialog is still open.
	None OutcomeKind = iota
	// Cancel: the dialog closed without effect.
	Cancel
	// Submit: the dialog closed with an answer.
	Submit
)

// Outcome is the result of routing one key to the active dialog. Dialog is
// the dialog the key was routed to, already closed unless Kind is None.
type Outcome struct {
	Kind   OutcomeKind
	Dialog Dialog
	Text   string // TextInput answer
	Action Action // ActionMenu answer
}

// Controller owns at most one active dialog. Opening a dialog replaces the
// current one; dialogs never stack.
type Controller struct {
	active Dialog
	keys   keys.KeyMap
}

// NewController creates a controller in normal mode.
func NewController(km keys.KeyMap) *Controller {
	return &Controller{keys: km}
}

// Open makes d the active dialog, replacing any other.
func (c *Controller) Open(d Dialog) {
	c.active = d
}

// Close returns to normal mode.
func (c *Controller) Close() {
	c.active = nil
}

// Active returns the open dialog, or nil in normal mode.
func (c *Controller) Active() Dialog {
	return c.active
}

// IsModal reports whether a dialog owns input.
func (c *Controller) IsModal() bool {
	return c.active != nil
}

// HandleKey routes a key to the active dialog. A Cancel or Submit outcome
// has already closed the dialog.
func (c *Controller) HandleKey(msg tea.KeyMsg) (Outcome, tea.Cmd) {
	var (
		out Outcome
		cmd tea.Cmd
	)
	switch d := c.active.(type) {
	case *Confirm:
		out = c.confirmKey(d, msg)
	case *TextInput:
		out, cmd = c.textKey(d, msg)
	case *ActionMenu:
		out = c.menuKey(d, msg)
	case *Error:
		out = Outcome{Kind: Submit}
	default:
		return Outcome{}, nil
	}

	out.Dialog = c.active
	if out.Kind != None {
		c.active = nil
	}
	return out, cmd
}

func (c *Controller) confirmKey(d *Confirm, msg tea.KeyMsg) Outcome {
	switch {
	case key.Matches(msg, c.keys.Up), key.Matches(msg, c.keys.Down), key.Matches(msg, c.keys.NextBtn):
		d.toggleFocus()
	case key.Matches(msg, c.keys.Submit):
		if d.Focus == ButtonYes {
			return Outcome{Kind: Submit}
		}
		return Outcome{Kind: Cancel}
	case key.Matches(msg, c.keys.Yes):
		return Outcome{Kind: Submit}
	case key.Matches(msg, c.keys.No), key.Matches(msg, c.keys.Cancel):
		return Outcome{Kind: Cancel}
	}
	return Outcome{Kind: None}
}

func (c *Controller) textKey(d *TextInput, msg tea.KeyMsg) (Outcome, tea.Cmd) {
	switch {
	case key.Matches(msg, c.keys.Submit):
		return Outcome{Kind: Submit, Text: d.Value()}, nil
	case key.Matches(msg, c.keys.Cancel):
		return Outcome{Kind: Cancel}, nil
	}

	var cmd tea.Cmd
	d.Input, cmd = d.Input.Update(msg)
	return Outcome{Kind: None}, cmd
}

func (c *Controller) menuKey(d *ActionMenu, msg tea.KeyMsg) Outcome {
	switch {
	case key.Matches(msg, c.keys.Up):
		d.move(-1)
	case key.Matches(msg, c.keys.Down):
		d.move(1)
	case key.Matches(msg, c.keys.Submit):
		return Outcome{Kind: Submit, Action: d.Focused()}
	case key.Matches(msg, c.keys.Cancel):
		return Outcome{Kind: Cancel}
	}
	return Outcome{Kind: None}
}

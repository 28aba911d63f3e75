// Package dialog defines the modal dialogs and the controller that owns the
// single active one.
package dialog

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/LFroesch/duet/internal/fileops"
)

// Dialog is one of *Confirm, *TextInput, *ActionMenu or *Error.
type Dialog interface {
	isDialog()
}

// Batch is the operation a Confirm dialog is asking about.
type Batch struct {
	Op      fileops.Op
	Paths   []string
	DestDir string // copy and move only
	Force   bool   // overwrite existing destinations
}

// Button is a Confirm action.
type Button int

const (
	ButtonYes Button = iota
	ButtonNo
)

// Confirm asks yes or no about a batch.
type Confirm struct {
	Title   string
	Message string
	Batch   Batch
	Focus   Button
}

// NewConfirm creates a Confirm dialog with focus on Yes or No.
func NewConfirm(title, message string, batch Batch, focusYes bool) *Confirm {
	focus := ButtonNo
	if focusYes {
		focus = ButtonYes
	}
	return &Confirm{Title: title, Message: message, Batch: batch, Focus: focus}
}

func (c *Confirm) toggleFocus() {
	if c.Focus == ButtonYes {
		c.Focus = ButtonNo
	} else {
		c.Focus = ButtonYes
	}
}

// Purpose says what a TextInput's text is for.
type Purpose int

const (
	PurposeCreate Purpose = iota
	PurposeRename
	PurposeFind
)

// TextInput asks for one line of text.
type TextInput struct {
	Title   string
	Purpose Purpose
	Target  string // directory for create and find, path being renamed
	Input   textinput.Model
}

// NewTextInput creates a focused text field pre-filled with initial.
func NewTextInput(purpose Purpose, title, target, initial string) *TextInput {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 255
	ti.Width = 40
	switch purpose {
	case PurposeCreate:
		ti.Placeholder = "name, or name/ for a directory"
	case PurposeFind:
		ti.Placeholder = "fuzzy name"
	}
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()
	return &TextInput{Title: title, Purpose: purpose, Target: target, Input: ti}
}

// Value returns the entered text as typed.
func (t *TextInput) Value() string {
	return t.Input.Value()
}

// Action is an ActionMenu entry.
type Action int

const (
	ActionOpenTerminal Action = iota
	ActionOpenEditor
	ActionToggleSelectAll
	ActionCopyPath
	ActionOpenDefault
)

func (a Action) String() string {
	switch a {
	case ActionOpenTerminal:
		return "Open in Terminal"
	case ActionOpenEditor:
		return "Open in Editor"
	case ActionToggleSelectAll:
		return "Select/Deselect All"
	case ActionCopyPath:
		return "Copy Path"
	case ActionOpenDefault:
		return "Open with Default App"
	default:
		return "Unknown"
	}
}

// DefaultActions is the action menu in display order.
var DefaultActions = []Action{
	ActionOpenTerminal,
	ActionOpenEditor,
	ActionToggleSelectAll,
	ActionCopyPath,
	ActionOpenDefault,
}

// ActionMenu picks one action from a list.
type ActionMenu struct {
	Title   string
	Actions []Action
	Focus   int
}

// NewActionMenu creates a menu focused on its first action.
func NewActionMenu(title string, actions []Action) *ActionMenu {
	return &ActionMenu{Title: title, Actions: actions}
}

// Focused returns the highlighted action.
func (m *ActionMenu) Focused() Action {
	return m.Actions[m.Focus]
}

func (m *ActionMenu) move(delta int) {
	m.Focus += delta
	if m.Focus < 0 {
		m.Focus = 0
	}
	if m.Focus >= len(m.Actions) {
		m.Focus = len(m.Actions) - 1
	}
}

// Error reports a failure and waits for acknowledgement.
type Error struct {
	Title   string
	Message string
}

// NewError creates an Error dialog.
func NewError(title, message string) *Error {
	return &Error{Title: title, Message: message}
}

func (*Confirm) isDialog()    {}
func (*TextInput) isDialog()  {}
func (*ActionMenu) isDialog() {}
func (*Error) isDialog()      {}

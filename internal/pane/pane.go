// Package pane tracks one directory view: its path, its ordered entries and
// the focused row.
package pane

import (
	"os"
	"path/filepath"

	"github.com/LFroesch/duet/internal/listing"
)

// NoFocus is the focus index of a pane with no entries.
const NoFocus = -1

var userHomeDirFn = os.UserHomeDir

// Lister produces the ordered entries of a directory.
type Lister interface {
	List(path string) []listing.Entry
}

// Pane is one side of the browser. The focus index is always a valid
// index into entries, or NoFocus when entries is empty.
type Pane struct {
	path    string
	entries []listing.Entry
	focus   int
	lister  Lister
}

// New creates a pane at path and lists it.
func New(path string, lister Lister) *Pane {
	p := &Pane{lister: lister, focus: NoFocus}
	p.path = normalize(path)
	p.Refresh()
	return p
}

func normalize(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Path returns the absolute directory the pane shows.
func (p *Pane) Path() string { return p.path }

// Entries returns the current listing. Callers must not modify it.
func (p *Pane) Entries() []listing.Entry { return p.entries }

// FocusIndex returns the focused row, or NoFocus.
func (p *Pane) FocusIndex() int { return p.focus }

// Focused returns the focused entry; ok is false for an empty pane.
func (p *Pane) Focused() (entry listing.Entry, ok bool) {
	if p.focus == NoFocus {
		return listing.Entry{}, false
	}
	return p.entries[p.focus], true
}

// FocusedPath returns the absolute path of the focused real entry.
func (p *Pane) FocusedPath() (string, bool) {
	entry, ok := p.Focused()
	if !ok || !entry.Real() {
		return "", false
	}
	return p.Join(entry.Name), true
}

// Join returns the absolute path of name inside the pane's directory.
func (p *Pane) Join(name string) string {
	return filepath.Join(p.path, name)
}

// Refresh re-lists the directory and resets focus to the first entry.
func (p *Pane) Refresh() {
	p.entries = p.lister.List(p.path)
	if len(p.entries) > 0 {
		p.focus = 0
	} else {
		p.focus = NoFocus
	}
}

// Reload re-lists the directory but keeps focus on the same name when it
// still exists, otherwise on the same row clamped to the new length.
func (p *Pane) Reload() {
	var focusedName string
	if entry, ok := p.Focused(); ok && entry.Real() {
		focusedName = entry.Name
	}
	oldFocus := p.focus

	p.entries = p.lister.List(p.path)
	if len(p.entries) == 0 {
		p.focus = NoFocus
		return
	}
	if focusedName != "" && p.FocusName(focusedName) {
		return
	}
	p.focus = clamp(oldFocus, 0, len(p.entries)-1)
}

// NavigateInto enters the named directory. It reports false and changes
// nothing when the name is missing, a placeholder, or not a directory.
func (p *Pane) NavigateInto(name string) bool {
	for _, e := range p.entries {
		if e.Name != name {
			continue
		}
		if !e.Real() || !e.IsDir {
			return false
		}
		p.path = filepath.Join(p.path, name)
		p.Refresh()
		return true
	}
	return false
}

// NavigateUp moves to the parent directory. At the filesystem root it
// reports false and changes nothing.
func (p *Pane) NavigateUp() bool {
	parent := filepath.Dir(p.path)
	if parent == p.path {
		return false
	}
	p.path = parent
	p.Refresh()
	return true
}

// NavigateHome moves to the user's home directory.
func (p *Pane) NavigateHome() error {
	home, err := userHomeDirFn()
	if err != nil {
		return err
	}
	p.NavigateTo(home)
	return nil
}

// NavigateTo moves to an arbitrary directory. An unreadable target degrades
// to a placeholder listing like any other refresh.
func (p *Pane) NavigateTo(path string) {
	p.path = normalize(path)
	p.Refresh()
}

// MoveFocus shifts focus by delta, clamped to the listing.
func (p *Pane) MoveFocus(delta int) {
	if p.focus == NoFocus {
		return
	}
	p.focus = clamp(p.focus+delta, 0, len(p.entries)-1)
}

// FocusFirst focuses the first entry.
func (p *Pane) FocusFirst() {
	if len(p.entries) > 0 {
		p.focus = 0
	}
}

// FocusLast focuses the last entry.
func (p *Pane) FocusLast() {
	if len(p.entries) > 0 {
		p.focus = len(p.entries) - 1
	}
}

// FocusName focuses the entry with the given name.
func (p *Pane) FocusName(name string) bool {
	for i, e := range p.entries {
		if e.Real() && e.Name == name {
			p.focus = i
			return true
		}
	}
	return false
}

// JumpToOppositeKind focuses the first entry, scanning from the top, whose
// directory/file kind differs from the focused one. Used to hop between the
// directory block and the file block.
func (p *Pane) JumpToOppositeKind() bool {
	current, ok := p.Focused()
	if !ok || !current.Real() {
		return false
	}
	for i, e := range p.entries {
		if e.Real() && e.IsDir != current.IsDir {
			p.focus = i
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

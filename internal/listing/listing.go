// Package listing enumerates one directory into the ordered entries a pane
// shows: directories first, then everything else, each block sorted by name.
package listing

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/gobwas/glob"

	"github.com/LFroesch/duet/internal/logger"
)

// Placeholder texts shown instead of entries when a directory cannot be read.
const (
	PathNotFound     = "Path not found"
	PermissionDenied = "Permission denied"
	NotADirectory    = "Not a directory"
	Unreadable       = "Cannot read directory"
)

// Entry is one listed item. Values are never mutated after List returns them.
type Entry struct {
	Name        string
	IsDir       bool
	Placeholder bool // synthetic failure entry, not a filesystem object
}

// Real reports whether the entry names an actual filesystem object.
func (e Entry) Real() bool {
	return !e.Placeholder
}

// Lister lists directories with a fixed filter.
type Lister struct {
	ShowHidden bool
	hide       []glob.Glob
}

// NewLister compiles the hide patterns. An invalid pattern is an error.
func NewLister(showHidden bool, hidePatterns []string) (*Lister, error) {
	l := &Lister{ShowHidden: showHidden}
	for _, pattern := range hidePatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		l.hide = append(l.hide, g)
	}
	return l, nil
}

// List returns the entries of path in display order. It never fails: an
// unreadable path yields a single placeholder entry describing why.
func (l *Lister) List(path string) []Entry {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		logger.Warn("Cannot list %s: %v", path, err)
		return []Entry{placeholder(err)}
	}

	var dirs, files []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if l.hidden(name) {
			continue
		}

		entry := Entry{Name: name, IsDir: isDir(path, de)}
		if entry.IsDir {
			dirs = append(dirs, entry)
		} else {
			files = append(files, entry)
		}
	}

	sortByName(dirs)
	sortByName(files)

	entries := make([]Entry, 0, len(dirs)+len(files))
	entries = append(entries, dirs...)
	return append(entries, files...)
}

func (l *Lister) hidden(name string) bool {
	if !l.ShowHidden && strings.HasPrefix(name, ".") {
		return true
	}
	for _, g := range l.hide {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// isDir follows symlinks, so a link to a directory lists as a directory.
func isDir(dir string, de os.DirEntry) bool {
	if de.Type()&fs.ModeSymlink == 0 {
		return de.IsDir()
	}
	info, err := os.Stat(filepath.Join(dir, de.Name()))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Byte-wise comparison keeps the order locale independent.
func sortByName(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
}

func placeholder(err error) Entry {
	text := Unreadable
	switch {
	case errors.Is(err, fs.ErrNotExist):
		text = PathNotFound
	case errors.Is(err, fs.ErrPermission):
		text = PermissionDenied
	case errors.Is(err, syscall.ENOTDIR):
		text = NotADirectory
	}
	return Entry{Name: text, Placeholder: true}
}

// Package selection holds the set of absolute paths marked for a batch
// operation. The set spans both panes and keeps insertion order so batches
// run in the order the user picked them.
package selection

import (
	"path/filepath"
	"strings"

	"github.com/LFroesch/duet/internal/listing"
)

// Set is an insertion-ordered set of absolute paths.
type Set struct {
	order []string
	index map[string]struct{}
}

// New returns an empty set.
func New() *Set {
	return &Set{index: make(map[string]struct{})}
}

// Len returns the number of selected paths.
func (s *Set) Len() int { return len(s.order) }

// Empty reports whether nothing is selected.
func (s *Set) Empty() bool { return len(s.order) == 0 }

// Contains reports whether path is selected.
func (s *Set) Contains(path string) bool {
	_, ok := s.index[path]
	return ok
}

// Add selects path. Adding a selected path is a no-op.
func (s *Set) Add(path string) {
	if s.Contains(path) {
		return
	}
	s.index[path] = struct{}{}
	s.order = append(s.order, path)
}

// Remove deselects path.
func (s *Set) Remove(path string) {
	if !s.Contains(path) {
		return
	}
	delete(s.index, path)
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Toggle flips membership of path and reports whether it is now selected.
func (s *Set) Toggle(path string) bool {
	if s.Contains(path) {
		s.Remove(path)
		return false
	}
	s.Add(path)
	return true
}

// Clear deselects everything.
func (s *Set) Clear() {
	s.order = nil
	s.index = make(map[string]struct{})
}

// Paths returns a copy of the selected paths in insertion order.
func (s *Set) Paths() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// SelectAll toggles every real entry of a listing. If all of them are
// already selected they are all removed, otherwise they are all added.
// Placeholders are never selected. It reports whether entries were added.
func (s *Set) SelectAll(dir string, entries []listing.Entry) bool {
	var paths []string
	for _, e := range entries {
		if e.Real() {
			paths = append(paths, filepath.Join(dir, e.Name))
		}
	}
	if len(paths) == 0 {
		return false
	}

	allSelected := true
	for _, p := range paths {
		if !s.Contains(p) {
			allSelected = false
			break
		}
	}

	for _, p := range paths {
		if allSelected {
			s.Remove(p)
		} else {
			s.Add(p)
		}
	}
	return !allSelected
}

// Rebase rewrites selected paths after oldPath was renamed to newPath,
// including anything selected underneath a renamed directory. A rewritten
// path that is already a member is dropped so members stay unique.
func (s *Set) Rebase(oldPath, newPath string) {
	prefix := oldPath + string(filepath.Separator)
	kept := s.order[:0]
	for _, p := range s.order {
		moved := p
		switch {
		case p == oldPath:
			moved = newPath
		case strings.HasPrefix(p, prefix):
			moved = filepath.Join(newPath, strings.TrimPrefix(p, prefix))
		}
		if moved != p {
			delete(s.index, p)
			if _, dup := s.index[moved]; dup {
				continue
			}
			s.index[moved] = struct{}{}
		}
		kept = append(kept, moved)
	}
	s.order = kept
}

// Prune removes every path for which keep returns false.
func (s *Set) Prune(keep func(path string) bool) {
	kept := s.order[:0]
	for _, p := range s.order {
		if keep(p) {
			kept = append(kept, p)
		} else {
			delete(s.index, p)
		}
	}
	s.order = kept
}

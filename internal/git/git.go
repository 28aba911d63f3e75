// Package git reads repository state for a pane header.
package git

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// Status is the repository state of one directory.
type Status struct {
	Branch   string          // empty outside a repository
	Modified map[string]bool // absolute paths with uncommitted changes
}

// Lookup returns the branch and modified files for dir. Outside a
// repository, or without git installed, it returns an empty Status.
func Lookup(dir string) Status {
	status := Status{Modified: make(map[string]bool)}

	// Check if we're in a git repository
	top, err := run(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return status
	}
	top = strings.TrimSpace(top)

	status.Branch = GetBranch(dir)

	output, err := run(dir, "status", "--porcelain", "--untracked-files=all")
	if err != nil {
		return status
	}
	for _, line := range strings.Split(output, "\n") {
		if len(line) <= 3 {
			continue
		}
		// Status is in first two characters, filename starts at position 3
		filename := strings.TrimSpace(line[3:])
		if i := strings.Index(filename, " -> "); i >= 0 {
			filename = filename[i+4:]
		}
		filename = strings.TrimSuffix(strings.Trim(filename, `"`), "/")
		if filename == "" {
			continue
		}
		// Porcelain paths are relative to the top level; mark the entry
		// that shows up in dir.
		full := filepath.Join(top, filename)
		if rel, err := filepath.Rel(dir, full); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			first := strings.SplitN(rel, string(filepath.Separator), 2)[0]
			status.Modified[filepath.Join(dir, first)] = true
		}
	}
	return status
}

// GetBranch returns the current git branch name
func GetBranch(dir string) string {
	output, err := run(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(output)
}

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(output), nil
}

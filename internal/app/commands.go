package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LFroesch/duet/internal/dialog"
	"github.com/LFroesch/duet/internal/fileops"
	"github.com/LFroesch/duet/internal/logger"
	"github.com/LFroesch/duet/internal/search"
)

func (a *App) toggleSelectAll() {
	p := a.Active()
	added := a.selection.SelectAll(p.Path(), p.Entries())
	if added {
		a.SetStatus(fmt.Sprintf("%d selected", a.selection.Len()), 2*time.Second)
	}
}

func (a *App) openDelete() {
	paths := a.selection.Paths()
	if len(paths) == 0 {
		a.SetStatus("Nothing selected", 2*time.Second)
		return
	}
	batch := dialog.Batch{Op: fileops.OpDelete, Paths: paths}
	a.dialogs.Open(dialog.NewConfirm("Delete",
		fmt.Sprintf("Delete %s?", describe(paths)), batch, a.confirmYes()))
}

// openTransfer asks to copy or move the selection into the other pane.
func (a *App) openTransfer(op fileops.Op) {
	paths := a.selection.Paths()
	if len(paths) == 0 {
		a.SetStatus("Nothing selected", 2*time.Second)
		return
	}
	dest := a.Inactive().Path()
	batch := dialog.Batch{Op: op, Paths: paths, DestDir: dest}
	a.dialogs.Open(dialog.NewConfirm(title(op),
		fmt.Sprintf("%s %s to %s?", title(op), describe(paths), dest), batch, a.confirmYes()))
}

func (a *App) openRename() {
	path, ok := a.Active().FocusedPath()
	if !ok {
		return
	}
	name := filepath.Base(path)
	a.dialogs.Open(dialog.NewTextInput(dialog.PurposeRename, "Rename File/Directory", path, name))
}

// runBatch executes a confirmed delete, copy or move. A copy or move that
// hits an existing destination swaps in an overwrite confirmation for the
// rest of the batch.
func (a *App) runBatch(b dialog.Batch) {
	var (
		res fileops.Result
		err error
	)
	switch b.Op {
	case fileops.OpDelete:
		res, err = deleteFn(b.Paths)
	case fileops.OpCopy:
		res, err = copyFn(b.Paths, b.DestDir, b.Force)
	case fileops.OpMove:
		res, err = moveFn(b.Paths, b.DestDir, b.Force)
	default:
		return
	}

	if ce, ok := fileops.AsConflict(err); ok {
		if len(res.Done) > 0 {
			a.dropMissing()
			a.RefreshAll()
		}
		force := dialog.Batch{Op: b.Op, Paths: ce.Pending, DestDir: b.DestDir, Force: true}
		msg := fmt.Sprintf("%s already exists.\nOverwrite it and the rest of the batch (%d item(s))?",
			ce.Path, len(ce.Pending))
		a.dialogs.Open(dialog.NewConfirm("Overwrite", msg, force, false))
		return
	}
	if err != nil {
		a.dropMissing()
		a.RefreshAll()
		a.showOpError(err)
		return
	}

	a.selection.Clear()
	a.RefreshAll()
	a.SetStatus(fmt.Sprintf("%s %d item(s)", pastTense(b.Op), len(res.Done)), 3*time.Second)
}

// dropMissing removes selected paths that no longer exist, such as the
// moved or deleted part of a batch that stopped early.
func (a *App) dropMissing() {
	a.selection.Prune(func(path string) bool {
		_, err := os.Lstat(path)
		return err == nil
	})
}

func (a *App) showOpError(err error) {
	oe, ok := fileops.AsOpError(err)
	if !ok {
		a.showError("Operation Failed", err.Error())
		return
	}
	a.showError(title(oe.Op)+" Failed",
		fmt.Sprintf("Could not %s %s:\n%v", oe.Op, oe.Path, fileops.Cause(oe.Err)))
}

// create makes a file or directory in dir and focuses it.
func (a *App) create(dir, name string) {
	path, err := fileops.Create(dir, name)
	if err != nil {
		a.showOpError(err)
		a.ReloadDir(dir)
		return
	}

	a.refreshDir(dir)
	if rel, err := filepath.Rel(dir, path); err == nil {
		first := strings.SplitN(rel, string(filepath.Separator), 2)[0]
		a.Active().FocusName(first)
	}
	a.SetStatus(fmt.Sprintf("Created %s", filepath.Base(path)), 2*time.Second)
}

// rename renames the entry at oldPath within its directory.
func (a *App) rename(oldPath, newName string) {
	dir := filepath.Dir(oldPath)
	newPath, err := fileops.Rename(dir, filepath.Base(oldPath), newName)
	if err != nil {
		a.showOpError(err)
		return
	}

	a.selection.Rebase(oldPath, newPath)
	a.refreshDir(dir)
	a.Active().FocusName(filepath.Base(newPath))
}

// refreshDir refreshes the active pane when it shows dir and reloads the
// other pane when it shows dir too.
func (a *App) refreshDir(dir string) {
	if a.Active().Path() == dir {
		a.Active().Refresh()
	}
	if a.Inactive().Path() == dir {
		a.Inactive().Reload()
	}
}

// find focuses the best match for query in the active pane.
func (a *App) find(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	p := a.Active()
	var names []string
	for _, e := range p.Entries() {
		if e.Real() {
			names = append(names, e.Name)
		}
	}
	i, ok := search.Best(query, names)
	if !ok {
		a.SetStatus(fmt.Sprintf("No match for %q", query), 2*time.Second)
		return
	}
	p.FocusName(names[i])
}

func (a *App) runAction(action dialog.Action) tea.Cmd {
	p := a.Active()
	switch action {
	case dialog.ActionOpenTerminal:
		if err := a.launcher.WriteHandoff(p.Path()); err != nil {
			logger.Error("Handoff failed: %v", err)
			a.showError("Open in Terminal Failed", err.Error())
			return nil
		}
		return tea.Quit

	case dialog.ActionOpenEditor:
		target, ok := a.editorTarget()
		if !ok {
			a.SetStatus("Nothing to open", 2*time.Second)
			return nil
		}
		return a.launcher.EditFile(target)

	case dialog.ActionToggleSelectAll:
		a.toggleSelectAll()

	case dialog.ActionCopyPath:
		target, ok := p.FocusedPath()
		if !ok {
			target = p.Path()
		}
		if err := a.launcher.CopyToClipboard(target); err != nil {
			a.SetStatus(fmt.Sprintf("Failed to copy: %v", err), 3*time.Second)
			return nil
		}
		a.SetStatus(fmt.Sprintf("Copied: %s", target), 2*time.Second)

	case dialog.ActionOpenDefault:
		target, ok := p.FocusedPath()
		if !ok {
			a.SetStatus("Nothing to open", 2*time.Second)
			return nil
		}
		if err := a.launcher.OpenDefault(target); err != nil {
			a.SetStatus(fmt.Sprintf("Failed to open: %v", err), 3*time.Second)
		}
	}
	return nil
}

// editorTarget is the first selected path, or the focused entry when
// nothing is selected.
func (a *App) editorTarget() (string, bool) {
	if paths := a.selection.Paths(); len(paths) > 0 {
		return paths[0], true
	}
	return a.Active().FocusedPath()
}

func (a *App) toggleHidden() {
	a.lister.ShowHidden = !a.lister.ShowHidden
	a.cfg.ShowHidden = a.lister.ShowHidden
	a.ReloadAll()
	if a.lister.ShowHidden {
		a.SetStatus("Showing hidden files", 2*time.Second)
	} else {
		a.SetStatus("Hiding hidden files", 2*time.Second)
	}
}

func describe(paths []string) string {
	if len(paths) == 1 {
		return fmt.Sprintf("%q", filepath.Base(paths[0]))
	}
	return fmt.Sprintf("%d items", len(paths))
}

func title(op fileops.Op) string {
	s := op.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

func pastTense(op fileops.Op) string {
	switch op {
	case fileops.OpDelete:
		return "Deleted"
	case fileops.OpCopy:
		return "Copied"
	case fileops.OpMove:
		return "Moved"
	default:
		return title(op)
	}
}

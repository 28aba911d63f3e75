// Package fileops runs the batch file operations: delete, copy and move over
// a list of absolute paths, plus single-item create and rename.
package fileops

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/LFroesch/duet/internal/logger"
)

// Swapped in tests to inject failures.
var (
	removeFn    = os.Remove
	removeAllFn = os.RemoveAll
	renameFn    = os.Rename
)

// Result lists what a batch did before it finished or stopped.
type Result struct {
	Done    []string // sources fully processed
	Skipped []string // sources that no longer existed
}

// Delete removes each path, recursively for directories. Symlinks are
// removed, never their targets. Missing paths are skipped. The batch stops
// at the first failure; earlier deletions stay deleted.
func Delete(paths []string) (Result, error) {
	var res Result
	for _, path := range paths {
		info, err := os.Lstat(path)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Delete skipped missing %s", path)
			res.Skipped = append(res.Skipped, path)
			continue
		}
		if err != nil {
			logger.Error("Delete failed for %s: %v", path, err)
			return res, newOpError(OpDelete, path, err)
		}

		if info.IsDir() {
			err = removeAllFn(path)
		} else {
			err = removeFn(path)
		}
		if err != nil {
			logger.Error("Delete failed for %s: %v", path, err)
			return res, newOpError(OpDelete, path, err)
		}

		logger.Info("Deleted %s", path)
		res.Done = append(res.Done, path)
	}
	return res, nil
}

// Copy copies each source into destDir under its base name. Without force,
// an existing destination stops the batch with a ConflictError. With force,
// files are overwritten and directories merged into existing trees.
func Copy(sources []string, destDir string, force bool) (Result, error) {
	return transfer(OpCopy, sources, destDir, force)
}

// Move moves each source into destDir under its base name. Without force,
// an existing destination stops the batch with a ConflictError. With force,
// the existing destination is replaced entirely.
func Move(sources []string, destDir string, force bool) (Result, error) {
	return transfer(OpMove, sources, destDir, force)
}

func transfer(op Op, sources []string, destDir string, force bool) (Result, error) {
	var res Result
	for i, src := range sources {
		srcInfo, err := os.Lstat(src)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("%s skipped missing %s", op, src)
			res.Skipped = append(res.Skipped, src)
			continue
		}
		if err != nil {
			logger.Error("%s failed for %s: %v", op, src, err)
			return res, newOpError(op, src, err)
		}

		dst := filepath.Join(destDir, filepath.Base(src))
		if err := guard(src, dst, srcInfo); err != nil {
			logger.Error("%s refused %s -> %s: %v", op, src, dst, err)
			return res, newOpError(op, src, err)
		}

		dstInfo, err := os.Lstat(dst)
		switch {
		case err == nil:
			if os.SameFile(srcInfo, dstInfo) {
				return res, newOpError(op, src, errSameFile)
			}
			if !force {
				pending := make([]string, len(sources)-i)
				copy(pending, sources[i:])
				logger.Warn("%s conflict: %s already exists", op, dst)
				return res, &ConflictError{Op: op, Path: dst, Source: src, Pending: pending}
			}
		case !errors.Is(err, fs.ErrNotExist):
			return res, newOpError(op, dst, err)
		}

		if op == OpMove {
			err = move(src, dst, dstInfo != nil)
		} else {
			err = copyTree(src, dst, srcInfo)
		}
		if err != nil {
			logger.Error("%s failed for %s -> %s: %v", op, src, dst, err)
			return res, newOpError(op, src, err)
		}

		logger.Info("%s %s -> %s", op, src, dst)
		res.Done = append(res.Done, src)
	}
	return res, nil
}

// guard rejects a destination equal to the source, inside a source
// directory, or enclosing the source.
func guard(src, dst string, srcInfo fs.FileInfo) error {
	src, dst = filepath.Clean(src), filepath.Clean(dst)
	sep := string(filepath.Separator)
	switch {
	case src == dst:
		return errSameFile
	case srcInfo.IsDir() && strings.HasPrefix(dst, src+sep):
		return errIntoSelf
	case strings.HasPrefix(src, dst+sep):
		return errContainsSource
	}
	return nil
}

// move renames src to dst. An existing dst is set aside first and put back
// if the move fails, so a failed overwrite loses nothing.
func move(src, dst string, replace bool) error {
	if !replace {
		_, err := moveTree(src, dst)
		return err
	}

	backupDir, err := os.MkdirTemp(filepath.Dir(dst), ".duet-replace-")
	if err != nil {
		return err
	}
	backup := filepath.Join(backupDir, filepath.Base(dst))
	if err := os.Rename(dst, backup); err != nil {
		os.Remove(backupDir)
		return err
	}

	placed, err := moveTree(src, dst)
	if err != nil && !placed {
		if _, statErr := os.Lstat(dst); statErr == nil {
			removeAllFn(dst)
		}
		if restoreErr := os.Rename(backup, dst); restoreErr != nil {
			logger.Error("Could not restore %s from %s: %v", dst, backup, restoreErr)
			return err
		}
		os.Remove(backupDir)
		return err
	}

	if rmErr := removeAllFn(backupDir); rmErr != nil {
		logger.Warn("Could not remove replaced %s: %v", backup, rmErr)
	}
	return err
}

// moveTree renames src to dst, copying across devices. placed reports
// whether dst holds all of src, even when removing the source then failed.
func moveTree(src, dst string) (placed bool, err error) {
	err = renameFn(src, dst)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return false, err
	}

	// Cross-device: copy then remove the source.
	srcInfo, err := os.Lstat(src)
	if err != nil {
		return false, err
	}
	if err := copyTree(src, dst, srcInfo); err != nil {
		return false, err
	}
	return true, removeAllFn(src)
}

// copyTree copies src to dst, merging into an existing directory at dst.
// Symlinks are recreated, not followed.
func copyTree(src, dst string, srcInfo fs.FileInfo) error {
	switch {
	case srcInfo.Mode()&fs.ModeSymlink != 0:
		return copySymlink(src, dst)
	case srcInfo.IsDir():
		return copyDir(src, dst, srcInfo)
	case srcInfo.Mode().IsRegular():
		return copyFile(src, dst, srcInfo)
	default:
		// Opening a FIFO or device would block or read forever.
		return errUnsupported
	}
}

func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return err
	}
	if err := clearDestination(dst, false); err != nil {
		return err
	}
	return os.Symlink(target, dst)
}

func copyDir(src, dst string, srcInfo fs.FileInfo) error {
	if err := clearDestination(dst, true); err != nil {
		return err
	}
	_, statErr := os.Lstat(dst)
	created := errors.Is(statErr, fs.ErrNotExist)

	// Stay writable until the children are in; read-only modes go on last.
	perm := srcInfo.Mode().Perm()
	if err := os.MkdirAll(dst, perm|0700); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		info, err := os.Lstat(srcPath)
		if err != nil {
			return err
		}
		if err := copyTree(srcPath, filepath.Join(dst, entry.Name()), info); err != nil {
			return err
		}
	}

	if created {
		return os.Chmod(dst, perm)
	}
	return nil
}

// copyFile streams the contents and keeps the permission bits.
func copyFile(src, dst string, srcInfo fs.FileInfo) error {
	if err := clearDestination(dst, false); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chmod(dst, srcInfo.Mode().Perm())
}

// clearDestination removes whatever sits at dst unless it is a real
// directory and keepDir is set. Writing through an existing symlink would
// modify its target instead of the link.
func clearDestination(dst string, keepDir bool) error {
	info, err := os.Lstat(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if keepDir && info.IsDir() {
		return nil
	}
	if info.IsDir() {
		return removeAllFn(dst)
	}
	return removeFn(dst)
}

// Create makes name inside dir and returns the new path. A name ending in a
// path separator creates a directory; anything else an empty file. Missing
// intermediate directories are created and left behind if the final step
// fails.
func Create(dir, name string) (string, error) {
	wantDir := strings.HasSuffix(name, "/") || strings.HasSuffix(name, string(filepath.Separator))
	rel := filepath.Clean(strings.TrimRight(name, "/"+string(filepath.Separator)))
	if rel == "." || !filepath.IsLocal(rel) {
		return "", &OpError{Op: OpCreate, Path: filepath.Join(dir, name), Kind: InvalidName, Err: errInvalidName}
	}

	path := filepath.Join(dir, rel)
	if wantDir {
		if _, err := os.Lstat(path); err == nil {
			return "", newOpError(OpCreate, path, fs.ErrExist)
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			logger.Error("Create failed for %s: %v", path, err)
			return "", newOpError(OpCreate, path, err)
		}
		logger.Info("Created directory %s", path)
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Error("Create failed for %s: %v", path, err)
		return "", newOpError(OpCreate, path, err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		logger.Error("Create failed for %s: %v", path, err)
		return "", newOpError(OpCreate, path, err)
	}
	if err := file.Close(); err != nil {
		return "", newOpError(OpCreate, path, err)
	}
	logger.Info("Created file %s", path)
	return path, nil
}

// Rename renames oldName to newName inside dir and returns the new path.
// It never moves across directories and never replaces an existing entry.
func Rename(dir, oldName, newName string) (string, error) {
	oldPath := filepath.Join(dir, oldName)
	if !validName(newName) {
		return "", &OpError{Op: OpRename, Path: oldPath, Kind: InvalidName, Err: errInvalidName}
	}
	newPath := filepath.Join(dir, newName)
	if newName == oldName {
		return newPath, nil
	}

	oldInfo, err := os.Lstat(oldPath)
	if err != nil {
		return "", newOpError(OpRename, oldPath, err)
	}
	// A case-only rename on a case-insensitive filesystem finds itself.
	if newInfo, err := os.Lstat(newPath); err == nil && !os.SameFile(oldInfo, newInfo) {
		return "", newOpError(OpRename, newPath, fs.ErrExist)
	}

	if err := renameFn(oldPath, newPath); err != nil {
		logger.Error("Rename failed for %s: %v", oldPath, err)
		return "", newOpError(OpRename, oldPath, err)
	}
	logger.Info("Renamed %s -> %s", oldPath, newPath)
	return newPath, nil
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/"+string(filepath.Separator))
}

package fileops

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func TestCopyConflictThenForce(t *testing.T) {
	root := t.TempDir()
	a, b := filepath.Join(root, "a"), filepath.Join(root, "b")
	writeFile(t, filepath.Join(a, "f.txt"), "new")
	writeFile(t, filepath.Join(b, "f.txt"), "old")

	_, err := Copy([]string{filepath.Join(a, "f.txt")}, b, false)
	ce, ok := AsConflict(err)
	require.True(t, ok, "expected conflict, got %v", err)
	assert.Equal(t, OpCopy, ce.Op)
	assert.Equal(t, filepath.Join(b, "f.txt"), ce.Path)
	assert.Equal(t, []string{filepath.Join(a, "f.txt")}, ce.Pending)
	assert.Equal(t, "old", readFile(t, filepath.Join(b, "f.txt")))

	res, err := Copy(ce.Pending, b, true)
	require.NoError(t, err)
	assert.Equal(t, ce.Pending, res.Done)
	assert.Equal(t, "new", readFile(t, filepath.Join(b, "f.txt")))
	assert.True(t, exists(filepath.Join(a, "f.txt")))
}

func TestMoveConflictThenForce(t *testing.T) {
	root := t.TempDir()
	a, b := filepath.Join(root, "a"), filepath.Join(root, "b")
	writeFile(t, filepath.Join(a, "f.txt"), "new")
	writeFile(t, filepath.Join(b, "f.txt"), "old")

	_, err := Move([]string{filepath.Join(a, "f.txt")}, b, false)
	require.True(t, IsConflict(err))
	assert.Equal(t, "old", readFile(t, filepath.Join(b, "f.txt")))
	assert.True(t, exists(filepath.Join(a, "f.txt")))

	_, err = Move([]string{filepath.Join(a, "f.txt")}, b, true)
	require.NoError(t, err)
	assert.Equal(t, "new", readFile(t, filepath.Join(b, "f.txt")))
	assert.False(t, exists(filepath.Join(a, "f.txt")))
}

func TestConflictStopsBatchBeforeRemainingItems(t *testing.T) {
	root := t.TempDir()
	src, dst := filepath.Join(root, "src"), filepath.Join(root, "dst")
	one, two, three := filepath.Join(src, "1.txt"), filepath.Join(src, "2.txt"), filepath.Join(src, "3.txt")
	writeFile(t, one, "1")
	writeFile(t, two, "2")
	writeFile(t, three, "3")
	writeFile(t, filepath.Join(dst, "2.txt"), "existing")

	res, err := Copy([]string{one, two, three}, dst, false)
	ce, ok := AsConflict(err)
	require.True(t, ok)

	assert.Equal(t, []string{one}, res.Done)
	assert.Equal(t, []string{two, three}, ce.Pending)
	assert.Equal(t, two, ce.Source)
	assert.True(t, exists(filepath.Join(dst, "1.txt")))
	assert.False(t, exists(filepath.Join(dst, "3.txt")))
	assert.Equal(t, "existing", readFile(t, filepath.Join(dst, "2.txt")))
}

func TestCopyForceMergesDirectories(t *testing.T) {
	root := t.TempDir()
	src, dst := filepath.Join(root, "src", "tree"), filepath.Join(root, "dst")
	writeFile(t, filepath.Join(src, "shared.txt"), "from src")
	writeFile(t, filepath.Join(src, "only-src.txt"), "s")
	writeFile(t, filepath.Join(dst, "tree", "shared.txt"), "from dst")
	writeFile(t, filepath.Join(dst, "tree", "only-dst.txt"), "d")

	_, err := Copy([]string{src}, dst, true)
	require.NoError(t, err)

	assert.Equal(t, "from src", readFile(t, filepath.Join(dst, "tree", "shared.txt")))
	assert.True(t, exists(filepath.Join(dst, "tree", "only-src.txt")))
	assert.True(t, exists(filepath.Join(dst, "tree", "only-dst.txt")))
}

func TestMoveForceReplacesDirectories(t *testing.T) {
	root := t.TempDir()
	src, dst := filepath.Join(root, "src", "tree"), filepath.Join(root, "dst")
	writeFile(t, filepath.Join(src, "shared.txt"), "from src")
	writeFile(t, filepath.Join(dst, "tree", "only-dst.txt"), "d")

	_, err := Move([]string{src}, dst, true)
	require.NoError(t, err)

	assert.Equal(t, "from src", readFile(t, filepath.Join(dst, "tree", "shared.txt")))
	assert.False(t, exists(filepath.Join(dst, "tree", "only-dst.txt")))
	assert.False(t, exists(src))
}

func TestCopyForceReplacesFileWithDirectory(t *testing.T) {
	root := t.TempDir()
	src, dst := filepath.Join(root, "src", "thing"), filepath.Join(root, "dst")
	writeFile(t, filepath.Join(src, "inner.txt"), "x")
	writeFile(t, filepath.Join(dst, "thing"), "plain file")

	_, err := Copy([]string{src}, dst, true)
	require.NoError(t, err)

	assert.Equal(t, "x", readFile(t, filepath.Join(dst, "thing", "inner.txt")))
}

func TestMoveIntoEmptyDestination(t *testing.T) {
	root := t.TempDir()
	src, dst := filepath.Join(root, "src"), filepath.Join(root, "dst")
	writeFile(t, filepath.Join(src, "a.txt"), "alpha")
	require.NoError(t, os.Mkdir(dst, 0755))

	res, err := Move([]string{filepath.Join(src, "a.txt")}, dst, false)
	require.NoError(t, err)

	assert.Len(t, res.Done, 1)
	assert.False(t, exists(filepath.Join(src, "a.txt")))
	assert.Equal(t, "alpha", readFile(t, filepath.Join(dst, "a.txt")))
}

func TestMoveFallsBackToCopyAcrossDevices(t *testing.T) {
	root := t.TempDir()
	src, dst := filepath.Join(root, "src", "dir"), filepath.Join(root, "dst")
	writeFile(t, filepath.Join(src, "a.txt"), "alpha")
	require.NoError(t, os.Mkdir(dst, 0755))

	old := renameFn
	renameFn = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	defer func() { renameFn = old }()

	_, err := Move([]string{src}, dst, false)
	require.NoError(t, err)

	assert.False(t, exists(src))
	assert.Equal(t, "alpha", readFile(t, filepath.Join(dst, "dir", "a.txt")))
}

func TestTransferGuards(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "dir")
	writeFile(t, filepath.Join(dir, "inner", "f.txt"), "x")
	nested := filepath.Join(root, "same", "same")
	writeFile(t, filepath.Join(nested, "g.txt"), "g")

	tests := []struct {
		name    string
		op      func([]string, string, bool) (Result, error)
		src     string
		destDir string
		want    Kind
	}{
		{"copy onto itself", Copy, filepath.Join(dir, "inner"), dir, SameFile},
		{"move onto itself", Move, filepath.Join(dir, "inner"), dir, SameFile},
		{"copy into own subtree", Copy, dir, filepath.Join(dir, "inner"), IntoSelf},
		{"move into own subtree", Move, dir, filepath.Join(dir, "inner"), IntoSelf},
		{"move over own parent", Move, nested, root, IntoSelf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.op([]string{tt.src}, tt.destDir, true)
			oe, ok := AsOpError(err)
			require.True(t, ok, "expected OpError, got %v", err)
			assert.Equal(t, tt.want, oe.Kind)
			assert.Equal(t, "x", readFile(t, filepath.Join(dir, "inner", "f.txt")))
			assert.Equal(t, "g", readFile(t, filepath.Join(nested, "g.txt")))
		})
	}
}

func TestTransferSkipsMissingSources(t *testing.T) {
	root := t.TempDir()
	dst := filepath.Join(root, "dst")
	require.NoError(t, os.Mkdir(dst, 0755))
	present := filepath.Join(root, "present.txt")
	writeFile(t, present, "r")
	ghost := filepath.Join(root, "ghost.txt")

	res, err := Copy([]string{ghost, present}, dst, false)
	require.NoError(t, err)
	assert.Equal(t, []string{ghost}, res.Skipped)
	assert.Equal(t, []string{present}, res.Done)
}

func TestDeleteBatch(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "f.txt")
	dir := filepath.Join(root, "d")
	writeFile(t, file, "f")
	writeFile(t, filepath.Join(dir, "nested", "x.txt"), "x")
	ghost := filepath.Join(root, "ghost")

	res, err := Delete([]string{file, ghost, dir})
	require.NoError(t, err)

	assert.Equal(t, []string{file, dir}, res.Done)
	assert.Equal(t, []string{ghost}, res.Skipped)
	assert.False(t, exists(file))
	assert.False(t, exists(dir))
}

func TestDeleteStopsAtFirstFailure(t *testing.T) {
	root := t.TempDir()
	x, y := filepath.Join(root, "x.txt"), filepath.Join(root, "y.txt")
	writeFile(t, x, "x")
	writeFile(t, y, "y")

	old := removeFn
	removeFn = func(name string) error {
		if name == x {
			return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrPermission}
		}
		return old(name)
	}
	defer func() { removeFn = old }()

	res, err := Delete([]string{x, y})
	oe, ok := AsOpError(err)
	require.True(t, ok)

	assert.Equal(t, x, oe.Path)
	assert.Equal(t, Permission, oe.Kind)
	assert.Contains(t, oe.Error(), x)
	assert.Empty(t, res.Done)
	assert.True(t, exists(x))
	assert.True(t, exists(y))
}

func TestDeleteRealPermissionFailure(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("Skipping test when running as root")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "locked")
	x := filepath.Join(locked, "x.txt")
	y := filepath.Join(root, "y.txt")
	writeFile(t, x, "x")
	writeFile(t, y, "y")
	require.NoError(t, os.Chmod(locked, 0555))
	defer os.Chmod(locked, 0755)

	_, err := Delete([]string{x, y})
	oe, ok := AsOpError(err)
	require.True(t, ok)
	assert.Equal(t, x, oe.Path)
	assert.True(t, exists(y))
}

func TestOpErrorMessage(t *testing.T) {
	err := newOpError(OpDelete, "/x", &fs.PathError{Op: "remove", Path: "/x", Err: fs.ErrPermission})
	assert.Equal(t, "delete /x: permission denied", err.Error())
	assert.True(t, errors.Is(err, fs.ErrPermission))
}

func TestCopyRejectsFIFO(t *testing.T) {
	root := t.TempDir()
	src, dst := filepath.Join(root, "src"), filepath.Join(root, "dst")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.Mkdir(dst, 0755))
	pipe := filepath.Join(src, "pipe")
	if err := syscall.Mkfifo(pipe, 0644); err != nil {
		t.Skipf("mkfifo not available: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := Copy([]string{pipe}, dst, false)
		done <- err
	}()

	select {
	case err := <-done:
		oe, ok := AsOpError(err)
		require.True(t, ok)
		assert.Equal(t, Unknown, oe.Kind)
		assert.Equal(t, pipe, oe.Path)
		assert.Contains(t, err.Error(), "unsupported file type")
		assert.False(t, exists(filepath.Join(dst, "pipe")))
	case <-time.After(5 * time.Second):
		t.Fatal("copy blocked on a FIFO")
	}
}

func TestCopyReadOnlyDirectory(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("Skipping test when running as root")
	}

	root := t.TempDir()
	src, dst := filepath.Join(root, "src", "ro"), filepath.Join(root, "dst")
	writeFile(t, filepath.Join(src, "f.txt"), "frozen")
	require.NoError(t, os.Mkdir(dst, 0755))
	require.NoError(t, os.Chmod(src, 0555))
	t.Cleanup(func() {
		os.Chmod(src, 0755)
		os.Chmod(filepath.Join(dst, "ro"), 0755)
	})

	_, err := Copy([]string{src}, dst, false)
	require.NoError(t, err)

	assert.Equal(t, "frozen", readFile(t, filepath.Join(dst, "ro", "f.txt")))
	info, err := os.Stat(filepath.Join(dst, "ro"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0555), info.Mode().Perm())
}

func TestMoveForceRestoresDestinationOnFailure(t *testing.T) {
	root := t.TempDir()
	src, dst := filepath.Join(root, "src"), filepath.Join(root, "dst")
	writeFile(t, filepath.Join(src, "a.txt"), "new")
	writeFile(t, filepath.Join(dst, "a.txt"), "old")

	old := renameFn
	renameFn = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: fs.ErrPermission}
	}
	defer func() { renameFn = old }()

	_, err := Move([]string{filepath.Join(src, "a.txt")}, dst, true)
	oe, ok := AsOpError(err)
	require.True(t, ok)
	assert.Equal(t, Permission, oe.Kind)

	assert.Equal(t, "old", readFile(t, filepath.Join(dst, "a.txt")))
	assert.Equal(t, "new", readFile(t, filepath.Join(src, "a.txt")))
	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no replacement leftovers in the destination")
}

func TestMoveForceLeavesNoLeftovers(t *testing.T) {
	root := t.TempDir()
	src, dst := filepath.Join(root, "src"), filepath.Join(root, "dst")
	writeFile(t, filepath.Join(src, "a.txt"), "new")
	writeFile(t, filepath.Join(dst, "a.txt"), "old")

	_, err := Move([]string{filepath.Join(src, "a.txt")}, dst, true)
	require.NoError(t, err)

	assert.Equal(t, "new", readFile(t, filepath.Join(dst, "a.txt")))
	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

package fileops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Op names a file operation.
type Op int

const (
	OpDelete Op = iota
	OpCopy
	OpMove
	OpCreate
	OpRename
)

func (o Op) String() string {
	switch o {
	case OpDelete:
		return "delete"
	case OpCopy:
		return "copy"
	case OpMove:
		return "move"
	case OpCreate:
		return "create"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Kind classifies an operation failure.
type Kind int

const (
	Unknown Kind = iota
	NotFound
	Permission
	Exists
	InvalidName
	SameFile
	IntoSelf
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Permission:
		return "permission denied"
	case Exists:
		return "already exists"
	case InvalidName:
		return "invalid name"
	case SameFile:
		return "source and destination are the same"
	case IntoSelf:
		return "cannot place a directory inside itself"
	default:
		return "unknown error"
	}
}

var (
	errInvalidName = errors.New("invalid name")
	errSameFile    = errors.New("source and destination are the same")
	errIntoSelf    = errors.New("destination is inside the source directory")

	errContainsSource = errors.New("destination contains the source")
	errUnsupported    = errors.New("unsupported file type")
)

// OpError is an underlying filesystem failure during an operation. A batch
// stops at the first one.
type OpError struct {
	Op   Op
	Path string
	Kind Kind
	Err  error
}

func newOpError(op Op, path string, err error) *OpError {
	return &OpError{Op: op, Path: path, Kind: kindOf(err), Err: err}
}

// Error returns "<op> <path>: <cause>".
func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, Cause(e.Err))
}

// Unwrap returns the wrapped error
func (e *OpError) Unwrap() error {
	return e.Err
}

// ConflictError reports that a copy or move destination already exists.
// Nothing from Pending has been touched; re-running Pending with force set
// finishes the batch.
type ConflictError struct {
	Op      Op
	Path    string   // existing destination
	Source  string   // source that would have replaced Path
	Pending []string // sources not yet processed, starting with Source
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s already exists", e.Op, e.Path)
}

// IsConflict reports whether err is, or wraps, a ConflictError.
func IsConflict(err error) bool {
	_, ok := AsConflict(err)
	return ok
}

// AsConflict extracts a ConflictError from err.
func AsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// AsOpError extracts an OpError from err.
func AsOpError(err error) (*OpError, bool) {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe, true
	}
	return nil, false
}

// Cause strips path wrappers so messages name a path only once.
func Cause(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err
	}
	return err
}

func kindOf(err error) Kind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	case errors.Is(err, fs.ErrPermission):
		return Permission
	case errors.Is(err, fs.ErrExist):
		return Exists
	case errors.Is(err, errInvalidName):
		return InvalidName
	case errors.Is(err, errSameFile):
		return SameFile
	case errors.Is(err, errIntoSelf), errors.Is(err, errContainsSource):
		return IntoSelf
	default:
		return Unknown
	}
}

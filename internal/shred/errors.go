package shred

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Kind classifies a shred failure so callers can branch without parsing messages.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindRefusedSymlink
	KindNotAFile
	KindReadOnly
	KindAbortedByUser
	KindIO
	KindInvalidName
	KindProtected
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindRefusedSymlink:
		return "refused_symlink"
	case KindNotAFile:
		return "not_a_file"
	case KindReadOnly:
		return "read_only"
	case KindAbortedByUser:
		return "aborted_by_user"
	case KindIO:
		return "io_error"
	case KindInvalidName:
		return "invalid_name"
	case KindProtected:
		return "protected"
	default:
		return "unknown"
	}
}

// Op names the operation that was being attempted when an Error occurred.
type Op string

const (
	OpStat    Op = "stat"
	OpConfirm Op = "confirm"
	OpOpen    Op = "open"
	OpSeek    Op = "seek"
	OpWrite   Op = "write"
	OpSync    Op = "sync"
	OpVerify  Op = "verify"
	OpClose   Op = "close"
	OpRename  Op = "rename"
	OpDirSync Op = "dirsync"
	OpUnlink  Op = "unlink"
	OpName    Op = "name"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrNotFound       = errors.New("file does not exist")
	ErrRefusedSymlink = errors.New("file is a symbolic link; refusing to shred")
	ErrNotAFile       = errors.New("not a regular file")
	ErrReadOnly       = errors.New("file is read-only")
	ErrAbortedByUser  = errors.New("aborted by user")
	ErrIO             = errors.New("i/o error")
	ErrInvalidName    = errors.New("invalid filename")
	ErrProtected      = errors.New("path is protected")
)

var sentinels = map[Kind]error{
	KindNotFound:       ErrNotFound,
	KindRefusedSymlink: ErrRefusedSymlink,
	KindNotAFile:       ErrNotAFile,
	KindReadOnly:       ErrReadOnly,
	KindAbortedByUser:  ErrAbortedByUser,
	KindIO:             ErrIO,
	KindInvalidName:    ErrInvalidName,
	KindProtected:      ErrProtected,
}

// Error is the single error type returned by this package.
type Error struct {
	Kind Kind
	Path string
	Op   Op
	Err  error

	// Residual is the path the file is still reachable under when removal
	// stopped half way (renamed but not unlinked).
	Residual string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s '%s': %v", e.Op, e.Path, sentinels[e.Kind])
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Residual != "" {
		msg += fmt.Sprintf(" (file left as '%s')", e.Residual)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// KindOf returns the Kind carried by err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

func newError(kind Kind, op Op, path string, cause error) *Error {
	if cause != nil {
		cause = errors.WithStack(cause)
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: cause}
}

func ioError(op Op, path string, cause error) *Error {
	return newError(KindIO, op, path, cause)
}

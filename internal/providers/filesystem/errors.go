package filesystem

import (
	"errors"
	"io/fs"
	"syscall"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrNotADirectory     = errors.New("not a directory")
	ErrAlreadyExists     = errors.New("already exists")
	ErrIsADirectory      = errors.New("is a directory")
	ErrDirectoryNotEmpty = errors.New("directory not empty")
	ErrIO                = errors.New("io error")
)

// OpError is the error type returned by every operation.
// Msg is the caller-facing text; Kind is one of the sentinels above.
type OpError struct {
	Op   string
	Path string
	Msg  string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	return e.Msg
}

func (e *OpError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Code returns the transport error code for the kind
func (e *OpError) Code() string {
	switch e.Kind {
	case ErrNotFound:
		return "NOT_FOUND"
	case ErrNotADirectory:
		return "NOT_A_DIRECTORY"
	case ErrAlreadyExists:
		return "ALREADY_EXISTS"
	case ErrIsADirectory:
		return "IS_A_DIRECTORY"
	case ErrDirectoryNotEmpty:
		return "DIRECTORY_NOT_EMPTY"
	default:
		return "IO_ERROR"
	}
}

func opErr(op, path string, kind error, msg string) *OpError {
	return &OpError{Op: op, Path: path, Msg: msg, Kind: kind}
}

// wrapOS converts an OS error into an OpError with the OS text as message
func wrapOS(op, path string, err error) error {
	var existing *OpError
	if errors.As(err, &existing) {
		return err
	}
	return &OpError{Op: op, Path: path, Msg: err.Error(), Kind: classify(err), Err: err}
}

func classify(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrExist):
		return ErrAlreadyExists
	case errors.Is(err, syscall.ENOTDIR):
		return ErrNotADirectory
	case errors.Is(err, syscall.EISDIR):
		return ErrIsADirectory
	case errors.Is(err, syscall.ENOTEMPTY):
		return ErrDirectoryNotEmpty
	default:
		return ErrIO
	}
}

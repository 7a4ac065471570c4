package sandbox

import "errors"

// ErrPathEscape is matched by every confinement failure
var ErrPathEscape = errors.New("path escapes root")

// EscapeError reports a path whose canonical form lies outside the root
type EscapeError struct {
	// Path is the canonical path that failed the check
	Path string
}

func (e *EscapeError) Error() string {
	return "Path escapes FS_ROOT: " + e.Path
}

// Unwrap lets errors.Is match ErrPathEscape
func (e *EscapeError) Unwrap() error {
	return ErrPathEscape
}

// Code returns the transport error code
func (e *EscapeError) Code() string {
	return "PATH_ESCAPE"
}

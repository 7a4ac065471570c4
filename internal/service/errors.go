package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedAction  = errors.New("unsupported action")
	ErrMalformedArguments = errors.New("malformed arguments")
	ErrExecution          = errors.New("execution error")
	ErrTimeout            = errors.New("timed out")
)

// Error codes shared by every transport
const (
	CodeUnsupportedAction = "UNSUPPORTED_ACTION"
	CodeMalformed         = "MALFORMED_ARGUMENTS"
	CodeTimeout           = "TIMEOUT"
	CodeExecution         = "EXECUTION_ERROR"
	CodeInvalidRequest    = "INVALID_REQUEST"
)

// CallError is returned by Dispatcher.Call.
// Kind is one of ErrUnsupportedAction, ErrMalformedArguments or ErrExecution.
type CallError struct {
	Action string
	Kind   error
	Err    error
}

func (e *CallError) Error() string {
	if errors.Is(e.Kind, ErrUnsupportedAction) {
		return "Unsupported action: " + e.Action
	}
	return e.Err.Error()
}

func (e *CallError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func unsupported(name string) *CallError {
	return &CallError{Action: name, Kind: ErrUnsupportedAction, Err: fmt.Errorf("unknown action %q", name)}
}

func malformed(name string, err error) *CallError {
	return &CallError{Action: name, Kind: ErrMalformedArguments, Err: err}
}

func failed(name string, err error) *CallError {
	return &CallError{Action: name, Kind: ErrExecution, Err: err}
}

// coder is implemented by domain errors that carry a stable code
type coder interface {
	Code() string
}

// ErrorCode maps any error from Call to its transport code
func ErrorCode(err error) string {
	var c coder
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedAction):
		return CodeUnsupportedAction
	case errors.Is(err, ErrMalformedArguments):
		return CodeMalformed
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	case errors.As(err, &c):
		return c.Code()
	default:
		return CodeExecution
	}
}

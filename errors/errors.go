package errors

import (
	"errors"
	"fmt"
)

// Status describes a failed davfs operation.
//
// A nil error means the operation succeeded. A non-nil *Status is the single
// terminal result of a failed operation; the backend error that caused it is
// not retained. Kind optionally carries a coarse category such as
// fs.ErrNotExist so callers can use errors.Is without inspecting codes.
type Status struct {
	// Op is the operation that failed (e.g., "open", "pwrite", "mkdir")
	Op string

	// Path is the remote path or URL involved, if any
	Path string

	// Code is the failure class
	Code ErrorCode

	// BackendCode is the backend's own error code for CodeInternal failures
	BackendCode int

	// Message is a human readable description, usually the backend's message
	Message string

	// Kind is a coarse error category exposed through Unwrap
	Kind error
}

// Error implements the error interface.
func (s *Status) Error() string {
	msg := s.Message
	if msg == "" {
		msg = string(s.Code)
	}
	switch {
	case s.Path != "" && s.BackendCode != 0:
		return fmt.Sprintf("davfs.%s %s: %s (code %d): %s", s.Op, s.Path, s.Code, s.BackendCode, msg)
	case s.Path != "":
		return fmt.Sprintf("davfs.%s %s: %s: %s", s.Op, s.Path, s.Code, msg)
	case s.BackendCode != 0:
		return fmt.Sprintf("davfs.%s: %s (code %d): %s", s.Op, s.Code, s.BackendCode, msg)
	default:
		return fmt.Sprintf("davfs.%s: %s: %s", s.Op, s.Code, msg)
	}
}

// Unwrap returns the coarse error category, if any.
func (s *Status) Unwrap() error {
	return s.Kind
}

// Is reports whether target is a *Status with the same code. A target with a
// non-zero BackendCode must also match the backend code.
func (s *Status) Is(target error) bool {
	t, ok := target.(*Status)
	if !ok {
		return false
	}
	if t.Code != s.Code {
		return false
	}
	return t.BackendCode == 0 || t.BackendCode == s.BackendCode
}

// WithPath sets the path on the status and returns it.
func (s *Status) WithPath(path string) *Status {
	s.Path = path
	return s
}

// New creates a Status with the given operation, code and message.
func New(op string, code ErrorCode, message string) *Status {
	return &Status{
		Op:      op,
		Code:    code,
		Message: message,
	}
}

// NewInternal creates a CodeInternal status for a failed backend call.
func NewInternal(op, path string, backendCode int, message string, kind error) *Status {
	return &Status{
		Op:          op,
		Path:        path,
		Code:        CodeInternal,
		BackendCode: backendCode,
		Message:     message,
		Kind:        kind,
	}
}

// InvalidOperation creates a status for an operation issued in the wrong state.
func InvalidOperation(op, message string) *Status {
	return New(op, CodeInvalidOperation, message)
}

// NotSupported creates a status for an operation the backend never supports.
func NotSupported(op string) *Status {
	return New(op, CodeNotSupported, "operation not supported")
}

// DataError creates a status for a backend response that could not be interpreted.
func DataError(op, path, message string) *Status {
	return &Status{
		Op:      op,
		Path:    path,
		Code:    CodeDataError,
		Message: message,
	}
}

// InvalidArgs creates a status for arguments the operation cannot satisfy.
func InvalidArgs(op, message string) *Status {
	return New(op, CodeInvalidArgs, message)
}

// Sentinel statuses for use with errors.Is(). They match any Status with the
// same code regardless of operation, path or message.
var (
	// ErrInvalidOperation matches statuses with CodeInvalidOperation
	ErrInvalidOperation = &Status{Code: CodeInvalidOperation, Message: "invalid operation"}

	// ErrNotSupported matches statuses with CodeNotSupported
	ErrNotSupported = &Status{Code: CodeNotSupported, Message: "operation not supported"}

	// ErrDataError matches statuses with CodeDataError
	ErrDataError = &Status{Code: CodeDataError, Message: "data error"}

	// ErrInternal matches statuses with CodeInternal
	ErrInternal = &Status{Code: CodeInternal, Message: "internal error"}

	// ErrInvalidArgs matches statuses with CodeInvalidArgs
	ErrInvalidArgs = &Status{Code: CodeInvalidArgs, Message: "invalid arguments"}
)

// IsInvalidOperation checks if the error is an invalid operation error.
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsNotSupported checks if the error is a not supported error.
func IsNotSupported(err error) bool {
	return errors.Is(err, ErrNotSupported)
}

// IsDataError checks if the error is a data error.
func IsDataError(err error) bool {
	return errors.Is(err, ErrDataError)
}

// IsInternal checks if the error is a backend failure.
func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

// IsInvalidArgs checks if the error is an invalid arguments error.
func IsInvalidArgs(err error) bool {
	return errors.Is(err, ErrInvalidArgs)
}

// CodeOf returns the code of the first Status in err's chain. It returns
// CodeUnknown for non-nil errors that carry no Status and "" for nil.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var s *Status
	if errors.As(err, &s) {
		return s.Code
	}
	return CodeUnknown
}

// AsStatus returns the first Status in err's chain.
func AsStatus(err error) (*Status, bool) {
	var s *Status
	if errors.As(err, &s) {
		return s, true
	}
	return nil, false
}

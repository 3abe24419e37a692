package transport

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// Code is a backend-neutral failure code. Values follow the Linux errno
// numbering so they stay meaningful when surfaced to callers.
type Code int

const (
	CodeUnknown      Code = -1
	CodeNotFound     Code = 2   // ENOENT
	CodeIO           Code = 5   // EIO
	CodeBadHandle    Code = 9   // EBADF
	CodePermission   Code = 13  // EACCES
	CodeExists       Code = 17  // EEXIST
	CodeNotDir       Code = 20  // ENOTDIR
	CodeIsDir        Code = 21  // EISDIR
	CodeInvalid      Code = 22  // EINVAL
	CodeTooLarge     Code = 27  // EFBIG
	CodeNotEmpty     Code = 39  // ENOTEMPTY
	CodeNotSupported Code = 95  // EOPNOTSUPP
	CodeTimeout      Code = 110 // ETIMEDOUT
	CodeCanceled     Code = 125 // ECANCELED
)

var codeNames = map[Code]string{
	CodeUnknown:      "unknown error",
	CodeNotFound:     "no such file or directory",
	CodeIO:           "input/output error",
	CodeBadHandle:    "bad file handle",
	CodePermission:   "permission denied",
	CodeExists:       "file exists",
	CodeNotDir:       "not a directory",
	CodeIsDir:        "is a directory",
	CodeInvalid:      "invalid argument",
	CodeTooLarge:     "file too large",
	CodeNotEmpty:     "directory not empty",
	CodeNotSupported: "operation not supported",
	CodeTimeout:      "operation timed out",
	CodeCanceled:     "operation canceled",
}

// String returns the errno-style description of the code.
func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("code %d", int(c))
}

// Kind returns the io/fs or context sentinel that corresponds to the code,
// or nil when there is none.
func (c Code) Kind() error {
	switch c {
	case CodeNotFound:
		return fs.ErrNotExist
	case CodeExists:
		return fs.ErrExist
	case CodePermission:
		return fs.ErrPermission
	case CodeInvalid:
		return fs.ErrInvalid
	case CodeBadHandle:
		return fs.ErrClosed
	case CodeTimeout:
		return context.DeadlineExceeded
	case CodeCanceled:
		return context.Canceled
	default:
		return nil
	}
}

// Error is a failed transport call.
type Error struct {
	// Op is the transport operation that failed (e.g., "open", "mkdir")
	Op string

	// Path is the remote path involved
	Path string

	// Code classifies the failure
	Code Code

	// HTTPStatus is the HTTP status code, when the backend speaks HTTP
	HTTPStatus int

	// Message is the backend's description of the failure
	Message string

	// Err is the underlying client error, if any
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code.String()
	}
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Path, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

// Unwrap returns the underlying client error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the io/fs and context sentinels that correspond to Code.
func (e *Error) Is(target error) bool {
	k := e.Code.Kind()
	return k != nil && k == target
}

// NewError creates an Error with the given code. The message defaults to the
// code's description.
func NewError(op, path string, code Code) *Error {
	return &Error{
		Op:      op,
		Path:    path,
		Code:    code,
		Message: code.String(),
	}
}

// Wrap converts err into an *Error. Errors that already are *Error are
// returned unchanged; context, io/fs and os errors are classified by their
// sentinel; anything else becomes CodeIO.
func Wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return te
	}

	code := CodeIO
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code = CodeTimeout
	case errors.Is(err, context.Canceled):
		code = CodeCanceled
	case errors.Is(err, fs.ErrNotExist):
		code = CodeNotFound
	case errors.Is(err, fs.ErrExist):
		code = CodeExists
	case errors.Is(err, fs.ErrPermission):
		code = CodePermission
	case errors.Is(err, fs.ErrClosed):
		code = CodeBadHandle
	case errors.Is(err, fs.ErrInvalid):
		code = CodeInvalid
	case errors.Is(err, errors.ErrUnsupported):
		code = CodeNotSupported
	}

	return &Error{
		Op:      op,
		Path:    path,
		Code:    code,
		Message: err.Error(),
		Err:     err,
	}
}

// CodeOf returns the Code of the first *Error in err's chain, CodeUnknown
// when there is none.
func CodeOf(err error) Code {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return CodeUnknown
}

// IsNotExist reports whether err is a CodeNotFound transport error.
func IsNotExist(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsExist reports whether err is a CodeExists transport error.
func IsExist(err error) bool {
	return CodeOf(err) == CodeExists
}

// Package errors defines the status values returned by davfs file and
// filesystem sessions. Every failed operation yields exactly one *Status
// carrying a stable error code, and for backend failures the backend's own
// numeric code and message.
package errors

// ErrorCode represents a specific failure class of a davfs operation.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Protocol errors.

	// CodeInvalidOperation indicates the operation is not valid in the
	// session's current state, such as reading a file that is not open.
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// CodeNotSupported indicates the operation is never supported by the backend.
	CodeNotSupported ErrorCode = "NOT_SUPPORTED"

	// Validation errors.

	// CodeInvalidArgs indicates caller supplied arguments that cannot be
	// satisfied, such as a destination buffer too small for a chunk.
	CodeInvalidArgs ErrorCode = "INVALID_ARGS"

	// CodeDataError indicates the backend answered but its response could not
	// be interpreted.
	CodeDataError ErrorCode = "DATA_ERROR"

	// System errors.

	// CodeInternal indicates the backend call itself failed. The backend code
	// and message are carried on the Status.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// String returns the string form of the code.
func (c ErrorCode) String() string {
	return string(c)
}

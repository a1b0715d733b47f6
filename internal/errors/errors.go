package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a clickr error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"     // 400
	ErrSchema            ErrorCode = "SCHEMA"              // 400
	ErrUnknownVariant    ErrorCode = "UNKNOWN_VARIANT"     // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"           // 404
	ErrFileNotFound      ErrorCode = "FILE_NOT_FOUND"      // 404
	ErrNameAlreadyExists ErrorCode = "NAME_ALREADY_EXISTS" // 409
	ErrLastLayer         ErrorCode = "LAST_LAYER"          // 409
	ErrFileTooLarge      ErrorCode = "FILE_TOO_LARGE"      // 413
	ErrCancelled         ErrorCode = "CANCELLED"           // 499
	ErrInternal          ErrorCode = "INTERNAL"            // 500
	ErrNotImplemented    ErrorCode = "NOT_IMPLEMENTED"     // 501
	ErrDaemonError       ErrorCode = "DAEMON_ERROR"        // 502
	ErrTransport         ErrorCode = "TRANSPORT"           // 502
	ErrInvalidResponse   ErrorCode = "INVALID_RESPONSE"    // 502
	ErrDaemonUnavailable ErrorCode = "DAEMON_UNAVAILABLE"  // 503
	ErrTimeout           ErrorCode = "TIMEOUT"             // 504
)

// ClickrError represents a structured error with code, status, and details.
type ClickrError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *ClickrError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ClickrError) Unwrap() error {
	return e.Err
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ClickrError {
	return &ClickrError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewSchema creates a 400 error for malformed profile JSON. field is the
// JSON path of the offending field.
func NewSchema(field, msg string) *ClickrError {
	return &ClickrError{
		Code:    ErrSchema,
		Status:  400,
		Message: fmt.Sprintf("%s: %s", field, msg),
		Details: map[string]any{"field": field},
	}
}

// NewUnknownVariant creates a 400 error for an unrecognized trigger or bind tag.
func NewUnknownVariant(kind, tag string) *ClickrError {
	return &ClickrError{
		Code:    ErrUnknownVariant,
		Status:  400,
		Message: fmt.Sprintf("unknown %s variant %q", kind, tag),
		Details: map[string]any{"kind": kind, "tag": tag},
	}
}

// NewNotFound creates a 404 error for when a profile cannot be found.
func NewNotFound(identifier string) *ClickrError {
	return &ClickrError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("profile not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for an import file that does not exist.
func NewFileNotFound(path string) *ClickrError {
	return &ClickrError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewFileTooLarge creates a 413 error for an import file over the size limit.
func NewFileTooLarge(max, actual int64) *ClickrError {
	return &ClickrError{
		Code:    ErrFileTooLarge,
		Status:  413,
		Message: fmt.Sprintf("file is %d bytes, limit is %d", actual, max),
		Details: map[string]any{"max_bytes": max, "actual_bytes": actual},
	}
}

// NewNameAlreadyExists creates a 409 error for profile name collisions.
func NewNameAlreadyExists(name string) *ClickrError {
	return &ClickrError{
		Code:    ErrNameAlreadyExists,
		Status:  409,
		Message: fmt.Sprintf("profile with name %q already exists", name),
		Details: map[string]any{"name": name},
	}
}

// NewLastLayer creates a 409 error for removing the only remaining layer.
func NewLastLayer() *ClickrError {
	return &ClickrError{
		Code:    ErrLastLayer,
		Status:  409,
		Message: "cannot remove the only remaining layer",
	}
}

// NewCancelled creates a 499 error when the caller cancelled the operation.
func NewCancelled(op string) *ClickrError {
	return &ClickrError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
		Details: map[string]any{"operation": op},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
// The message stays generic; the cause is kept in Details for logging.
func NewInternal(err error) *ClickrError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &ClickrError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
		Err:     err,
	}
}

// NewNotImplemented creates a 501 error for operations a variant does not support yet.
func NewNotImplemented(what string) *ClickrError {
	return &ClickrError{
		Code:    ErrNotImplemented,
		Status:  501,
		Message: fmt.Sprintf("%s is not implemented", what),
		Details: map[string]any{"operation": what},
	}
}

// NewDaemonError creates a 502 error for a daemon that answered with status "error".
func NewDaemonError(msg string) *ClickrError {
	if msg == "" {
		msg = "daemon reported an unspecified error"
	}
	return &ClickrError{
		Code:    ErrDaemonError,
		Status:  502,
		Message: msg,
	}
}

// NewTransport creates a 502 error for a connection that failed mid-request.
func NewTransport(err error) *ClickrError {
	return &ClickrError{
		Code:    ErrTransport,
		Status:  502,
		Message: fmt.Sprintf("daemon connection failed: %v", err),
		Err:     err,
	}
}

// NewInvalidResponse creates a 502 error for a response that is not valid JSON.
func NewInvalidResponse(err error) *ClickrError {
	return &ClickrError{
		Code:    ErrInvalidResponse,
		Status:  502,
		Message: fmt.Sprintf("cannot parse daemon response: %v", err),
		Err:     err,
	}
}

// NewDaemonUnavailable creates a 503 error when the daemon socket cannot be reached.
// Callers should read this as "daemon not running".
func NewDaemonUnavailable(address string, err error) *ClickrError {
	return &ClickrError{
		Code:    ErrDaemonUnavailable,
		Status:  503,
		Message: fmt.Sprintf("cannot connect to daemon at %s: %v", address, err),
		Details: map[string]any{"address": address},
		Err:     err,
	}
}

// NewTimeout creates a 504 error when the daemon did not answer in time.
func NewTimeout(op string) *ClickrError {
	return &ClickrError{
		Code:    ErrTimeout,
		Status:  504,
		Message: fmt.Sprintf("%s timed out waiting for daemon", op),
		Details: map[string]any{"operation": op},
	}
}

// Is checks if an error is (or wraps) a ClickrError with the given code.
func Is(err error, code ErrorCode) bool {
	var cErr *ClickrError
	if stderrors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}

// IsSchema reports whether err is any decoding failure: a malformed field or
// an unrecognized variant tag.
func IsSchema(err error) bool {
	return Is(err, ErrSchema) || Is(err, ErrUnknownVariant)
}

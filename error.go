package brochure

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINVALID       = "invalid"       // validation failed
	ENOTFOUND      = "not_found"     // entity does not exist
	EINTERNAL      = "internal"      // internal error
	EUNAVAILABLE   = "unavailable"   // external service unreachable
	EUNPROCESSABLE = "unprocessable" // model reply not in the expected shape
)

// Error represents an application error. Application errors carry a
// machine-readable code and a human-readable message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("brochure error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode returns the code of the root error, if available.
// Returns EINTERNAL for non-application errors and an empty string for nil.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the root error, if available.
// Returns a generic message for non-application errors and an empty
// string for nil.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf constructs an Error with a formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

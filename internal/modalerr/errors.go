package modalerr

import (
	"errors"
	"fmt"

	"github.com/muurk/modalstate/internal/urls"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeInvalidArgument indicates bad render parameters
	ErrTypeInvalidArgument ErrorType = iota
	// ErrTypeMalformedEvent indicates an unexpected event payload shape
	ErrTypeMalformedEvent
	// ErrTypeStaleViewVersion indicates the host rejected an outdated view hash
	ErrTypeStaleViewVersion
	// ErrTypeTransport indicates a network or protocol failure talking to the host
	ErrTypeTransport
	// ErrTypeAuth indicates the host rejected our credentials
	ErrTypeAuth
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeInvalidArgument:
		return "Invalid Argument"
	case ErrTypeMalformedEvent:
		return "Malformed Event"
	case ErrTypeStaleViewVersion:
		return "Stale View Version"
	case ErrTypeTransport:
		return "Transport Error"
	case ErrTypeAuth:
		return "Authentication Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is the error returned by every operation that handles a host event
type Error struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable error message
	Code    string    // Host error code (e.g. "hash_conflict"), if any
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Code != "" {
		msg += fmt.Sprintf(" [%s]", e.Code)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// NewInvalidArgument creates an invalid argument error
func NewInvalidArgument(format string, args ...any) *Error {
	return &Error{
		Type:    ErrTypeInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewMalformedEvent creates a malformed event error
func NewMalformedEvent(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeMalformedEvent,
		Message: message,
		Err:     err,
	}
}

// NewStaleViewVersion creates a stale view version error for the given view
func NewStaleViewVersion(viewID, code string) *Error {
	return &Error{
		Type:    ErrTypeStaleViewVersion,
		Message: fmt.Sprintf("view %s was updated by someone else", viewID),
		Code:    code,
	}
}

// NewTransportError creates a transport error
func NewTransportError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeTransport,
		Message: message,
		Err:     err,
	}
}

// NewHostError creates a transport error carrying the host's error code
func NewHostError(message, code string) *Error {
	return &Error{
		Type:    ErrTypeTransport,
		Message: message,
		Code:    code,
	}
}

// NewAuthError creates an authentication error
func NewAuthError(message, code string) *Error {
	return &Error{
		Type:    ErrTypeAuth,
		Message: message,
		Code:    code,
	}
}

// TypeOf returns the category of err, and false if err is not an *Error
func TypeOf(err error) (ErrorType, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Type, true
	}
	return 0, false
}

func isType(err error, t ErrorType) bool {
	got, ok := TypeOf(err)
	return ok && got == t
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return isType(err, ErrTypeInvalidArgument)
}

// IsMalformedEvent checks if an error is a malformed event error
func IsMalformedEvent(err error) bool {
	return isType(err, ErrTypeMalformedEvent)
}

// IsStaleViewVersion checks if an error is a stale view version error
func IsStaleViewVersion(err error) bool {
	return isType(err, ErrTypeStaleViewVersion)
}

// IsTransportError checks if an error is a transport error
func IsTransportError(err error) bool {
	return isType(err, ErrTypeTransport)
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	return isType(err, ErrTypeAuth)
}

// Hint returns operator-facing troubleshooting advice for an error
func Hint(err error) string {
	t, ok := TypeOf(err)
	if !ok {
		return "An unexpected error occurred. Check the log for details."
	}

	switch t {
	case ErrTypeInvalidArgument:
		return "A view was rendered with invalid parameters. Check view.checkboxes in the config."
	case ErrTypeMalformedEvent:
		return "The host sent an event without the expected selection state; it was dropped."
	case ErrTypeStaleViewVersion:
		return "Two updates raced for the same view; the older one was dropped. See " + urls.ViewsUpdate
	case ErrTypeAuth:
		return "The host rejected the token. Check slack.bot_token and slack.app_token. See " + urls.TokenTypes
	case ErrTypeTransport:
		return "Could not reach the host. The interaction has most likely timed out on the user's side."
	default:
		return "An error occurred. Please check the error message for details."
	}
}

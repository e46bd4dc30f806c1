package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind tags an error with the processing stage that produced it.
type Kind string

const (
	KindInternal      Kind = "internal"
	KindRequestShape  Kind = "request_shape"
	KindDecode        Kind = "decode"
	KindTranscription Kind = "transcription"
)

// Common error values
var (
	ErrNoFilePart     = New(KindRequestShape, "No file part")
	ErrNoSelectedFile = New(KindRequestShape, "No selected file")
	ErrEmptyInput     = New(KindDecode, "audio input is empty")
	ErrInvalidWindow  = New(KindInternal, "chunk window must be positive")
	ErrMissingConfig  = New(KindInternal, "configuration is required")
	ErrUnknownBackend = New(KindInternal, "unknown transcription backend")
)

// Error is a tagged error carrying the failing operation and its cause.
type Error struct {
	Kind    Kind
	Op      string
	message string
	cause   error
}

// New creates a new tagged error
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, message: message}
}

// Newf creates a new formatted tagged error
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, message: fmt.Sprintf(format, args...)}
}

// E wraps err with a kind and the name of the operation that failed.
// A nil err yields nil.
func E(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, cause: err}
}

// Error implements the error interface
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.message != "" && e.cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.message, e.cause)
	case e.Op != "" && e.cause != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.cause)
	case e.message != "" && e.cause != nil:
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	case e.cause != nil:
		return e.cause.Error()
	default:
		return e.message
	}
}

// Message returns the message without the operation prefix.
func (e *Error) Message() string {
	if e.message != "" {
		return e.message
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return ""
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches errors built from the same sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.message != "" && e.message == t.message
}

// KindOf reports the kind of the outermost tagged error in err's chain,
// or KindInternal when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is is errors.Is, re-exported so callers need a single import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

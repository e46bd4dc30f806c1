package errors

import (
	"net/http"

	apperrors "whisper-api/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindBadRequest ErrorKind = "bad_request"
	KindInternal   ErrorKind = "internal"
)

// APIError is the body of every failed response. Only the message is
// serialized, as {"error": "<message>"}.
type APIError struct {
	Kind      ErrorKind `json:"-"`
	Message   string    `json:"error"`
	RequestID string    `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// FromError maps a pipeline error onto an API error. Request shape errors
// become 400s; decode, transcription and internal failures become 500s
// carrying the error text.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}

	message := err.Error()
	if message == "" {
		message = "Internal server error"
	}

	if apperrors.KindOf(err) == apperrors.KindRequestShape {
		return NewBadRequestError(message)
	}
	return NewInternalError(message)
}

package apperror

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnavailable  = errors.New("service unavailable")
	ErrInternal     = errors.New("internal server error")
)

// AppError carries a human-readable message plus one of the sentinel kinds
// above, so handlers can map behavior without parsing message text.
type AppError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

// Unwrap exposes both the kind and the wrapped cause to errors.Is/As.
func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func New(kind error, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *AppError {
	return New(ErrNotFound, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(ErrUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(ErrForbidden, message, nil)
}

func Conflict(message string) *AppError {
	return New(ErrConflict, message, nil)
}

func Invalid(message string) *AppError {
	return New(ErrInvalidInput, message, nil)
}

func Unavailable(message string, err error) *AppError {
	return New(ErrUnavailable, message, err)
}

func Internal(message string, err error) *AppError {
	return New(ErrInternal, message, err)
}

// FromStore translates store-layer errors into the taxonomy above. Raw driver
// messages stay on the wrapped cause for logs and never decide the kind.
func FromStore(err error, notFoundMsg, conflictMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict(conflictMsg)
	default:
		return Internal("unexpected storage error", err)
	}
}

// MapErrorToStatus maps error kinds to HTTP status codes.
func MapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

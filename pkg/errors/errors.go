package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur during a run
type ErrorType string

const (
	ErrorTypeCatalogUnavailable ErrorType = "catalog_unavailable"
	ErrorTypeCatalogMalformed   ErrorType = "catalog_malformed"
	ErrorTypeNetwork            ErrorType = "network"
	ErrorTypeNotFound           ErrorType = "not_found"
	ErrorTypeServerError        ErrorType = "server_error"
	ErrorTypeInvalidItem        ErrorType = "invalid_item"
	ErrorTypeStorage            ErrorType = "storage"
	ErrorTypeUnknown            ErrorType = "unknown"
)

// Sentinels for errors.Is comparisons. Only the Type is compared.
var (
	ErrCatalogUnavailable = &Error{Type: ErrorTypeCatalogUnavailable}
	ErrCatalogMalformed   = &Error{Type: ErrorTypeCatalogMalformed}
	ErrNotFound           = &Error{Type: ErrorTypeNotFound}
	ErrInvalidItem        = &Error{Type: ErrorTypeInvalidItem}
	ErrStorage            = &Error{Type: ErrorTypeStorage}
)

// Error represents a typed error with an optional HTTP status code and cause
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

// New creates a typed error
func New(errorType ErrorType, code int, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errorType,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	}
}

// Wrap creates a typed error around a cause
func Wrap(errorType ErrorType, err error, message string) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Err:     err,
	}
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Type, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same type
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// TypeOf returns the ErrorType carried anywhere in err's chain
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsFatal checks if an error type aborts the whole run
func IsFatal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeCatalogUnavailable, ErrorTypeCatalogMalformed:
		return true
	default:
		return false
	}
}

// TypeForStatusCode maps a non-success HTTP status code to an error type
func TypeForStatusCode(statusCode int) ErrorType {
	switch {
	case statusCode == 0:
		return ErrorTypeNetwork
	case statusCode == 404 || statusCode == 410:
		return ErrorTypeNotFound
	case statusCode >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}

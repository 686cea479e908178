// Package apperr defines the error kinds shared by the store, service and HTTP layers.
//
// Services return errors built from these kinds; handlers map a kind to a status code
// with StatusCode and only ever show the user-safe message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error kinds. Compare with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failed")
	ErrReferentialConflict = errors.New("referential conflict")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrStore               = errors.New("store error")
	ErrReadOnly            = errors.New("read-only data source")
	ErrStaticProduct       = errors.New("static product")
)

// Error pairs a kind with a user-facing message and an optional cause
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && errors.Is(e.Kind, ErrStore) {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Is matches the kind of the error
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError carries every field violation of a record, not only the first one
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ", ")
}

// Is matches ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validation builds a ValidationError, or returns nil when there is no violation
func Validation(violations ...string) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

// NotFound reports that an entity id does not resolve, e.g. NotFound("Product")
func NotFound(entity string) error {
	return &Error{Kind: ErrNotFound, Message: entity + " not found"}
}

// Conflict reports a blocked delete or an unresolved foreign key
func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrReferentialConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidCredentials is returned for both unknown users and wrong passwords
func InvalidCredentials() error {
	return &Error{Kind: ErrInvalidCredentials, Message: "Invalid credentials"}
}

// Unauthorized reports a missing, expired or invalid token
func Unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// Forbidden reports an authenticated principal without the required rights
func Forbidden(message string) error {
	return &Error{Kind: ErrForbidden, Message: message}
}

// Store wraps an underlying storage failure
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ErrStore, Message: op, Err: err}
}

// ReadOnly reports a write against an immutable data source
func ReadOnly() error {
	return &Error{Kind: ErrReadOnly, Message: "Data source is read-only"}
}

// StaticProduct reports an attempt to mutate a built-in product
func StaticProduct() error {
	return &Error{Kind: ErrStaticProduct, Message: "Static products cannot be modified"}
}

// StatusCode maps an error kind to its HTTP status
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrReferentialConflict),
		errors.Is(err, ErrReadOnly),
		errors.Is(err, ErrStaticProduct):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message that is safe to send to a client
func PublicMessage(err error) string {
	if StatusCode(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

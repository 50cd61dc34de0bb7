// Package errx provides typed, registry-backed errors that carry an HTTP
// status and a machine-checkable code.
package errx

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
)

// Type classifies an error independently of its concrete code
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeBusiness      Type = "BUSINESS"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeInternal      Type = "INTERNAL"
	TypeExternal      Type = "EXTERNAL"
)

// HTTPStatus returns the default status for errors of this type
func (t Type) HTTPStatus() int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Code is a fully qualified error code, e.g. APPLICATION_NOT_FOUND
type Code string

func (c Code) String() string { return string(c) }

// Error is the error value returned across service and API boundaries
type Error struct {
	Code       Code           `json:"code"`
	Type       Type           `json:"type"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

// HTTPResponse is the JSON body written for an *Error
type HTTPResponse struct {
	Type    Type           `json:"type"`
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches two errx errors by code so errors.Is works against helper
// constructors such as ErrJobNotFound().
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetail attaches a single detail entry
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges the given details
func (e *Error) WithDetails(details map[string]any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	maps.Copy(e.Details, details)
	return e
}

// WithCause sets the underlying error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// ToHTTPResponse builds the response body for this error
func (e *Error) ToHTTPResponse() HTTPResponse {
	return HTTPResponse{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

func (e *Error) clone() *Error {
	c := *e
	if e.Details != nil {
		c.Details = maps.Clone(e.Details)
	}
	return &c
}

// New creates an unregistered error
func New(code Code, t Type, message string) *Error {
	return &Error{
		Code:       code,
		Type:       t,
		Message:    message,
		HTTPStatus: t.HTTPStatus(),
	}
}

// Wrap annotates err. If err already is (or wraps) an *Error, its code, type
// and status are kept and message is recorded as context.
func Wrap(err error, message string, t Type) *Error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return existing.clone().WithDetail("context", message)
	}

	return &Error{
		Code:       Code(string(t) + "_ERROR"),
		Type:       t,
		Message:    message,
		HTTPStatus: t.HTTPStatus(),
		Cause:      err,
	}
}

// As extracts an *Error from err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code
func IsCode(err error, code Code) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

// IsType reports whether err is an *Error of the given type
func IsType(err error, t Type) bool {
	e, ok := As(err)
	return ok && e.Type == t
}

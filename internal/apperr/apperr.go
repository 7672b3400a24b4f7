// Package apperr defines the errors that handlers report to API clients,
// each carrying a wire code, a human readable message and an HTTP status.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind is the category of an API error.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindNotFound       Kind = "not_found"
	KindRateLimited    Kind = "rate_limited"
	KindUnavailable    Kind = "unavailable"
	KindInternal       Kind = "internal"
)

// Wire codes sent to clients.
const (
	CodeInvalidVegetarian  = "INVALID_VEGETARIAN"
	CodeInvalidName        = "INVALID_NAME"
	CodeInvalidDifficulty  = "INVALID_DIFFICULTY"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotFound           = "NOT_FOUND"
	CodeNotAuthenticated   = "NOT_AUTHENTICATED"
	CodeLoginError         = "LOGIN_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUnavailable        = "UNAVAILABLE"
	CodeUnknown            = "UNKNOWN"
)

// Error is an error that can be rendered as an error envelope.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the status code the error is reported with.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithCause returns a copy of e that wraps cause.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.Cause = cause
	return &cp
}

// Validation creates a 400 error.
func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// Internal creates a 500 error wrapping cause.
func Internal(code, message string, cause error) *Error {
	return &Error{Kind: KindInternal, Code: code, Message: message, Cause: cause}
}

var (
	ErrInvalidVegetarian = Validation(CodeInvalidVegetarian, "The 'vegetarian' field should be a boolean.")
	ErrInvalidName       = Validation(CodeInvalidName, "The 'name' field is required.")
	ErrInvalidDifficulty = Validation(CodeInvalidDifficulty, "The 'difficulty' field should be an integer between 1 and 3.")
	ErrInvalidInput      = Validation(CodeInvalidInput, "Please provide data to update the Recipe.")
	ErrMalformedBody     = Validation(CodeInvalidInput, "The request body must be a JSON object.")

	ErrNotAuthenticated = &Error{
		Kind:    KindAuthentication,
		Code:    CodeNotAuthenticated,
		Message: "A valid access token is required.",
	}

	ErrLoginInput         = Validation(CodeLoginError, "Please provide a username and a password.")
	ErrInvalidCredentials = Validation(CodeInvalidCredentials, "Invalid username or password.")
	ErrLoginFailed        = Internal(CodeLoginError, "Unable to log in at the moment.", nil)
	ErrUnknown            = Internal(CodeUnknown, "Something went wrong, please try again later.", nil)
	ErrRateLimited        = &Error{Kind: KindRateLimited, Code: CodeRateLimited, Message: "Too many requests, slow down."}
	ErrServiceUnavailable = &Error{Kind: KindUnavailable, Code: CodeUnavailable, Message: "The service is not ready."}
)

// RecipeNotFound reports a missing recipe, echoing the requested id verbatim.
func RecipeNotFound(id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf("Recipe with ID %s does not exist.", id),
	}
}

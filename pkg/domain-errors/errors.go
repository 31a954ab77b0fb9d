// Package domainerrors provides coded errors that services return and the
// HTTP layer translates into response envelopes. Infrastructure facts (not
// found, conflict, expired) live in pkg/platform/sentinel; this package is
// for errors that carry meaning to the caller.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error. Codes are part of the API contract: the UI
// renders different guidance per code, so they must never be collapsed into a
// generic failure.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeValidation   Code = "validation_error"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal_error"

	// Admission-specific codes. A guest with an expired link must see a
	// distinct message from an audience member lacking membership, and both
	// must differ from the waiting state (which is not an error at all).
	CodeGuestLinkInvalid   Code = "guest_link_invalid"
	CodeMembershipRequired Code = "membership_required"
	CodeTerminalState      Code = "terminal_state"

	// Operational codes. Retryable by the caller; room_unavailable is fixed
	// by an operator provisioning the room, provider_unavailable by waiting.
	CodeRoomUnavailable     Code = "room_unavailable"
	CodeProviderUnavailable Code = "provider_unavailable"
)

// Error is a coded domain error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches two domain errors by code and message so errors.Is works
// against a freshly constructed target. The cause is deliberately ignored.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == other.Code && e.Message == other.Message
}

// New creates a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// CodeOf extracts the code from err, or CodeInternal if err is not a domain
// error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// Retryable reports whether the caller may retry the same request unchanged.
// Authorization denials and structural errors are terminal for the attempt.
func Retryable(err error) bool {
	switch CodeOf(err) {
	case CodeRoomUnavailable, CodeProviderUnavailable, CodeTimeout:
		return true
	}
	return false
}

// HTTPStatus maps a code to its HTTP status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeGuestLinkInvalid, CodeMembershipRequired:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeTerminalState:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeRoomUnavailable, CodeProviderUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

package domain

import "fmt"

// ErrorCode identifies the category of a domain error. Handlers map codes
// to HTTP statuses; callers branch on them with errors.As + Code.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "VALIDATION"
	CodeInvalidInput       ErrorCode = "INVALID_INPUT"
	CodeInvalidState       ErrorCode = "INVALID_STATE"
	CodePreconditionFailed ErrorCode = "PRECONDITION_FAILED"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeConflict           ErrorCode = "CONFLICT"
)

// Error is a typed domain error. All lifecycle and validation failures are
// synchronous and recoverable; the caller presents them and takes no
// remote action.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error returns the message.
func (e *Error) Error() string {
	return e.Message
}

// NewValidationError creates an error for a rejected request payload.
func NewValidationError(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// NewInvalidInputError creates an error for malformed or non-positive inputs
// (rates, durations, date/time values).
func NewInvalidInputError(message string) *Error {
	return &Error{Code: CodeInvalidInput, Message: message}
}

// NewInvalidStateError creates an error for a state transition that is not in
// the legal transition table.
func NewInvalidStateError(from, to string) *Error {
	return &Error{
		Code:    CodeInvalidState,
		Message: fmt.Sprintf("invalid state transition from %s to %s", from, to),
	}
}

// NewPreconditionFailedError creates an error for an action attempted outside
// its allowed window.
func NewPreconditionFailedError(message string) *Error {
	return &Error{Code: CodePreconditionFailed, Message: message}
}

// NewNotFoundError creates an error for a missing entity.
func NewNotFoundError(entity, id string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", entity, id),
	}
}

// NewForbiddenError creates an error for an actor not allowed to perform an action.
func NewForbiddenError(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// NewUnauthorizedError creates an error for a missing or invalid credential.
func NewUnauthorizedError(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// NewConflictError creates an error for a concurrent-modification or duplicate conflict.
func NewConflictError(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

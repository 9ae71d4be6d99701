package errors

import "fmt"

type InvalidStateError struct {
	msg string
}

func NewInvalidStateError(msg string) *InvalidStateError {
	return &InvalidStateError{msg: msg}
}

func (e *InvalidStateError) Error() string {
	return e.msg
}

type NilArgumentError struct {
	argument string
}

func NewNilArgumentError(argument string) *NilArgumentError {
	return &NilArgumentError{argument: argument}
}

func (e *NilArgumentError) Error() string {
	return fmt.Sprintf("argument '%s' must not be nil", e.argument)
}

// ValidationError reports client input that is malformed, missing or inconsistent.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field string, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type UnauthenticatedReason string

const (
	ReasonMissingCredential  = UnauthenticatedReason("missing credential")
	ReasonInvalidCredentials = UnauthenticatedReason("invalid credentials")
	ReasonIncorrectPassword  = UnauthenticatedReason("incorrect current password")
	ReasonInvalidToken       = UnauthenticatedReason("invalid token")
	ReasonRevoked            = UnauthenticatedReason("revoked")
	ReasonStaleCredential    = UnauthenticatedReason("stale credential")
)

// UnauthenticatedError carries the reason for server-side logs only.
// Callers must render it with a generic message.
type UnauthenticatedError struct {
	Reason UnauthenticatedReason
}

func NewUnauthenticatedError(reason UnauthenticatedReason) *UnauthenticatedError {
	return &UnauthenticatedError{Reason: reason}
}

func (e *UnauthenticatedError) Error() string {
	return fmt.Sprintf("unauthenticated: %s", e.Reason)
}

type ForbiddenError struct {
	Role string
}

func NewForbiddenError(role string) *ForbiddenError {
	return &ForbiddenError{Role: role}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role '%s' is not permitted", e.Role)
}

type NotFoundError struct {
	Entity string
}

func NewNotFoundError(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s does not exist", e.Entity)
}

type ConflictError struct {
	Field string
}

func NewConflictError(field string) *ConflictError {
	return &ConflictError{Field: field}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

type InvalidOrExpiredTokenError struct{}

func NewInvalidOrExpiredTokenError() *InvalidOrExpiredTokenError {
	return &InvalidOrExpiredTokenError{}
}

func (e *InvalidOrExpiredTokenError) Error() string {
	return "token is invalid or has expired"
}

// ServiceUnavailableError wraps a failure of an external collaborator
// after any compensating action has already been applied.
type ServiceUnavailableError struct {
	Err error
}

func NewServiceUnavailableError(err error) *ServiceUnavailableError {
	return &ServiceUnavailableError{Err: err}
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("service unavailable: %v", e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error {
	return e.Err
}

package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientBalance indicates a debit would drive a balance bucket below zero.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrDuplicatePending indicates a stakeholder already has a pending payout request.
var ErrDuplicatePending = errors.New("a pending payout request already exists")

// ErrInvalidState indicates an operation on a record whose lifecycle state forbids it,
// e.g. resolving an already-resolved payout request or settling a settled share.
var ErrInvalidState = errors.New("operation not allowed in current state")

// ErrConflict indicates a lost-update or concurrent modification was detected.
var ErrConflict = errors.New("concurrency conflict")

// ErrPolicyInconsistent indicates a split policy whose ratio groups do not sum to 100.
var ErrPolicyInconsistent = errors.New("policy configuration is inconsistent")

// ErrForbidden indicates the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// internal/util/errors.go
package util

import (
	"errors"
	"fmt"
)

// Common application-specific errors.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input provided")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrConflict            = errors.New("conflict")
	ErrSameAccountTransfer = fmt.Errorf("%w: cannot transfer to the same account", ErrConflict)
	ErrDuplicateHandle     = fmt.Errorf("%w: user id already taken", ErrConflict)
	ErrAccountNumberTaken  = fmt.Errorf("%w: account number already in use", ErrConflict)
	ErrAuth                = errors.New("authentication failed")
	ErrAttemptsExhausted   = fmt.Errorf("%w: too many incorrect attempts", ErrAuth)
	ErrTransactionFailed   = errors.New("transaction failed")
)

// ValidationError reports a malformed or out-of-range field.
// It matches ErrInvalidInput under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid is shorthand for building a *ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

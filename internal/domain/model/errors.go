package model

import (
	"errors"
	"fmt"
)

var (
	// ErrCustomerNotFound is returned when a referenced customer does not exist.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrLoanNotFound is returned when a referenced loan does not exist.
	ErrLoanNotFound = errors.New("loan not found")
	// ErrInvalidInput marks malformed numeric or identity inputs.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicatePhone is returned when registering a phone number that is already in use.
	ErrDuplicatePhone = errors.New("customer with this phone number already exists")
	// ErrConcurrentUpdate is returned when an optimistic version check fails.
	ErrConcurrentUpdate = errors.New("concurrent update conflict")
	// ErrLoanFullyRepaid is returned when recording a repayment beyond the tenure.
	ErrLoanFullyRepaid = errors.New("all installments already paid")
)

// InvalidInputf wraps ErrInvalidInput with a formatted detail message.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

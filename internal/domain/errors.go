package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidWorkflow = errors.New("invalid workflow configuration")
	ErrStateConflict   = errors.New("transaction state changed concurrently")
	ErrReasonRequired  = errors.New("reason is required")
)

// InvalidStateError signals that an operation was attempted against a
// transaction whose current state does not permit it (wrong status, wrong
// office, not received, not at the final step). All six routing operations
// raise it uniformly; the delivery layer maps it to an ineligibility response.
type InvalidStateError struct {
	Op     string
	Status TransactionStatus
	Msg    string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s not allowed: %s (status %q)", e.Op, e.Msg, e.Status)
}

func NewInvalidState(op string, status TransactionStatus, msg string) *InvalidStateError {
	return &InvalidStateError{Op: op, Status: status, Msg: msg}
}

// IsInvalidState reports whether err is a state-ineligibility failure.
func IsInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}

package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrDebtorNotFound = errors.New("debtor not found")
	ErrLoanNotFound   = errors.New("loan not found")
)

// ValidationError reports bad caller input. Never retried.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + " " + e.Msg
}

func Invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InvalidStateError reports an operation that is illegal for the
// entity's current state, e.g. a payment against a closed loan.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

func InvalidState(format string, args ...any) error {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

func IsInvalidState(err error) bool {
	var se *InvalidStateError
	return errors.As(err, &se)
}

// PersistenceError wraps a local storage failure. The operation that
// produced it is not committed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return "persistence: " + e.Op + ": " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// RemoteUnavailableError wraps a failed remote store call. Writes that
// hit it are queued, not failed, so callers normally never see it.
type RemoteUnavailableError struct {
	Err error
}

func (e *RemoteUnavailableError) Error() string { return "remote unavailable: " + e.Err.Error() }
func (e *RemoteUnavailableError) Unwrap() error { return e.Err }

func IsRemoteUnavailable(err error) bool {
	var re *RemoteUnavailableError
	return errors.As(err, &re)
}

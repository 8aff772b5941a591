package core

import "errors"

var (
	// ErrEmployeeNotFound means the employee id is not registered. Reported
	// to the caller as a status message, never fatal.
	ErrEmployeeNotFound = errors.New("employee not registered")

	// ErrInvalidTransition means the requested action is not valid from the
	// employee's current daily state. No mutation is applied.
	ErrInvalidTransition = errors.New("invalid attendance transition")

	// ErrDuplicateRecord means a record for (employee, date) already exists.
	// Raised when a concurrent tap wins the insert race; the resolver retries
	// the read-decide-write sequence once before surfacing it.
	ErrDuplicateRecord = errors.New("attendance record already exists")
)

// StorageError wraps unrecognized storage failures (connectivity, corruption)
// so callers can tell them apart from the reported conditions above.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return "attendance storage unavailable: " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

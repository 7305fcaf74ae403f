package service

import (
	"errors"
	"fmt"
)

// ErrNoObservations indicates an empty observation window. Callers fall back
// (mock insights) or report zero work; it never aborts a run.
var ErrNoObservations = errors.New("no observations in window")

// StoreError wraps a persistence failure. Store failures are fatal to the
// current run and surface to the caller, since they mean no progress was made.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeFailure(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// IsStoreError reports whether err is (or wraps) a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

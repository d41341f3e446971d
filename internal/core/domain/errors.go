package domain

import "errors"

// StoreErrorMessage is the generic fallback shown when the underlying
// store error carries no message of its own.
const StoreErrorMessage = "an error occurred while interacting with the database"

// ErrUnauthenticated is returned when an operation is attempted without
// an owner identity. Callers must fail fast rather than query with an
// empty owner.
var ErrUnauthenticated = errors.New("authentication required")

// ErrNotFound marks mutations that matched no document.
var ErrNotFound = errors.New("record not found")

// StoreError wraps any failure from the underlying document store.
// Repositories wrap and re-throw; they never swallow.
type StoreError struct {
	err error
}

func WrapStore(err error) error {
	if err == nil {
		return nil
	}

	var se *StoreError
	if errors.As(err, &se) {
		return err
	}

	return &StoreError{err: err}
}

func (e *StoreError) Error() string {
	if e.err != nil && e.err.Error() != "" {
		return e.err.Error()
	}

	return StoreErrorMessage
}

func (e *StoreError) Unwrap() error {
	return e.err
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

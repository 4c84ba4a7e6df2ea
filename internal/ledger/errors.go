package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrFeatureLocked is returned for every mutation attempted by a guest
	// identity. It is a policy outcome, not a failure.
	ErrFeatureLocked = errors.New("feature locked for guest sessions")

	// ErrNotFound covers both missing records and records owned by someone
	// else. Callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports a rejected input field. Row is the 1-based
// position of the record in a batch, or 0 for single-record operations.
type ValidationError struct {
	Row     int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PersistenceError wraps a store failure. Its message is for logs only and
// must not be shown to clients.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

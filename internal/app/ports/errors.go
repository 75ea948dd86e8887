package ports

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	// ErrTxDone is returned by unit-of-work scoped caches once their Tx has
	// committed or rolled back.
	ErrTxDone = errors.New("transaction already finished")
	// ErrInvariantViolation marks corrupted persisted state or a broken
	// caller contract. The unit of work must be aborted.
	ErrInvariantViolation = errors.New("invariant violation")
)

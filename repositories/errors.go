package repositories

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id or exact-name lookup has no
	// matching row.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidArgument is returned for nil entities, blank cart ids
	// and non-positive quantities.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTransactionInProgress is returned by BeginTransaction when a
	// transaction is already active.
	ErrTransactionInProgress = errors.New("a transaction is already in progress")

	// ErrNoTransaction is returned by commit or rollback when no
	// transaction is active.
	ErrNoTransaction = errors.New("no transaction is in progress")
)

// PersistenceError wraps a storage failure raised during save, begin,
// commit or rollback. The raw driver error is never returned bare.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

package sievego

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no sieve with the given name exists.
	ErrNotFound = errors.New("sieve not found")

	// ErrAlreadyExists is returned when creating a sieve whose name is
	// already registered.
	ErrAlreadyExists = errors.New("sieve already exists")

	// ErrRangeTooSmall is returned when the requested range is below 3,
	// the smallest range with a tracked odd candidate.
	ErrRangeTooSmall = errors.New("range too small: must be at least 3")

	// ErrNotSieved is returned when primes are queried or emitted before
	// the instance has been sieved.
	ErrNotSieved = errors.New("sieve has not been run")

	// ErrStorageExhausted is returned when creating a sieve would exceed
	// the configured storage budget.
	ErrStorageExhausted = errors.New("storage budget exhausted")
)

// SieveError wraps an error with the name of the sieve it occurred on.
type SieveError struct {
	Name string
	Err  error
}

func (e *SieveError) Error() string {
	return fmt.Sprintf("sieve %q: %v", e.Name, e.Err)
}

func (e *SieveError) Unwrap() error {
	return e.Err
}

func newSieveError(name string, err error) error {
	return &SieveError{Name: name, Err: err}
}

package services

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Every engine function wraps one of these so
// callers can branch with errors.Is and map kinds to HTTP statuses
// without string matching.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrPersistence  = errors.New("persistence failure")
	ErrAggregate    = errors.New("aggregate failure")
)

func notFound(what string, id uint) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
}

func invalidInput(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, reason)
}

func conflict(reason string) error {
	return fmt.Errorf("%w: %s", ErrConflict, reason)
}

func persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

// aggregate wraps the first underlying failure of a multi-entity
// operation. The per-entity outcomes travel separately.
func aggregate(op string, first error) error {
	return fmt.Errorf("%w: %s: %v", ErrAggregate, op, first)
}

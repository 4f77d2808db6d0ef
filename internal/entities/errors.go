package entities

import (
	"errors"
	"fmt"
)

// Store-level errors. Repositories translate driver errors into these so
// callers never depend on gorm directly.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// ErrConflict is matched by every error that reports a request colliding
// with the current state of the library.
var ErrConflict = errors.New("conflict")

// ErrInvalidArgument is matched by errors reporting a request that can
// never succeed, whatever the stored state.
var ErrInvalidArgument = errors.New("invalid argument")

type BookNotFoundError struct {
	ID uint
}

func (e *BookNotFoundError) Error() string {
	return fmt.Sprintf("book %d not found", e.ID)
}

func (e *BookNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type LocationNotFoundError struct {
	ID uint
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("location %d not found", e.ID)
}

func (e *LocationNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InsufficientCopiesError is returned when a quantity change would leave
// fewer than zero copies. Available is the stock seen by the failed
// operation, Requested the number of copies it tried to remove.
type InsufficientCopiesError struct {
	LocationID uint
	BookID     uint
	Available  int
	Requested  int
}

func (e *InsufficientCopiesError) Error() string {
	return fmt.Sprintf("insufficient copies of book %d at location %d: found %d, requested %d",
		e.BookID, e.LocationID, e.Available, e.Requested)
}

func (e *InsufficientCopiesError) Is(target error) bool {
	return target == ErrConflict
}

type BookAlreadyExistsError struct {
	ISBN string
}

func (e *BookAlreadyExistsError) Error() string {
	return fmt.Sprintf("book with isbn %s already exists", e.ISBN)
}

func (e *BookAlreadyExistsError) Is(target error) bool {
	return target == ErrConflict
}

type LocationAlreadyExistsError struct {
	Name string
}

func (e *LocationAlreadyExistsError) Error() string {
	return fmt.Sprintf("location %q already exists", e.Name)
}

func (e *LocationAlreadyExistsError) Is(target error) bool {
	return target == ErrConflict
}

// QuantityOutOfRangeError is returned when a quantity change cannot be
// represented: the result would overflow, or the delta has no positive
// counterpart.
type QuantityOutOfRangeError struct {
	LocationID uint
	BookID     uint
	Available  int
	Delta      int
}

func (e *QuantityOutOfRangeError) Error() string {
	return fmt.Sprintf("quantity change %d for book %d at location %d is out of range (found %d)",
		e.Delta, e.BookID, e.LocationID, e.Available)
}

func (e *QuantityOutOfRangeError) Is(target error) bool {
	return target == ErrInvalidArgument
}

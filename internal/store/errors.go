package store

import "errors"

var (
	// ErrNotFound is returned by mutating operations when the target
	// row does not exist (or vanished between lookup and update).
	ErrNotFound = errors.New("not found")

	// ErrAlreadyCompleted is returned when completing an assignment
	// that is already marked complete. Points are never credited twice.
	ErrAlreadyCompleted = errors.New("assignment already completed")

	// ErrDuplicateEmail is returned when registering a household with
	// an email that is already taken.
	ErrDuplicateEmail = errors.New("email already exists")
)

package repository

import "errors"

var (
	// ErrNotFound indicates no row matched the requested identifier and owner.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateName indicates a unique name constraint was violated.
	ErrDuplicateName = errors.New("name already taken")
)

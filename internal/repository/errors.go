package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a write violates a uniqueness
	// constraint (double assignment, double occupancy, double-active
	// ticket). Services map it to a business-rule failure.
	ErrConflict = errors.New("uniqueness constraint violated")
)

package repository

import "errors"

var (
	// ErrNotFound is returned when a targeted read finds no record.
	ErrNotFound = errors.New("todo not found")

	// ErrCorrupt is returned when a targeted read finds a value that does
	// not parse as a todo record.
	ErrCorrupt = errors.New("stored todo is corrupt")
)

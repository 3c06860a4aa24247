package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrCorruptState = errors.New("stored booking collection is not well-formed")

	ErrInvalidDateRange = errors.New("end date must be on or after start date")
)

package errors

import "errors"

var (
	ErrNotFound = errors.New("dining place not found")

	ErrInvalidID = errors.New("invalid dining place ID format")

	ErrDuplicateName = errors.New("dining place with this name already exists")
)

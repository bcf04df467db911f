package errors

import "errors"

var (
	ErrPlaceNotFound = errors.New("dining place not found")

	ErrInvalidID = errors.New("invalid dining place ID format")

	// ErrConcurrentUpdate means the conditional append lost a race: the slot
	// sequence changed between the validation read and the write.
	ErrConcurrentUpdate = errors.New("booking ledger changed concurrently")

	ErrLockHeld = errors.New("slot lock is already held")
)

package sessionstore

import "errors"

var (
	// ErrNotFound indicates the session file does not exist (or is expired) where
	// the operation requires it to.
	ErrNotFound = errors.New("sessionstore: session not found")

	// ErrDeserialization indicates the session file exists but is not a valid record.
	ErrDeserialization = errors.New("sessionstore: malformed session record")

	// ErrIO wraps any filesystem failure not otherwise classified.
	ErrIO = errors.New("sessionstore: i/o failure")

	// ErrCollision indicates exclusive create found a file for a freshly generated key.
	ErrCollision = errors.New("sessionstore: session key collision")

	// ErrInvalidConfig indicates the store or collector was constructed with bad parameters.
	ErrInvalidConfig = errors.New("sessionstore: invalid configuration")
)

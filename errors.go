package mongolog

import "errors"

var (
	// ErrNotInitialized is returned when the service is used before a
	// successful Initialize or after Close.
	ErrNotInitialized = errors.New("mongolog: service not initialized")

	// ErrStoreWrite wraps any failure to insert a record into the capped
	// collection. Flush returns it for observability; callers are expected
	// to ignore it on the request path.
	ErrStoreWrite = errors.New("mongolog: store write failed")

	// ErrInvalidSeverity is returned when parsing an unknown severity name.
	ErrInvalidSeverity = errors.New("mongolog: invalid severity")
)

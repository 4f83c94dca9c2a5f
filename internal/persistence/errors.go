package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a mutation would violate a uniqueness rule.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrUnavailable is returned when the backing store denies a read or
	// write. There is no retry path; callers abort the triggering operation.
	ErrUnavailable = errors.New("persistence: storage unavailable")
)

package cache

import "errors"

var (
	// ErrCapacityExhausted is returned by an insert when the cache is over its
	// bound and every remaining entry is NotRemovable (or the entry alone is
	// larger than the byte bound). The insert is not performed.
	ErrCapacityExhausted = errors.New("cache capacity exhausted")

	// ErrNotFound is returned by typed retrieval when no live entry exists.
	ErrNotFound = errors.New("key not found")

	// ErrTypeMismatch is returned by typed retrieval when the stored value is
	// not of the requested type.
	ErrTypeMismatch = errors.New("cached value has unexpected type")

	// ErrClosed is returned by inserts after Close.
	ErrClosed = errors.New("cache is closed")

	ErrInvalidConfig = errors.New("invalid cache config")
	ErrInvalidPolicy = errors.New("invalid cache item policy")
)

package api

import (
	"time"

	"github.com/krisalay/memory-cacher/types"
)

/*
Cacher defines the PUBLIC API of the cache.
This is a contract that guarantees certain behaviors, without exposing internals.
Sharding, eviction, expiration and locking all sit behind it.
*/
type Cacher interface {

	/*
		Add stores value under key with a SLIDING expiration window: the entry
		dies after expiration of idle time, not at now+expiration.

		BEHAVIOR:
		---------
		- If a live entry exists for key, nothing happens and Add returns false.
		  This is not an error.
		- A zero expiration means the entry never expires.
		- If the cache is full and nothing can be evicted, the error wraps
		  ErrCapacityExhausted and nothing is stored.
	*/
	Add(key string, value any, expiration time.Duration) (bool, error)

	// AddWithPolicy is Add with an explicit policy (sliding and/or absolute, priority).
	AddWithPolicy(key string, value any, p types.Policy) (bool, error)

	// Set replaces any existing entry for key. Expiration is a sliding window.
	Set(key string, value any, expiration time.Duration) error

	// SetWithPolicy is Set with an explicit policy.
	SetWithPolicy(key string, value any, p types.Policy) error

	/*
		Retrieve returns the value of the live entry for key.

		- A hit refreshes the sliding deadline of the entry, if it has one.
		- The bool is false when the key is missing or expired.
	*/
	Retrieve(key string) (any, bool)

	// Contains reports whether a live entry exists, without touching it.
	Contains(key string) bool

	/*
		RetrieveOrElse returns the cached value or, on a miss, calls producer,
		Adds the result and returns it.

		- No single-flight: concurrent misses each run producer.
		- The store-back is an Add, so under a race the first stored value stays.
		- A producer error is returned and nothing is cached.
	*/
	RetrieveOrElse(key string, expiration time.Duration, producer types.Producer) (any, error)

	// RetrieveOrElseWithPolicy is RetrieveOrElse with an explicit policy.
	RetrieveOrElseWithPolicy(key string, p types.Policy, producer types.Producer) (any, error)

	// Remove deletes key. Removing a missing key is safe.
	Remove(key string)

	// Close stops background work. It is safe to call more than once.
	Close()
}

// Package cache is an in-process key/value cache with absolute and sliding
// expiration, priority-weighted eviction and sharded locking.
//
// A cache is an explicit instance with an explicit lifetime:
//
//	c, err := cache.New(cache.Config{Capacity: 10_000})
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	c.Set("user:42", user, 5*time.Minute) // sliding: 5 minutes of idle time
//	v, ok := c.Retrieve("user:42")
//
// Duration-only Add and Set configure a sliding window. Use AddWithPolicy and
// SetWithPolicy for absolute deadlines and priorities. Add never overwrites a
// live entry; Set always does.
//
// Typed views move the type check to the retrieval boundary:
//
//	users := cache.Of[*User](c)
//	u, err := users.Retrieve("user:42") // ErrNotFound or ErrTypeMismatch
package cache

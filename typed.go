package cache

import (
	"fmt"
	"reflect"
	"time"

	"github.com/krisalay/memory-cacher/types"
)

/*
Typed is a view of a MemoryCacher that only deals in values of type T.

The store itself is type-agnostic. Typed moves the type check to the
retrieval boundary and makes it fallible: a value of another type comes back
as ErrTypeMismatch instead of a bad cast.
*/
type Typed[T any] struct {
	c *MemoryCacher
}

// Of returns the T-typed view of c. Views are cheap; several views of
// different types may share one cache.
func Of[T any](c *MemoryCacher) Typed[T] {
	return Typed[T]{c: c}
}

func (t Typed[T]) Add(key string, value T, expiration time.Duration) (bool, error) {
	return t.c.Add(key, value, expiration)
}

func (t Typed[T]) AddWithPolicy(key string, value T, p types.Policy) (bool, error) {
	return t.c.AddWithPolicy(key, value, p)
}

func (t Typed[T]) Set(key string, value T, expiration time.Duration) error {
	return t.c.Set(key, value, expiration)
}

func (t Typed[T]) SetWithPolicy(key string, value T, p types.Policy) error {
	return t.c.SetWithPolicy(key, value, p)
}

// Retrieve returns the value for key, ErrNotFound if there is no live entry,
// or ErrTypeMismatch if the stored value is not a T.
func (t Typed[T]) Retrieve(key string) (T, error) {
	v, ok := t.c.Retrieve(key)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return cast[T](key, v)
}

func (t Typed[T]) RetrieveOrElse(key string, expiration time.Duration, producer func() (T, error)) (T, error) {
	return t.RetrieveOrElseWithPolicy(key, types.SlidingPolicy(expiration), producer)
}

func (t Typed[T]) RetrieveOrElseWithPolicy(key string, p types.Policy, producer func() (T, error)) (T, error) {
	v, err := t.c.RetrieveOrElseWithPolicy(key, p, func() (any, error) {
		return producer()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return cast[T](key, v)
}

func cast[T any](key string, v any) (T, error) {
	if out, ok := v.(T); ok {
		return out, nil
	}
	var zero T
	if v == nil && nillable(reflect.TypeFor[T]()) {
		return zero, nil
	}
	return zero, fmt.Errorf("%w: %q holds %T, want %s", ErrTypeMismatch, key, v, reflect.TypeFor[T]())
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	}
	return false
}

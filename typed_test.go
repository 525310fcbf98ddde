package cache_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cache "github.com/krisalay/memory-cacher"
)

func TestTypedRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, cache.Config{})
	recs := cache.Of[record](c)

	require.NoError(t, recs.Set("r", record{ID: 3, Name: "three"}, time.Minute))
	got, err := recs.Retrieve("r")
	require.NoError(t, err)
	require.Equal(t, record{ID: 3, Name: "three"}, got)

	added, err := recs.Add("r", record{ID: 4}, time.Minute)
	require.NoError(t, err)
	require.False(t, added)
}

func TestTypedNotFound(t *testing.T) {
	c, _ := newTestCache(t, cache.Config{})

	_, err := cache.Of[int](c).Retrieve("missing")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestTypedMismatchIsNeverSilent(t *testing.T) {
	c, _ := newTestCache(t, cache.Config{})

	require.NoError(t, c.Set("k", "a string", 0))

	n, err := cache.Of[int](c).Retrieve("k")
	require.ErrorIs(t, err, cache.ErrTypeMismatch)
	require.Zero(t, n)

	require.NoError(t, c.Set("nil", nil, 0))
	_, err = cache.Of[int](c).Retrieve("nil")
	require.ErrorIs(t, err, cache.ErrTypeMismatch)

	p, err := cache.Of[*record](c).Retrieve("nil")
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestTypedRetrieveOrElse(t *testing.T) {
	c, _ := newTestCache(t, cache.Config{})
	ints := cache.Of[int](c)

	calls := 0
	produce := func() (int, error) {
		calls++
		return 99, nil
	}

	for i := 0; i < 3; i++ {
		v, err := ints.RetrieveOrElse("n", time.Minute, produce)
		require.NoError(t, err)
		require.Equal(t, 99, v)
	}
	require.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, err := ints.RetrieveOrElse("other", time.Minute, func() (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)

	require.NoError(t, c.Set("s", "str", 0))
	_, err = ints.RetrieveOrElse("s", time.Minute, produce)
	require.ErrorIs(t, err, cache.ErrTypeMismatch)
}

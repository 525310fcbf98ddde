package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManualAdvance(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManual(start)

	require.Equal(t, start, c.Now())
	require.Equal(t, start.Add(3*time.Second), c.Advance(3*time.Second))
	require.Equal(t, start.Add(3*time.Second), c.Now())

	c.Set(start)
	require.Equal(t, start, c.Now())
}

func TestSystemMovesForward(t *testing.T) {
	var c Clock = System{}
	a := c.Now()
	b := c.Now()
	require.False(t, b.Before(a))
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg, "test")

	m.Hit()
	m.Hit()
	m.Miss()
	m.Eviction()
	m.Expire()
	m.Reject()
	m.Entries(7)

	require.Equal(t, 2.0, testutil.ToFloat64(m.Hits))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Misses))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Evictions))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Expired))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Rejected))
	require.Equal(t, 7.0, testutil.ToFloat64(m.Size))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 6, n)
}

func TestPrometheusDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheus(reg, "dup")
	require.Panics(t, func() { NewPrometheus(reg, "dup") })
}

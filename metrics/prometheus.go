// Package metrics exports cache events to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/krisalay/memory-cacher/types"
)

// Prometheus implements types.Metrics with Prometheus collectors.
type Prometheus struct {
	Hits      prometheus.Counter
	Misses    prometheus.Counter
	Evictions prometheus.Counter
	Expired   prometheus.Counter
	Rejected  prometheus.Counter
	Size      prometheus.Gauge
}

var _ types.Metrics = (*Prometheus)(nil)

// NewPrometheus creates the collectors under namespace and registers them on reg.
// A nil reg registers on prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Prometheus{
		Hits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of reads that found a live entry",
		}),
		Misses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of reads that found no live entry",
		}),
		Evictions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Total number of entries evicted to stay under the bound",
		}),
		Expired: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_expirations_total",
			Help:      "Total number of entries removed after their deadline",
		}),
		Rejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_rejected_inserts_total",
			Help:      "Total number of inserts refused because nothing was evictable",
		}),
		Size: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Current number of stored entries",
		}),
	}
}

func (p *Prometheus) Hit()            { p.Hits.Inc() }
func (p *Prometheus) Miss()           { p.Misses.Inc() }
func (p *Prometheus) Eviction()       { p.Evictions.Inc() }
func (p *Prometheus) Expire()         { p.Expired.Inc() }
func (p *Prometheus) Reject()         { p.Rejected.Inc() }
func (p *Prometheus) Entries(n int64) { p.Size.Set(float64(n)) }

// Package metrics exports Prometheus metrics for note generation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ytnotes"

// CacheStats is satisfied by the transcript cache.
type CacheStats interface {
	Stats() (hits, misses int64)
	Len() int
}

// Exporter owns a registry and the generation metrics.
type Exporter struct {
	registry *prometheus.Registry

	generations *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// Config configures the exporter.
type Config struct {
	// LatencyBuckets in seconds. Transcript + LLM round trips are slow.
	LatencyBuckets []float64
}

// DefaultConfig returns default buckets.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}
}

// New creates an Exporter with Go runtime and process collectors registered.
func New(cfg Config) *Exporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	e := &Exporter{registry: prometheus.NewRegistry()}

	e.generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notes",
			Name:      "generations_total",
			Help:      "Note generation requests by style and outcome",
		},
		[]string{"style", "status"},
	)
	e.latency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "notes",
			Name:      "generation_duration_seconds",
			Help:      "End-to-end note generation latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"style"},
	)

	e.registry.MustRegister(
		e.generations,
		e.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return e
}

// ObserveGeneration records one finished generation.
func (e *Exporter) ObserveGeneration(style, status string, d time.Duration) {
	e.generations.WithLabelValues(style, status).Inc()
	e.latency.WithLabelValues(style).Observe(d.Seconds())
}

// WatchCache exposes transcript cache counters read at scrape time.
func (e *Exporter) WatchCache(c CacheStats) {
	e.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transcript_cache",
			Name:      "hits_total",
			Help:      "Transcript cache hits",
		}, func() float64 {
			hits, _ := c.Stats()
			return float64(hits)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transcript_cache",
			Name:      "misses_total",
			Help:      "Transcript cache misses",
		}, func() float64 {
			_, misses := c.Stats()
			return float64(misses)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "transcript_cache",
			Name:      "entries",
			Help:      "Transcripts held in the in-memory cache",
		}, func() float64 {
			return float64(c.Len())
		}),
	)
}

// Handler serves the registry in the Prometheus text format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{Registry: e.registry})
}

// Registry returns the underlying registry.
func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

// Package metrics defines the Prometheus collectors of an index build and
// exposes them for scraping or for a Pushgateway push at the end of a run.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds all collectors on a private registry, so several builders
// (for example in tests) never collide on the global one.
type Metrics struct {
	Registry            *prometheus.Registry
	DocsIndexedTotal    prometheus.Counter
	TokensTotal         prometheus.Counter
	TokensResolvedTotal prometheus.Counter
	IndexWordIDs        prometheus.Gauge
	IndexPostings       prometheus.Gauge
	IndexBytes          prometheus.Gauge
	BuildDuration       prometheus.Histogram
	BuildsTotal         *prometheus.CounterVec
	PublishTotal        *prometheus.CounterVec
	LastSuccess         prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		DocsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "docs_indexed_total",
				Help: "Total documents tokenized and merged into the index.",
			},
		),
		TokensTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tokens_total",
				Help: "Total tokens produced by the tokenizer.",
			},
		),
		TokensResolvedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tokens_resolved_total",
				Help: "Tokens found in the lexicon.",
			},
		),
		IndexWordIDs: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_word_ids",
				Help: "Distinct word IDs with at least one posting in the last build.",
			},
		),
		IndexPostings: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_postings",
				Help: "Total (word ID, document ID) pairs in the last build.",
			},
		),
		IndexBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_artifact_bytes",
				Help: "Size of the last written index artifact.",
			},
		),
		BuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "index_build_duration_seconds",
				Help:    "Wall-clock duration of index builds.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
			},
		),
		BuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "index_builds_total",
				Help: "Index builds by outcome (ok or the failure kind).",
			},
			[]string{"status"},
		),
		PublishTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "index_publish_total",
				Help: "Post-build publish operations by target and status.",
			},
			[]string{"target", "status"},
		),
		LastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_build_last_success_timestamp_seconds",
				Help: "Unix time of the last successful build.",
			},
		),
	}

	reg.MustRegister(
		m.DocsIndexedTotal,
		m.TokensTotal,
		m.TokensResolvedTotal,
		m.IndexWordIDs,
		m.IndexPostings,
		m.IndexBytes,
		m.BuildDuration,
		m.BuildsTotal,
		m.PublishTotal,
		m.LastSuccess,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveBuild records the outcome of one run. status is "ok" or a failure
// kind.
func (m *Metrics) ObserveBuild(status string, elapsed time.Duration) {
	m.BuildsTotal.WithLabelValues(status).Inc()
	m.BuildDuration.Observe(elapsed.Seconds())
	if status == "ok" {
		m.LastSuccess.SetToCurrentTime()
	}
}

// Handler returns the scrape HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Push sends the current values to a Pushgateway, replacing the previous
// push for job.
func (m *Metrics) Push(url string, job string) error {
	if err := push.New(url, job).Gatherer(m.Registry).Push(); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}

package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Result label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

const jobName = "saas_trend_digest"

// Metrics bundles Prometheus collectors for one digest process.
type Metrics struct {
	Registry        *prometheus.Registry
	SearchPages     *prometheus.CounterVec
	HitsCollected   prometheus.Counter
	Summaries       *prometheus.CounterVec
	Deliveries      *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	LastSuccessTime prometheus.Gauge
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	searchPages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_search_pages_total",
			Help: "Search pages requested, by result.",
		},
		[]string{"result"},
	)
	hits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "digest_hits_collected_total",
			Help: "Search hits normalized into records.",
		},
	)
	summaries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_summaries_total",
			Help: "Per-tag summarization attempts, by result.",
		},
		[]string{"result"},
	)
	deliveries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_deliveries_total",
			Help: "Per-recipient delivery attempts, by channel and result.",
		},
		[]string{"channel", "result"},
	)
	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "digest_run_duration_seconds",
			Help:    "Wall time of a full digest run.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)
	lastSuccess := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "digest_last_success_timestamp_seconds",
			Help: "Unix time of the last run whose delivery succeeded.",
		},
	)

	registry.MustRegister(searchPages, hits, summaries, deliveries, runDuration, lastSuccess)

	return &Metrics{
		Registry:        registry,
		SearchPages:     searchPages,
		HitsCollected:   hits,
		Summaries:       summaries,
		Deliveries:      deliveries,
		RunDuration:     runDuration,
		LastSuccessTime: lastSuccess,
	}
}

// IncSearchPage counts one search page request.
func (m *Metrics) IncSearchPage(result string) {
	if m == nil {
		return
	}
	m.SearchPages.WithLabelValues(result).Inc()
}

// AddHits adds n collected hits.
func (m *Metrics) AddHits(n int) {
	if m == nil {
		return
	}
	m.HitsCollected.Add(float64(n))
}

// IncSummary counts one per-tag summarization.
func (m *Metrics) IncSummary(result string) {
	if m == nil {
		return
	}
	m.Summaries.WithLabelValues(result).Inc()
}

// IncDelivery counts one delivery attempt on channel.
func (m *Metrics) IncDelivery(channel, result string) {
	if m == nil {
		return
	}
	m.Deliveries.WithLabelValues(channel, result).Inc()
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(d time.Duration, delivered bool) {
	if m == nil {
		return
	}
	m.RunDuration.Observe(d.Seconds())
	if delivered {
		m.LastSuccessTime.SetToCurrentTime()
	}
}

// Push sends the registry contents to a Prometheus Pushgateway.
func (m *Metrics) Push(gatewayURL string) error {
	if m == nil || gatewayURL == "" {
		return nil
	}
	if err := push.New(gatewayURL, jobName).Gatherer(m.Registry).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}

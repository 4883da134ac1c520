package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "explorer"

// Metrics holds the dashboard's Prometheus collectors.
type Metrics struct {
	LoadDuration prometheus.Histogram
	LoadFailures *prometheus.CounterVec
	Renders      *prometheus.CounterVec
	FeedEntries  *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time taken to load a dashboard snapshot from the data source.",
			Buckets:   prometheus.DefBuckets,
		}),
		LoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_failures_total",
			Help:      "Dashboard loads that failed, by stage.",
		}, []string{"stage"}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Dashboard renders, by output format.",
		}, []string{"format"}),
		FeedEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_entries",
			Help:      "Entries in the last loaded feed.",
		}, []string{"feed"}),
	}
	reg.MustRegister(m.LoadDuration, m.LoadFailures, m.Renders, m.FeedEntries)
	return m
}

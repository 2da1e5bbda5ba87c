package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the card
// generator.
type Metrics struct {
	RunsTotal        *prometheus.CounterVec // labels: status={success,error}
	RunDuration      prometheus.Histogram
	GeneratorRunning prometheus.Gauge

	// Fetch metrics.
	FetchFailures *prometheus.CounterVec // labels: source={combined,atlantic,north_pr,east_pr,caribbean,gridpoint}

	// Render metrics.
	RenderDuration   prometheus.Histogram
	CardBytes        prometheus.Gauge
	AdvisoriesActive prometheus.Gauge

	// Publishing metrics.
	RecordsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all generator metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marine_card",
			Name:      "runs_total",
			Help:      "Completed generation runs by status.",
		}, []string{"status"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "marine_card",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-compose-render run.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),
		GeneratorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "marine_card",
			Name:      "generator_running",
			Help:      "1 when the generator loop is active, 0 when shut down.",
		}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marine_card",
			Name:      "fetch_failures_total",
			Help:      "Bulletin and forecast-API fetch failures by source.",
		}, []string{"source"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "marine_card",
			Name:      "render_duration_seconds",
			Help:      "Duration of the HTML-to-JPEG render step.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CardBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "marine_card",
			Name:      "card_bytes",
			Help:      "Size in bytes of the most recently written card image.",
		}),
		AdvisoriesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "marine_card",
			Name:      "advisories_active",
			Help:      "Number of active advisory labels on the latest card.",
		}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marine_card",
			Name:      "records_published_total",
			Help:      "Run records published to the Kafka topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marine_card",
			Name:      "publish_errors_total",
			Help:      "Failed run record publishes.",
		}),
	}

	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.GeneratorRunning,
		m.FetchFailures,
		m.RenderDuration,
		m.CardBytes,
		m.AdvisoriesActive,
		m.RecordsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RunsTotal:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "marine_card", Name: "runs_total"}, []string{"status"}),
		RunDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "marine_card", Name: "run_duration_seconds"}),
		GeneratorRunning: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "marine_card", Name: "generator_running"}),
		FetchFailures:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "marine_card", Name: "fetch_failures_total"}, []string{"source"}),
		RenderDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "marine_card", Name: "render_duration_seconds"}),
		CardBytes:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "marine_card", Name: "card_bytes"}),
		AdvisoriesActive: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "marine_card", Name: "advisories_active"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "marine_card", Name: "records_published_total"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "marine_card", Name: "publish_errors_total"}),
	}
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hvac"

// Metrics holds the Prometheus counters, histograms, and gauges for the sizing service.
type Metrics struct {
	// Calculation metrics.
	CalculationsTotal *prometheus.CounterVec // labels: formula
	CalculationErrors *prometheus.CounterVec // labels: formula
	RequestDuration   *prometheus.HistogramVec

	// Weather dataset metrics.
	WeatherUploads        *prometheus.CounterVec // labels: outcome={loaded,cached,parse_error,rejected}
	WeatherQueries        *prometheus.CounterVec // labels: result={found,not_found,no_dataset}
	WeatherRecords        prometheus.Gauge
	WeatherIngestDuration prometheus.Histogram

	// Dataset event publishing.
	DatasetEvents         *prometheus.CounterVec // labels: outcome={published,error}
	DatasetPublishEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(
		m.CalculationsTotal,
		m.CalculationErrors,
		m.RequestDuration,
		m.WeatherUploads,
		m.WeatherQueries,
		m.WeatherRecords,
		m.WeatherIngestDuration,
		m.DatasetEvents,
		m.DatasetPublishEnabled,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as
// many as they need without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}

	return &Metrics{
		CalculationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      help("Calculations served, by formula."),
		}, []string{"formula"}),
		CalculationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculation_errors_total",
			Help:      help("Calculation requests rejected for invalid input, by formula."),
		}, []string{"formula"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      help("HTTP request duration by route, method and status."),
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"route", "method", "status"}),
		WeatherUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_uploads_total",
			Help:      help("Weather file uploads by outcome."),
		}, []string{"outcome"}),
		WeatherQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_queries_total",
			Help:      help("Weather point queries by result."),
		}, []string{"result"}),
		WeatherRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "weather_records",
			Help:      help("Records in the currently loaded weather dataset."),
		}),
		WeatherIngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_ingest_duration_seconds",
			Help:      help("Time to parse and index an uploaded weather file."),
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		DatasetEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_events_total",
			Help:      help("Dataset-loaded events sent to Kafka by outcome."),
		}, []string{"outcome"}),
		DatasetPublishEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_publish_enabled",
			Help:      help("1 when dataset events are published to Kafka, 0 otherwise."),
		}),
	}
}

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sentiment"

// Metrics holds the service's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	predictions  *prometheus.CounterVec
	failures     *prometheus.CounterVec
	fallbacks    prometheus.Counter
	itemFailures prometheus.Counter
	datasetRows  *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Texts classified, by top label.",
		}, []string{"label"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_failures_total",
			Help:      "Rejected prediction requests, by error code.",
		}, []string{"code"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_fallbacks_total",
			Help:      "Batch classification calls that fell back to per-item calls.",
		}),
		itemFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_item_failures_total",
			Help:      "Texts that could not be classified after fallback.",
		}),
		datasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows held in memory per dataset.",
		}, []string{"dataset"}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.predictions,
		m.failures,
		m.fallbacks,
		m.itemFailures,
		m.datasetRows,
	)
	return m
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Prediction counts one classified text under its top label
func (m *Metrics) Prediction(label string) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(label).Inc()
}

// PredictionFailure counts a rejected prediction request
func (m *Metrics) PredictionFailure(code string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(code).Inc()
}

// ClassifierFallback counts a batch call that fell back to per-item calls
func (m *Metrics) ClassifierFallback() {
	if m == nil {
		return
	}
	m.fallbacks.Inc()
}

// ClassifierItemFailure counts a text that failed even per-item
func (m *Metrics) ClassifierItemFailure() {
	if m == nil {
		return
	}
	m.itemFailures.Inc()
}

// DatasetRows sets the row gauge of a dataset
func (m *Metrics) DatasetRows(dataset string, rows int) {
	if m == nil {
		return
	}
	m.datasetRows.WithLabelValues(dataset).Set(float64(rows))
}

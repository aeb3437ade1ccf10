package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the inventory shell.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestErrors   *prometheus.CounterVec
	listSize        *prometheus.GaugeVec
	submissions     *prometheus.CounterVec
	uploadFallbacks prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// metrics in it. A private registry avoids "duplicate collector" panics when
// NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inventory_api_request_duration_seconds",
				Help:    "Duration of backend API calls by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		requestErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_api_errors_total",
				Help: "Backend API failures by error kind.",
			},
			[]string{"kind"},
		),
		listSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "inventory_list_size",
				Help: "Records currently held in memory per resource.",
			},
			[]string{"resource"},
		),
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_form_submissions_total",
				Help: "Form submissions by form and outcome.",
			},
			[]string{"form", "outcome"},
		),
		uploadFallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "inventory_upload_fallbacks_total",
				Help: "Uploads served from a local preview instead of the backend.",
			},
		),
	}
}

// RecordRequestDuration records the duration of one backend call.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrRequestError counts a failed call by error kind.
func (m *Metrics) IncrRequestError(kind string) {
	m.requestErrors.WithLabelValues(kind).Inc()
}

// SetListSize records the size of a resource list.
func (m *Metrics) SetListSize(resource string, n int) {
	m.listSize.WithLabelValues(resource).Set(float64(n))
}

// IncrSubmission counts a form submission outcome (success, invalid, failed, composite).
func (m *Metrics) IncrSubmission(form, outcome string) {
	m.submissions.WithLabelValues(form, outcome).Inc()
}

// IncrUploadFallback counts an upload that fell back to a local preview.
func (m *Metrics) IncrUploadFallback() {
	m.uploadFallbacks.Inc()
}

// Snapshot is the summary shown on the shell's state endpoint.
type Snapshot struct {
	TransportErrors  int64 `json:"transportErrors"`
	StatusErrors     int64 `json:"statusErrors"`
	ValidationErrors int64 `json:"validationErrors"`
	UploadFallbacks  int64 `json:"uploadFallbacks"`
}

// Snapshot reads the current cumulative counter values.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		TransportErrors:  int64(counterValue(m.requestErrors.WithLabelValues("transport"))),
		StatusErrors:     int64(counterValue(m.requestErrors.WithLabelValues("status"))),
		ValidationErrors: int64(counterValue(m.requestErrors.WithLabelValues("validation"))),
		UploadFallbacks:  int64(counterValue(m.uploadFallbacks)),
	}
}

// counterValue extracts the current float64 value of a counter.
func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

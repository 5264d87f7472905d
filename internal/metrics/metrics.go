package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis outcome label values.
const (
	OutcomeSuccess             = "success"
	OutcomeValidationError     = "validation_error"
	OutcomeProviderUnavailable = "provider_unavailable"
	OutcomeInvalidResponse     = "invalid_response"
	OutcomeBusy                = "busy"
)

// Snapshot operation label values.
const (
	SnapshotSave = "save"
	SnapshotLoad = "load"

	SnapshotOK    = "ok"
	SnapshotEmpty = "empty"
	SnapshotError = "error"
)

// Recorder holds the collectors registered at startup.
type Recorder struct {
	registry         *prometheus.Registry
	analyses         *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	snapshots        *prometheus.CounterVec
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rankcheck_analyses_total",
			Help: "Total rank-check analyses by outcome",
		}, []string{"outcome"}),
		analysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rankcheck_analysis_duration_seconds",
			Help:    "Time spent waiting on the analysis provider",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		}, []string{"outcome"}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rankcheck_snapshot_operations_total",
			Help: "Saved-analysis operations by kind and result",
		}, []string{"operation", "result"}),
	}
	r.registry.MustRegister(
		r.analyses,
		r.analysisDuration,
		r.snapshots,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Init installs the process-wide recorder. Must be called once at startup;
// until then every Observe/Record call is a no-op.
func Init() *Recorder {
	recorderOnce.Do(func() {
		recorder = NewRecorder()
	})
	return recorder
}

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveAnalysis records one analysis outcome. Provider latency is only
// observed for outcomes that reached the provider.
func ObserveAnalysis(outcome string, elapsed time.Duration) {
	if recorder == nil {
		return
	}
	recorder.analyses.WithLabelValues(outcome).Inc()
	if elapsed > 0 {
		recorder.analysisDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	}
}

// RecordSnapshot records a save or load and whether it did anything.
func RecordSnapshot(operation, result string) {
	if recorder == nil {
		return
	}
	recorder.snapshots.WithLabelValues(operation, result).Inc()
}

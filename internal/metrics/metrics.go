package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pdf2text"

// Recorder holds the collectors of one run on a private registry. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	reg *prometheus.Registry

	documents       *prometheus.CounterVec
	backendCalls    *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
	fallbacks       prometheus.Counter
	documentLatency prometheus.Histogram
}

// New creates a Recorder and registers its collectors.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_total",
				Help:      "Documents converted by result (success, error)",
			},
			[]string{"result"},
		),
		backendCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backend_invocations_total",
				Help:      "Extraction backend invocations by backend and result",
			},
			[]string{"backend", "result"},
		),
		backendLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_duration_seconds",
				Help:      "Duration of extraction backend invocations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
		fallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallbacks_total",
				Help:      "Auto-mode fallbacks from the structured to the simple backend",
			},
		),
		documentLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "document_duration_seconds",
				Help:      "End-to-end conversion time per document",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
	r.reg.MustRegister(r.documents, r.backendCalls, r.backendLatency, r.fallbacks, r.documentLatency)
	return r
}

// ObserveBackend records one backend invocation.
func (r *Recorder) ObserveBackend(backend string, dur time.Duration, err error) {
	if r == nil {
		return
	}
	r.backendCalls.WithLabelValues(backend, resultLabel(err)).Inc()
	r.backendLatency.WithLabelValues(backend).Observe(dur.Seconds())
}

// ObserveDocument records the outcome of one document conversion.
func (r *Recorder) ObserveDocument(dur time.Duration, fallback bool, err error) {
	if r == nil {
		return
	}
	r.documents.WithLabelValues(resultLabel(err)).Inc()
	r.documentLatency.Observe(dur.Seconds())
	if fallback {
		r.fallbacks.Inc()
	}
}

// WriteFile writes all metrics to path in the Prometheus text format, ready
// for a node-exporter textfile collector.
func (r *Recorder) WriteFile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.reg)
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

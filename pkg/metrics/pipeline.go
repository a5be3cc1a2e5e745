package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records outcomes of the normalization pipeline and its
// upstream fetches.
type PipelineMetrics struct {
	normalized       *prometheus.CounterVec
	classificationEr prometheus.Counter
	droppedPoints    prometheus.Counter
	warnings         prometheus.Counter
	upstreamRequests *prometheus.CounterVec
	upstreamDuration prometheus.Histogram
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	normalized := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_metrics_normalized",
		Help: "Metrics normalized successfully, by category.",
	}, []string{"category"})
	classificationEr := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_classification_errors",
		Help: "Requested metric identifiers that failed classification.",
	})
	droppedPoints := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_dropped_points",
		Help: "Series points dropped because a value or date failed to parse.",
	})
	warnings := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_validation_warnings",
		Help: "Non-fatal validation warnings surfaced by normalization.",
	})
	upstreamRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests",
		Help: "Upstream metric fetches, by outcome.",
	}, []string{"outcome"})
	upstreamDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of upstream metric fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(normalized, classificationEr, droppedPoints, warnings, upstreamRequests, upstreamDuration)
	return &PipelineMetrics{
		normalized:       normalized,
		classificationEr: classificationEr,
		droppedPoints:    droppedPoints,
		warnings:         warnings,
		upstreamRequests: upstreamRequests,
		upstreamDuration: upstreamDuration,
	}
}

// IncNormalized increments the normalized counter for the given category.
func (p *PipelineMetrics) IncNormalized(category string) {
	if p == nil || p.normalized == nil {
		return
	}
	p.normalized.WithLabelValues(normalizeLabel(category)).Inc()
}

// IncClassificationErrors adds the number of failed classifications.
func (p *PipelineMetrics) IncClassificationErrors(n int) {
	if p == nil || p.classificationEr == nil || n <= 0 {
		return
	}
	p.classificationEr.Add(float64(n))
}

// IncDroppedPoints adds the number of dropped series points.
func (p *PipelineMetrics) IncDroppedPoints(n int) {
	if p == nil || p.droppedPoints == nil || n <= 0 {
		return
	}
	p.droppedPoints.Add(float64(n))
}

// IncWarnings adds the number of validation warnings.
func (p *PipelineMetrics) IncWarnings(n int) {
	if p == nil || p.warnings == nil || n <= 0 {
		return
	}
	p.warnings.Add(float64(n))
}

// ObserveUpstream records one upstream fetch with its outcome and duration.
func (p *PipelineMetrics) ObserveUpstream(outcome string, duration time.Duration) {
	if p == nil || p.upstreamRequests == nil {
		return
	}
	p.upstreamRequests.WithLabelValues(normalizeLabel(outcome)).Inc()
	p.upstreamDuration.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "docstore"

// Forward outcomes.
const (
	OutcomeStructured  = "structured"
	OutcomeRaw         = "raw"
	OutcomeUnavailable = "upstream_unavailable"
)

var (
	uploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total documents uploaded",
	})

	extractionFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extraction_failed_total",
		Help:      "Extractions that degraded to empty text",
	}, []string{"format"})

	agentForwardTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "agent_forward_total",
		Help:      "Chat requests forwarded to the agent, by outcome",
	}, []string{"outcome"})

	panicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_panics_total",
		Help:      "Handler panics caught by the recovery middleware",
	})

	agentForwardDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "agent_forward_duration_seconds",
		Help:      "Agent round-trip duration in seconds",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})
)

// IncUploads increments the upload counter.
func IncUploads() {
	uploadsTotal.Inc()
}

// IncExtractionFailed records an extraction that fell back to empty text.
func IncExtractionFailed(format string) {
	if format == "" {
		format = "unknown"
	}
	extractionFailedTotal.WithLabelValues(format).Inc()
}

// IncPanics counts a recovered handler panic.
func IncPanics() {
	panicsTotal.Inc()
}

// ObserveAgentForward records a completed agent call.
func ObserveAgentForward(outcome string, elapsed time.Duration) {
	agentForwardTotal.WithLabelValues(outcome).Inc()
	if elapsed < 0 {
		elapsed = 0
	}
	agentForwardDuration.Observe(elapsed.Seconds())
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	GenerationRequests prometheus.Counter
	GenerationLatency  prometheus.Histogram
	GenerationFallback prometheus.Counter
	GenerationExhaust  prometheus.Counter
	GenerationErrors   *prometheus.CounterVec

	UsageRecordErrors prometheus.Counter
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		GenerationRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "promptforge_generation_requests_total",
			Help: "Total number of generation requests processed",
		}),

		GenerationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "promptforge_generation_duration_seconds",
			Help:    "Generation request latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}, // up to 2 minutes for LLM responses
		}),

		GenerationFallback: promauto.NewCounter(prometheus.CounterOpts{
			Name: "promptforge_generation_fallback_total",
			Help: "Generations that fell back to the native provider call",
		}),

		GenerationExhaust: promauto.NewCounter(prometheus.CounterOpts{
			Name: "promptforge_generation_exhausted_total",
			Help: "Generations where neither backend produced usable text",
		}),

		GenerationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "promptforge_generation_errors_total",
			Help: "Provider call errors by backend",
		}, []string{"backend"}),

		UsageRecordErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "promptforge_usage_record_errors_total",
			Help: "Best-effort usage recording failures",
		}),
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance (nil before InitMetrics)
func GetMetrics() *Metrics {
	return globalMetrics
}

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluatorCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluator_calls_total",
			Help: "Evaluator invocations by role and outcome",
		},
		[]string{"role", "outcome"}, // outcome: success, failure
	)

	EvaluatorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evaluator_call_duration_seconds",
			Help:    "Latency of a single evaluator call",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"role"},
	)

	OrchestrationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "evaluator_orchestration_failures_total",
			Help: "Dispatches that failed as a whole",
		},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Recommendation results by tier",
		},
		[]string{"tier"},
	)

	RecommendationCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_cache_lookups_total",
			Help: "Recommendation cache lookups by result",
		},
		[]string{"result"}, // hit, miss, error
	)

	StreamItems = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "category_stream_items_total",
			Help: "Movies emitted on category streams",
		},
	)

	StreamsClosed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "category_streams_closed_total",
			Help: "Category streams closed, by the state that led to closing",
		},
		[]string{"reason"}, // exhausted, cancelled, failed
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests through a circuit breaker by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)
)

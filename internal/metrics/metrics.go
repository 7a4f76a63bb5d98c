// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cyberdoctor"

var (
	IntentClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "intent_classified_total",
		Help:      "Classified user turns by intent and classification source (keyword or llm).",
	}, []string{"intent", "source"})

	IntentFallback = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "intent_fallback_total",
		Help:      "LLM classifications that defaulted to PlainText.",
	}, []string{"reason"})

	DispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_duration_seconds",
		Help:      "Time spent producing a handler result (streams are timed until opened).",
		Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"intent"})

	DispatchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatch_failures_total",
		Help:      "Handler errors and nil payloads by intent.",
	}, []string{"intent"})

	SearchWorkers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_workers_total",
		Help:      "Finished search workers by engine and outcome.",
	}, []string{"engine", "status"})

	SearchPagesCached = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_pages_cached_total",
		Help:      "Result pages written to search cache directories.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"route", "status"})
)

// Label values.
const (
	SourceKeyword = "keyword"
	SourceLLM     = "llm"

	ReasonUnmatched     = "unmatched"
	ReasonEmptyResponse = "empty_response"

	StatusOK    = "ok"
	StatusEmpty = "empty"
	StatusError = "error"
)

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "sitegen"

	metricLabelDocument = "document"
	metricLabelStatus   = "status"
)

// Metrics is the structure that holds all prometheus metrics
var (
	// FetchCounter counts the number of document fetches per document kind
	FetchCounter = newCounterVec(
		"fetch_count",
		"Number of content document fetches",
		metricLabelDocument, metricLabelStatus,
	)
	// FetchDuration observes the duration of each document fetch
	FetchDuration = newSummaryVec(
		"fetch_duration_seconds",
		"Seconds to fetch and decode one content document",
		metricLabelDocument,
	)
	// PagesRenderedCounter counts the number of rendered pages
	PagesRenderedCounter = newCounterVec(
		"pages_rendered_count",
		"Number of pages rendered during builds",
	)
	// BuildsCompletedCounter counts the number of builds that went through
	BuildsCompletedCounter = newCounterVec(
		"builds_completed_count",
		"Number of builds that were successfully completed",
	)
	// BuildsFailedCounter counts the number of builds that had an error
	BuildsFailedCounter = newCounterVec(
		"builds_failed_count",
		"Number of builds that failed due to an error",
	)
	// BuildDuration observes the duration of each full build
	BuildDuration = newSummaryVec(
		"build_duration_seconds",
		"Duration in seconds for each successful build",
	)
)

// Handler exposes the default prometheus registry on /metrics.
func Handler() http.Handler {
	h := http.NewServeMux()
	h.Handle("/metrics", promhttp.Handler())
	return h
}

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

// Package metrics provides Prometheus metrics for the price oracle.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SourceFetchesTotal is a counter of quote fetch attempts per source.
	SourceFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetches_total",
			Help: "Total number of quote fetch attempts per source",
		},
		[]string{"source", "status"},
	)

	// SourceFetchDuration is a histogram of quote fetch latencies.
	SourceFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Duration of quote fetches per source",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	// SourceHealth is a gauge of the health status of price sources.
	SourceHealth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "source_health",
			Help: "Health status of price sources (1=last fetch succeeded, 0=failed)",
		},
		[]string{"source"},
	)

	// AggregationDuration is a histogram of price aggregation duration.
	AggregationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "price_aggregation_duration_seconds",
			Help:    "Duration of full aggregation cycles",
			Buckets: prometheus.DefBuckets,
		},
	)

	// OutlierRejectionsTotal is a counter of rejected outlier quotes.
	OutlierRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outlier_rejections_total",
			Help: "Total number of outlier quotes rejected",
		},
		[]string{"source"},
	)

	// DegradedAggregationsTotal counts cycles that fell back to the unfiltered quote set.
	DegradedAggregationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "degraded_aggregations_total",
			Help: "Total number of aggregation cycles that used the unfiltered quote set",
		},
	)

	// ConfidenceScore is a gauge of the most recent confidence score.
	ConfidenceScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "confidence_score",
			Help: "Confidence score of the most recent aggregation (0-1)",
		},
	)

	// CacheHitsTotal is a counter of result cache hits.
	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "result_cache_hits_total",
			Help: "Total number of aggregation result cache hits",
		},
	)

	// CacheMissesTotal is a counter of result cache misses.
	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "result_cache_misses_total",
			Help: "Total number of aggregation result cache misses",
		},
	)

	// HTTPRequestsTotal is a counter of total HTTP requests.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "status"},
	)

	// HTTPRequestDuration is a histogram of HTTP request latencies.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"endpoint"},
	)
)

// Init initializes Prometheus metrics registry.
func Init() {
	// Register all metrics
	prometheus.MustRegister(
		SourceFetchesTotal,
		SourceFetchDuration,
		SourceHealth,
		AggregationDuration,
		OutlierRejectionsTotal,
		DegradedAggregationsTotal,
		ConfidenceScore,
		CacheHitsTotal,
		CacheMissesTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}

// ServeHTTP serves Prometheus metrics on the specified address.
func ServeHTTP(addr string) error {
	http.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:         addr,
		Handler:      http.DefaultServeMux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server.ListenAndServe()
}

// RecordSourceFetch records the outcome of a quote fetch from a source.
func RecordSourceFetch(source string, success bool, duration time.Duration) {
	status := "success"
	val := 1.0
	if !success {
		status = "error"
		val = 0.0
	}
	SourceFetchesTotal.WithLabelValues(source, status).Inc()
	SourceFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
	SourceHealth.WithLabelValues(source).Set(val)
}

// RecordAggregation records an aggregation cycle.
func RecordAggregation(duration time.Duration, confidence float64) {
	AggregationDuration.Observe(duration.Seconds())
	ConfidenceScore.Set(confidence)
}

// RecordOutlierRejection records an outlier rejection.
func RecordOutlierRejection(source string) {
	OutlierRejectionsTotal.WithLabelValues(source).Inc()
}

// RecordDegradedAggregation records a fallback to the unfiltered quote set.
func RecordDegradedAggregation() {
	DegradedAggregationsTotal.Inc()
}

// RecordCacheHit records a result cache hit.
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a result cache miss.
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

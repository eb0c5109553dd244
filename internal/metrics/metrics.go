// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Recommendation Engine Metrics
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_training_duration_seconds",
			Help:    "Duration of latent-factor model training in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
	)

	TrainingRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_training_ratings",
			Help: "Number of ratings the current model was trained on",
		},
	)

	ModelInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommend_model_info",
			Help: "Capacity of the loaded model (value is always 1)",
		},
		[]string{"factors", "epochs"},
	)

	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_predictions_total",
			Help: "Total number of rating predictions by result (ok, failed)",
		},
		[]string{"result"},
	)

	BudgetExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_budget_exhausted_total",
			Help: "Recommendation requests that stopped scoring candidates early",
		},
	)

	RecommendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_request_duration_seconds",
			Help:    "Duration of recommendation service operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	SimilarityFetchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "similarity_user_fetch_errors_total",
			Help: "Per-user rating fetches that failed during similar-user search",
		},
	)

	ModelCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_cache_lookups_total",
			Help: "Model snapshot cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	// Achievement Metrics
	BadgesAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badges_awarded_total",
			Help: "Total number of badges newly awarded",
		},
		[]string{"badge"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordTraining records a completed training run.
func RecordTraining(duration time.Duration, ratings, factors, epochs int) {
	TrainingDuration.Observe(duration.Seconds())
	TrainingRatings.Set(float64(ratings))
	ModelInfo.Reset()
	ModelInfo.WithLabelValues(strconv.Itoa(factors), strconv.Itoa(epochs)).Set(1)
}

// RecordPrediction counts a single prediction attempt.
func RecordPrediction(err error) {
	if err != nil {
		Predictions.WithLabelValues("failed").Inc()
		return
	}
	Predictions.WithLabelValues("ok").Inc()
}

// RecordBudgetExhausted counts a recommendation run cut short by its time budget.
func RecordBudgetExhausted() {
	BudgetExhausted.Inc()
}

// RecordRecommendOperation observes the latency of a service operation.
func RecordRecommendOperation(operation string, duration time.Duration) {
	RecommendRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSimilarityFetchError counts a skipped user during similar-user search.
func RecordSimilarityFetchError() {
	SimilarityFetchErrors.Inc()
}

// RecordModelCacheLookup records a snapshot cache lookup; result is hit, miss or error.
func RecordModelCacheLookup(result string) {
	ModelCacheLookups.WithLabelValues(result).Inc()
}

// RecordBadgeAwarded counts a newly persisted badge.
func RecordBadgeAwarded(badge string) {
	BadgesAwarded.WithLabelValues(badge).Inc()
}

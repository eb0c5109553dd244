// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package metrics provides Prometheus instrumentation for Cinematch.

Metrics are registered with promauto on the default registry and exposed
at /metrics by the API router:

	curl http://localhost:8501/metrics

# Available Metrics

Database:
  - duckdb_query_duration_seconds{operation,table}
  - duckdb_query_errors_total{operation,table,error_type}

API:
  - api_requests_total{method,endpoint,status}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests

Recommendation engine:
  - recommend_training_duration_seconds
  - recommend_training_ratings
  - recommend_model_info{factors,epochs}
  - recommend_predictions_total{result}
  - recommend_budget_exhausted_total
  - recommend_request_duration_seconds{operation}
  - similarity_user_fetch_errors_total
  - model_cache_lookups_total{result}

Achievements:
  - badges_awarded_total{badge}

Record* helpers wrap the raw collectors so call sites stay one line.
*/
package metrics

// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package middleware provides chi-compatible HTTP middleware.

  - RequestID: X-Request-ID propagation (google/uuid) with request and
    correlation ids stored in the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge labelled by
    chi route pattern
  - Compression: gzip for clients sending Accept-Encoding: gzip

All three have the signature func(http.Handler) http.Handler and are
installed with r.Use in internal/api.
*/
package middleware

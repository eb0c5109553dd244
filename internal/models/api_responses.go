// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"recommendations": [...]},
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z", "query_time_ms": 45}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "INSUFFICIENT_RATINGS", "message": "Rate at least 3 movies"},
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - DATABASE_ERROR: Query execution failure
//   - UNAUTHORIZED: Invalid/missing credentials
//   - NOT_FOUND: Resource doesn't exist
//   - INSUFFICIENT_RATINGS: Caller has not rated enough movies
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// MovieDetail is a catalog entry plus the caller's rating, if any.
type MovieDetail struct {
	Movie
	UserRating *float64   `json:"user_rating"`
	RatedAt    *time.Time `json:"rated_at,omitempty"`
}

// RatingResult is returned after a rating is stored.
type RatingResult struct {
	MovieID   int      `json:"movie_id"`
	Rating    float64  `json:"rating"`
	NewBadges []string `json:"new_badges"`
}

// HealthStatus is the readiness report.
type HealthStatus struct {
	Status        string      `json:"status"`
	Database      string      `json:"database"`
	Model         string      `json:"model"`
	CatalogMovies int         `json:"catalog_movies"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	ModelInfo     interface{} `json:"model_info,omitempty"`
}

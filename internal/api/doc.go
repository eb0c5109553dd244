// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package api provides the HTTP interface of Cinematch.

Routes are served by a chi router (see Router.Setup):

	GET  /api/v1/health/live               liveness
	GET  /api/v1/health/ready              database ping and trained model
	POST /api/v1/auth/signup               create account, returns token
	POST /api/v1/auth/login                returns token
	GET  /api/v1/movies                    ?q= search, ?genre= filter, else random ?n=
	GET  /api/v1/movies/{movieID}          movie plus caller's rating
	PUT  /api/v1/movies/{movieID}/rating   {"rating": 4.5}, returns new badges
	GET  /api/v1/genres                    catalog genres
	GET  /api/v1/me/profile                count, mean, badges, recent ratings
	GET  /api/v1/me/recommendations        ?n=, needs 3 ratings
	GET  /api/v1/me/similar-users          ?top_n=, needs 5 ratings
	GET  /api/v1/users/{userID}/top-rated  ?k=
	GET  /metrics                          Prometheus exposition

Everything under /api/v1 except health and auth requires a bearer token or
the token cookie.

# Response Format

Every JSON response uses models.APIResponse:

	{"status": "success", "data": ..., "metadata": {"timestamp": ..., "query_time_ms": 3}}
	{"status": "error", "data": null, "error": {"code": "INSUFFICIENT_RATINGS", "message": ...}}

Callers below the rating threshold of recommendations or similar users get
409 with code INSUFFICIENT_RATINGS and details {"required", "current"}.

# Middleware

Global: request id, real IP, panic recovery, CORS (go-chi/cors) and gzip.
Per group: httprate per-IP limits, security headers, Prometheus request
metrics and authentication.
*/
package api

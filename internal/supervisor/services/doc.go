// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package services provides suture.Service wrappers for long-running
// components: the HTTP server (api layer) and the periodic DuckDB
// checkpoint (data layer).
package services

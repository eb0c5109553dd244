// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package database is the DuckDB-backed ratings store.

It persists application users, their movie ratings and their achievement
badges. Uniqueness is enforced by primary keys so that the write paths are
idempotent without application-level locking:

  - UpsertRating: INSERT ... ON CONFLICT (user_id, movie_id) DO UPDATE
  - AddBadge: INSERT ... ON CONFLICT DO NOTHING, reporting whether a row was written

Write-write conflicts reported by DuckDB's optimistic concurrency control
are retried a bounded number of times.

Usage:

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
	    return err
	}
	defer db.Close()

	if err := db.UpsertRating(ctx, userID, movieID, 4.5); err != nil {
	    return err
	}
	ratings, err := db.GetUserRatings(ctx, userID) // newest first

Tests use Path ":memory:".
*/
package database

// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package models defines data structures shared across Cinematch.

Key Components:

  - Movie: immutable catalog entry (id, title, ordered genre list)
  - Rating: a user's rating of a movie, unique per (user, movie)
  - Badge: an achievement awarded to a user, unique per (user, badge name)
  - User / UserRatingCount: account records and rating aggregates
  - RecommendedMovie / SimilarUser / RatedMovie: service results
  - APIResponse: standardized HTTP response wrapper

Models carry JSON tags for the HTTP layer. They hold no behavior beyond small
helpers such as Movie.HasGenre.
*/
package models

// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import "time"

// Live rating bounds accepted from users (half-star increments).
const (
	MinRatingValue = 0.5
	MaxRatingValue = 5.0
)

// Rating is a user's rating of a single movie.
// A (UserID, MovieID) pair is unique; re-rating overwrites Value and RatedAt.
type Rating struct {
	UserID  int       `json:"user_id"`
	MovieID int       `json:"movie_id"`
	Value   float64   `json:"rating"`
	RatedAt time.Time `json:"rated_at"`
}

// HistoricalRating is one row of the corpus rating table used for training.
// Fields are narrow because large corpora hold tens of millions of rows.
type HistoricalRating struct {
	UserID  int32
	MovieID int32
	Value   float32
}

// RatedMovie joins a rating with its catalog entry.
type RatedMovie struct {
	Movie
	Rating  float64   `json:"rating"`
	RatedAt time.Time `json:"rated_at"`
}

// RecommendedMovie is a candidate movie with its predicted rating.
type RecommendedMovie struct {
	Movie
	PredictedRating float64 `json:"predicted_rating"`
}

// SimilarUser is another user ranked by taste similarity.
// Similarity is a percentage rounded to one decimal place.
type SimilarUser struct {
	UserID      int     `json:"user_id"`
	Username    string  `json:"username"`
	Similarity  float64 `json:"similarity"`
	RatingCount int     `json:"rating_count"`
}

// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import "time"

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRatingCount is a user that has rated at least one movie.
type UserRatingCount struct {
	UserID      int    `json:"user_id"`
	Username    string `json:"username"`
	RatingCount int    `json:"rating_count"`
}

// Badge is an achievement earned by a user.
type Badge struct {
	UserID      int       `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earned_at"`
}

// Profile summarizes a user's activity for the profile view.
type Profile struct {
	UserID        int          `json:"user_id"`
	Username      string       `json:"username"`
	RatingCount   int          `json:"rating_count"`
	AverageRating float64      `json:"average_rating"`
	Badges        []Badge      `json:"badges"`
	RecentRatings []RatedMovie `json:"recent_ratings"`
}

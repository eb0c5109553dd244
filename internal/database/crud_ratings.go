// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
)

// UpsertRating records a rating, overwriting the value and timestamp when the
// user has already rated the movie.
func (db *DB) UpsertRating(ctx context.Context, userID, movieID int, rating float64) error {
	start := time.Now()
	err := withConflictRetry(ctx, func() error {
		_, err := db.conn.ExecContext(ctx, `
			INSERT INTO user_ratings (user_id, movie_id, rating, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id, movie_id) DO UPDATE SET
				rating = EXCLUDED.rating,
				created_at = EXCLUDED.created_at`,
			userID, movieID, rating, db.now().UTC())
		return err
	})
	metrics.RecordDBQuery("UPSERT", "user_ratings", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// GetUserRatings returns all ratings for a user, newest first.
func (db *DB) GetUserRatings(ctx context.Context, userID int) ([]models.Rating, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, movie_id, rating, created_at
		FROM user_ratings
		WHERE user_id = ?
		ORDER BY created_at DESC, movie_id`, userID)
	metrics.RecordDBQuery("SELECT", "user_ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]models.Rating, 0)
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Value, &r.RatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}
	return ratings, nil
}

// GetUserRatingForMovie returns ErrRatingNotFound when the user has not rated the movie.
func (db *DB) GetUserRatingForMovie(ctx context.Context, userID, movieID int) (*models.Rating, error) {
	var r models.Rating
	err := db.conn.QueryRowContext(ctx, `
		SELECT user_id, movie_id, rating, created_at
		FROM user_ratings
		WHERE user_id = ? AND movie_id = ?`, userID, movieID,
	).Scan(&r.UserID, &r.MovieID, &r.Value, &r.RatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &r, nil
}

// CountRatings returns how many movies a user has rated.
func (db *DB) CountRatings(ctx context.Context, userID int) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_ratings WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return n, nil
}

// GetUsersWithAtLeastOneRating lists every user with ratings, ordered by id.
// Users whose account row is missing are returned with an empty username.
func (db *DB) GetUsersWithAtLeastOneRating(ctx context.Context) ([]models.UserRatingCount, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT r.user_id, COALESCE(u.username, '') AS username, COUNT(*) AS rating_count
		FROM user_ratings r
		LEFT JOIN users u ON u.id = r.user_id
		GROUP BY r.user_id, u.username
		ORDER BY r.user_id`)
	metrics.RecordDBQuery("SELECT", "user_ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating users: %w", err)
	}
	defer rows.Close()

	users := make([]models.UserRatingCount, 0)
	for rows.Next() {
		var u models.UserRatingCount
		if err := rows.Scan(&u.UserID, &u.Username, &u.RatingCount); err != nil {
			return nil, fmt.Errorf("failed to scan rating user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating users: %w", err)
	}
	return users, nil
}

// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
)

// AddBadge awards a badge if the user does not already hold it.
// It reports true only when a new row was written.
func (db *DB) AddBadge(ctx context.Context, userID int, name, description string) (bool, error) {
	start := time.Now()
	var affected int64
	err := withConflictRetry(ctx, func() error {
		res, err := db.conn.ExecContext(ctx, `
			INSERT INTO user_badges (user_id, badge_name, badge_description, earned_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id, badge_name) DO NOTHING`,
			userID, name, description, db.now().UTC())
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	metrics.RecordDBQuery("INSERT", "user_badges", time.Since(start), err)
	if err != nil {
		return false, fmt.Errorf("failed to add badge: %w", err)
	}
	return affected > 0, nil
}

// GetUserBadges returns a user's badges, most recently earned first.
func (db *DB) GetUserBadges(ctx context.Context, userID int) ([]models.Badge, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, badge_name, badge_description, earned_at
		FROM user_badges
		WHERE user_id = ?
		ORDER BY earned_at DESC, badge_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query badges: %w", err)
	}
	defer rows.Close()

	badges := make([]models.Badge, 0)
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.UserID, &b.Name, &b.Description, &b.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating badges: %w", err)
	}
	return badges, nil
}

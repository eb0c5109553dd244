// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
database_schema.go - Database Schema Management

Tables:
  - users: application accounts (id from users_id_seq, unique username, bcrypt hash)
  - user_ratings: one row per (user_id, movie_id); re-rating overwrites rating and created_at
  - user_badges: one row per (user_id, badge_name); insert-if-absent, never revoked

Movie metadata is not stored here. It lives in the immutable in-memory corpus.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS users_id_seq START 1`,

		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY DEFAULT nextval('users_id_seq'),
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS user_ratings (
			user_id INTEGER NOT NULL,
			movie_id INTEGER NOT NULL,
			rating DOUBLE NOT NULL,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, movie_id)
		)`,

		`CREATE TABLE IF NOT EXISTS user_badges (
			user_id INTEGER NOT NULL,
			badge_name TEXT NOT NULL,
			badge_description TEXT NOT NULL,
			earned_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, badge_name)
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// createIndexes creates secondary indexes for the profile and similarity queries.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_user_ratings_user_created ON user_ratings(user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_user_badges_user ON user_badges(user_id)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}
	return nil
}

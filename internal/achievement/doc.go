// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package achievement awards badges for rating activity.
//
// Rules are a fixed table (Rules) evaluated in order against a user's rating
// count c, mean rating m and per-genre counts:
//
//	First Steps    c >= 1
//	Movie Buff     c >= 10
//	Cinephile      c >= 25
//	Film Critic    c >= 50
//	{genre} Fan    c >= 5 and count(genre) >= max(5, 0.7*c), per genre
//	Tough Critic   c >= 10 and m < 3
//	Optimist       c >= 10 and m > 4
//
// Awarding is idempotent through the store: AddBadge inserts only when the
// (user, badge) pair is absent, and Evaluate reports only the badges that
// were actually inserted. Badges are never revoked.
package achievement

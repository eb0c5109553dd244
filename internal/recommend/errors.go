// Cinematch - Movie Recommendations and Taste Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"errors"

	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

var (
	// ErrEmptyTrainingSet is returned by Train for an empty rating table.
	ErrEmptyTrainingSet = errors.New("training set is empty")

	// ErrInvalidRating is returned by Train when a row has a non-positive id
	// or a non-finite rating.
	ErrInvalidRating = algorithms.ErrInvalidRating

	// ErrSnapshotMismatch is returned when a snapshot does not describe a
	// usable model.
	ErrSnapshotMismatch = errors.New("model snapshot mismatch")
)
